// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"io"
	"net/http"

	"github.com/pdiddy/paper-scout/internal/failure"
)

// Do executes a single HTTP request and classifies the outcome. Transport
// errors and non-2xx statuses become typed failures; HTTP 429 is reported as
// RateLimited so callers can message it specifically. No retries are
// performed: retry is the user's re-click, not this layer's job.
//
// On a non-2xx status the response body is drained and closed before the
// error is returned. On success the caller owns the open body.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, failure.Wrap(failure.Upstream, err, "requesting %s", req.URL.Host)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, failure.New(failure.RateLimited, "%s returned HTTP 429", req.URL.Host)
	}
	return nil, failure.New(failure.Upstream, "%s returned HTTP %d", req.URL.Host, resp.StatusCode)
}
