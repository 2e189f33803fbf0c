// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package papersearch queries the Semantic Scholar paper search API.
// Implements: prd002-paper-search (R1-R4);
//
//	docs/ARCHITECTURE § Paper Search.
package papersearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-scout/internal/failure"
	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// apiBase is the Semantic Scholar paper search endpoint. Declared as a var
// so tests can substitute an httptest server.
var apiBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	// resultLimit is the fixed page size. Only the first page is ever
	// requested; the envelope's total and next fields are ignored (R2.3).
	resultLimit = 10

	// paperFields enumerates the record fields requested from the API.
	// paperId is always returned and need not be listed.
	paperFields = "title,abstract,year,authors,venue,url,citationCount"
)

// Client performs single-page paper searches. One outbound call per Search
// invocation; no retries, no backoff (R4.3).
type Client struct {
	HTTPClient *http.Client
	UserAgent  string

	// APIKey is an optional Semantic Scholar key for higher rate limits.
	APIKey string
}

// NewClient builds a client from search configuration.
func NewClient(cfg types.SearchConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		APIKey:     cfg.APIKey,
	}
}

// envelope is the top-level Semantic Scholar response. Only Data is consumed.
type envelope struct {
	Total  int                    `json:"total"`
	Offset int                    `json:"offset"`
	Next   int                    `json:"next"`
	Data   []types.RawPaperRecord `json:"data"`
}

// Search requests the first page of results for query and returns the raw
// records untouched. Fewer than resultLimit records is not an error; an
// empty query fails before any network call (R1.2).
func (c *Client) Search(ctx context.Context, query string) ([]types.RawPaperRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, failure.New(failure.InvalidInput, "query is empty")
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(resultLimit)},
		"fields": {paperFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, failure.Wrap(failure.Upstream, err, "creating request")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := httputil.Do(c.HTTPClient, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, failure.Wrap(failure.Upstream, err, "parsing search response")
	}

	return env.Data, nil
}
