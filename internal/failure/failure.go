// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package failure defines the typed error taxonomy shared by the pipeline
// stages. Failures are plain error values; callers classify them with KindOf
// and StageOf instead of string matching.
//
// See docs/ARCHITECTURE § Error Handling.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies one failure category. The set is closed: every error a
// stage returns carries exactly one of these.
type Kind string

const (
	// InvalidInput marks an empty or otherwise unusable caller-supplied value.
	InvalidInput Kind = "invalid_input"

	// MalformedResponse marks a model response that is not valid JSON or is
	// valid JSON but not an object.
	MalformedResponse Kind = "malformed_response"

	// SchemaViolation marks a JSON object missing a required key, carrying
	// extra keys, or holding a non-string or empty value.
	SchemaViolation Kind = "schema_violation"

	// Upstream marks a failed call to an external API: transport errors,
	// non-2xx statuses, auth problems, or an empty/blocked model response.
	Upstream Kind = "upstream_error"

	// RateLimited marks an HTTP 429 from the search API, kept separate from
	// Upstream so the caller can message it specifically.
	RateLimited Kind = "rate_limited"

	// InvalidSelection marks a query selection that is not part of the
	// current QuerySet. A programming-contract violation, not a user error.
	InvalidSelection Kind = "invalid_selection"

	// OperationInProgress marks a call made while another call on the same
	// session was still in flight.
	OperationInProgress Kind = "operation_in_progress"
)

// Message returns the human-readable description shown for this kind.
func (k Kind) Message() string {
	switch k {
	case InvalidInput:
		return "the input is empty or invalid"
	case MalformedResponse:
		return "the model did not return valid JSON"
	case SchemaViolation:
		return "the model returned JSON that does not match the expected shape"
	case Upstream:
		return "an external service call failed"
	case RateLimited:
		return "the search API is rate limiting requests; wait a moment and retry"
	case InvalidSelection:
		return "the selected query does not belong to the current query set"
	case OperationInProgress:
		return "another operation is still running"
	}
	return string(k)
}

// Failure is an error tagged with a Kind and an optional wrapped cause.
type Failure struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error returns the message, appending the cause if one is wrapped.
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Msg, f.Err)
	}
	return f.Msg
}

// Unwrap returns the wrapped cause, if any.
func (f *Failure) Unwrap() error { return f.Err }

// New returns a Failure of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a Failure of the given kind wrapping err. The cause stays
// reachable through errors.Unwrap.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &Failure{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind carried by err, unwrapping as needed. The second
// return is false when err carries no Kind.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Stage identifies which pipeline phase a failure originated from.
type Stage string

const (
	// StageGeneration covers query generation failures.
	StageGeneration Stage = "generation"

	// StageSearch covers paper search failures.
	StageSearch Stage = "search"
)

// StageError wraps a stage failure with its originating stage so callers can
// attribute it without inspecting nested causes.
type StageError struct {
	Stage Stage
	Err   error
}

// Error returns the stage-prefixed message.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying failure.
func (e *StageError) Unwrap() error { return e.Err }

// AtStage wraps err with a stage tag. A nil err returns nil.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage carried by err, or "" when err has none.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
