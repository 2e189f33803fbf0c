// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pdiddy/paper-scout/internal/failure"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var testQuerySet = types.QuerySet{
	Broad:   "trustworthy artificial intelligence systems",
	Focused: "explainable and reliable AI trust frameworks",
	Method:  "empirical evaluation of trust in AI systems",
}

// fakeGenerator returns a canned QuerySet or error.
type fakeGenerator struct {
	qs    types.QuerySet
	err   error
	calls int
	// release, when set, blocks Generate until the channel closes.
	release chan struct{}
	started chan struct{}
}

func (g *fakeGenerator) Generate(context.Context, string) (types.QuerySet, error) {
	g.calls++
	if g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		<-g.release
	}
	return g.qs, g.err
}

// fakeSearcher returns canned records or an error and captures the query.
type fakeSearcher struct {
	records []types.RawPaperRecord
	err     error
	calls   int
	query   string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]types.RawPaperRecord, error) {
	s.calls++
	s.query = query
	return s.records, s.err
}

// rawRecord builds a complete raw record for the given ID.
func rawRecord(id string) types.RawPaperRecord {
	return types.RawPaperRecord{
		PaperID:  id,
		Title:    "Paper " + id,
		Abstract: "Abstract " + id,
		URL:      "https://example.org/" + id,
		Year:     json.RawMessage(`2022`),
		Authors:  []types.RawAuthor{{AuthorID: "1", Name: "Alice Smith"}},
	}
}

// --- Generation ---

func TestGenerateQueriesSuccess(t *testing.T) {
	sess := New(&fakeGenerator{qs: testQuerySet}, &fakeSearcher{})

	qs, err := sess.GenerateQueries(context.Background(), "ai systems people can trust")
	if err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}
	if qs != testQuerySet {
		t.Errorf("QuerySet = %+v", qs)
	}
	if got := sess.State(); got != StateQueriesReady {
		t.Errorf("State = %q, want %q", got, StateQueriesReady)
	}
	if got := sess.Topic(); got != "ai systems people can trust" {
		t.Errorf("Topic = %q", got)
	}
	held, ok := sess.Queries()
	if !ok || held != testQuerySet {
		t.Errorf("Queries() = %+v, %v", held, ok)
	}
}

func TestGenerateQueriesFailure(t *testing.T) {
	genErr := failure.New(failure.MalformedResponse, "response is not a JSON object")
	sess := New(&fakeGenerator{err: genErr}, &fakeSearcher{})

	_, err := sess.GenerateQueries(context.Background(), "topic")
	if err == nil {
		t.Fatal("expected error")
	}

	// The failure kind passes through unchanged, with the stage tagged on.
	if !failure.Is(err, failure.MalformedResponse) {
		t.Errorf("error = %v, want kind malformed_response", err)
	}
	stage, ok := failure.StageOf(err)
	if !ok || stage != failure.StageGeneration {
		t.Errorf("stage = %q, %v, want generation", stage, ok)
	}

	if got := sess.State(); got != StateFailed {
		t.Errorf("State = %q, want %q", got, StateFailed)
	}
	if got := sess.FailedStage(); got != failure.StageGeneration {
		t.Errorf("FailedStage = %q, want %q", got, failure.StageGeneration)
	}
	if _, ok := sess.Queries(); ok {
		t.Error("Queries() available after failed generation")
	}
}

func TestGenerateQueriesDiscardsPriorState(t *testing.T) {
	gen := &fakeGenerator{qs: testQuerySet}
	searcher := &fakeSearcher{records: []types.RawPaperRecord{rawRecord("p1")}}
	sess := New(gen, searcher)
	ctx := context.Background()

	if _, err := sess.GenerateQueries(ctx, "first topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}
	if _, err := sess.Search(ctx, testQuerySet.Broad); err != nil {
		t.Fatalf("Search: %v", err)
	}

	// A new topic resets everything: no carry-over, no merge.
	second := types.QuerySet{Broad: "b2", Focused: "f2", Method: "m2"}
	gen.qs = second
	if _, err := sess.GenerateQueries(ctx, "second topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}

	if _, ok := sess.Results(); ok {
		t.Error("Results() still available after new topic")
	}
	held, _ := sess.Queries()
	if held != second {
		t.Errorf("Queries() = %+v, want the new set", held)
	}

	// The old QuerySet's strings are no longer selectable.
	_, err := sess.Search(ctx, testQuerySet.Broad)
	if !failure.Is(err, failure.InvalidSelection) {
		t.Errorf("error = %v, want kind invalid_selection", err)
	}
}

// --- Search ---

func TestSearchSuccess(t *testing.T) {
	searcher := &fakeSearcher{records: []types.RawPaperRecord{
		rawRecord("p1"),
		rawRecord("p2"),
	}}
	sess := New(&fakeGenerator{qs: testQuerySet}, searcher)
	ctx := context.Background()

	if _, err := sess.GenerateQueries(ctx, "topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}

	results, err := sess.Search(ctx, testQuerySet.Focused)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if searcher.query != testQuerySet.Focused {
		t.Errorf("searcher received %q, want the selected query verbatim", searcher.query)
	}
	if len(results) != 2 || results[0].PaperID != "p1" || results[1].PaperID != "p2" {
		t.Errorf("results = %+v", results)
	}
	if got := sess.State(); got != StateResultsReady {
		t.Errorf("State = %q, want %q", got, StateResultsReady)
	}
}

func TestSearchNormalizesRecords(t *testing.T) {
	// One record missing its abstract is dropped between the raw response
	// and the session's result set.
	incomplete := rawRecord("p2")
	incomplete.Abstract = ""
	searcher := &fakeSearcher{records: []types.RawPaperRecord{rawRecord("p1"), incomplete, rawRecord("p3")}}
	sess := New(&fakeGenerator{qs: testQuerySet}, searcher)
	ctx := context.Background()

	if _, err := sess.GenerateQueries(ctx, "topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}
	results, err := sess.Search(ctx, testQuerySet.Broad)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 || results[0].PaperID != "p1" || results[1].PaperID != "p3" {
		t.Errorf("results = %+v, want p1 and p3", results)
	}
}

func TestSearchRateLimitedFailure(t *testing.T) {
	searcher := &fakeSearcher{err: failure.New(failure.RateLimited, "HTTP 429")}
	sess := New(&fakeGenerator{qs: testQuerySet}, searcher)
	ctx := context.Background()

	if _, err := sess.GenerateQueries(ctx, "topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}

	_, err := sess.Search(ctx, testQuerySet.Broad)
	if !failure.Is(err, failure.RateLimited) {
		t.Errorf("error = %v, want kind rate_limited", err)
	}
	stage, _ := failure.StageOf(err)
	if stage != failure.StageSearch {
		t.Errorf("stage = %q, want search", stage)
	}
	if got := sess.State(); got != StateFailed {
		t.Errorf("State = %q, want %q", got, StateFailed)
	}
	if got := sess.FailedStage(); got != failure.StageSearch {
		t.Errorf("FailedStage = %q, want %q", got, failure.StageSearch)
	}
}

func TestSearchRetryAfterFailureKeepsQuerySet(t *testing.T) {
	searcher := &fakeSearcher{err: failure.New(failure.Upstream, "HTTP 500")}
	sess := New(&fakeGenerator{qs: testQuerySet}, searcher)
	ctx := context.Background()

	if _, err := sess.GenerateQueries(ctx, "topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}
	if _, err := sess.Search(ctx, testQuerySet.Broad); err == nil {
		t.Fatal("expected search failure")
	}

	// The user can re-select: the QuerySet survives the failed search.
	searcher.err = nil
	searcher.records = []types.RawPaperRecord{rawRecord("p1")}
	results, err := sess.Search(ctx, testQuerySet.Method)
	if err != nil {
		t.Fatalf("Search after retry: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
	if got := sess.State(); got != StateResultsReady {
		t.Errorf("State = %q, want %q", got, StateResultsReady)
	}
}

func TestSearchInvalidSelection(t *testing.T) {
	searcher := &fakeSearcher{records: []types.RawPaperRecord{rawRecord("p1")}}
	sess := New(&fakeGenerator{qs: testQuerySet}, searcher)
	ctx := context.Background()

	if _, err := sess.GenerateQueries(ctx, "topic"); err != nil {
		t.Fatalf("GenerateQueries: %v", err)
	}

	_, err := sess.Search(ctx, "a query nobody generated")
	if !failure.Is(err, failure.InvalidSelection) {
		t.Errorf("error = %v, want kind invalid_selection", err)
	}

	// The contract violation leaves the session untouched.
	if got := sess.State(); got != StateQueriesReady {
		t.Errorf("State = %q, want %q (unchanged)", got, StateQueriesReady)
	}
	if searcher.calls != 0 {
		t.Errorf("searcher called %d times, want 0", searcher.calls)
	}
}

func TestSearchBeforeGenerate(t *testing.T) {
	searcher := &fakeSearcher{}
	sess := New(&fakeGenerator{qs: testQuerySet}, searcher)

	_, err := sess.Search(context.Background(), "anything")
	if !failure.Is(err, failure.InvalidSelection) {
		t.Errorf("error = %v, want kind invalid_selection", err)
	}
	if got := sess.State(); got != StateIdle {
		t.Errorf("State = %q, want %q", got, StateIdle)
	}
	if searcher.calls != 0 {
		t.Errorf("searcher called %d times, want 0", searcher.calls)
	}
}

// --- In-flight guard ---

func TestOperationInProgressGuard(t *testing.T) {
	gen := &fakeGenerator{
		qs:      testQuerySet,
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	sess := New(gen, &fakeSearcher{})

	done := make(chan error, 1)
	go func() {
		_, err := sess.GenerateQueries(context.Background(), "topic")
		done <- err
	}()
	<-gen.started

	// Both operations are rejected while the first call is in flight.
	_, err := sess.GenerateQueries(context.Background(), "another topic")
	if !failure.Is(err, failure.OperationInProgress) {
		t.Errorf("GenerateQueries error = %v, want kind operation_in_progress", err)
	}
	_, err = sess.Search(context.Background(), testQuerySet.Broad)
	if !failure.Is(err, failure.OperationInProgress) {
		t.Errorf("Search error = %v, want kind operation_in_progress", err)
	}

	close(gen.release)
	if err := <-done; err != nil {
		t.Fatalf("first GenerateQueries: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1 (rejected call never queued)", gen.calls)
	}

	// The guard clears once the call finishes.
	if _, err := sess.Search(context.Background(), testQuerySet.Broad); err != nil {
		t.Fatalf("Search after release: %v", err)
	}
}
