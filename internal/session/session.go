// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session orchestrates one user's pipeline: topic to query variants
// to normalized results. Each session owns its own state; concurrent
// sessions never share anything.
// Implements: prd004-session (R1-R5);
//
//	docs/ARCHITECTURE § Session.
package session

import (
	"context"
	"sync"

	"github.com/pdiddy/paper-scout/internal/failure"
	"github.com/pdiddy/paper-scout/internal/normalize"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// State names one position in the session lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateQueriesReady State = "queries_ready"
	StateResultsReady State = "results_ready"
	StateFailed       State = "failed"
)

// Generator produces a QuerySet from a topic. Satisfied by *querygen.Generator.
type Generator interface {
	Generate(ctx context.Context, topic string) (types.QuerySet, error)
}

// Searcher returns raw records for one query. Satisfied by *papersearch.Client.
type Searcher interface {
	Search(ctx context.Context, query string) ([]types.RawPaperRecord, error)
}

// Session is the per-user orchestrator. It holds the current topic, the
// generated QuerySet, and the latest result set, and enforces one operation
// in flight at a time (R3.1).
type Session struct {
	generator Generator
	searcher  Searcher

	mu          sync.Mutex
	busy        bool
	state       State
	failedStage failure.Stage
	topic       string
	queries     *types.QuerySet
	results     types.SearchResultSet
}

// New returns an idle session using the given collaborators.
func New(generator Generator, searcher Searcher) *Session {
	return &Session{
		generator: generator,
		searcher:  searcher,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FailedStage returns which stage failed. Only meaningful in StateFailed.
func (s *Session) FailedStage() failure.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedStage
}

// Topic returns the topic the current QuerySet was generated from.
func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Queries returns the current QuerySet. ok is false before a successful
// generation or after a reset.
func (s *Session) Queries() (types.QuerySet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queries == nil {
		return types.QuerySet{}, false
	}
	return *s.queries, true
}

// Results returns the latest result set. ok is false before a successful
// search or after a reset.
func (s *Session) Results() (types.SearchResultSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateResultsReady {
		return nil, false
	}
	return s.results, true
}

// GenerateQueries submits a new topic. Any prior QuerySet and result set
// are discarded wholesale before the generator runs; there is no carry-over
// between topics (R2.2). On failure the session lands in StateFailed with
// the generation stage tag.
func (s *Session) GenerateQueries(ctx context.Context, topic string) (types.QuerySet, error) {
	if err := s.acquire(); err != nil {
		return types.QuerySet{}, err
	}
	defer s.release()

	s.mu.Lock()
	s.state = StateIdle
	s.failedStage = ""
	s.topic = ""
	s.queries = nil
	s.results = nil
	s.mu.Unlock()

	qs, err := s.generator.Generate(ctx, topic)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.failedStage = failure.StageGeneration
		return types.QuerySet{}, failure.AtStage(failure.StageGeneration, err)
	}

	s.topic = topic
	s.queries = &qs
	s.state = StateQueriesReady
	return qs, nil
}

// Search runs the selected query and normalizes the results. The selection
// must be one of the three strings in the current QuerySet; anything else
// is a contract violation that leaves the session untouched (R2.4). A
// search failure lands in StateFailed with the search stage tag, keeping
// the QuerySet so the user can re-select.
func (s *Session) Search(ctx context.Context, selectedQuery string) (types.SearchResultSet, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	s.mu.Lock()
	if s.queries == nil {
		s.mu.Unlock()
		return nil, failure.New(failure.InvalidSelection, "no query set is available; generate queries first")
	}
	if !s.queries.Contains(selectedQuery) {
		s.mu.Unlock()
		return nil, failure.New(failure.InvalidSelection, "query %q is not part of the current query set", selectedQuery)
	}
	s.mu.Unlock()

	records, err := s.searcher.Search(ctx, selectedQuery)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		s.failedStage = failure.StageSearch
		s.results = nil
		return nil, failure.AtStage(failure.StageSearch, err)
	}

	s.results = normalize.Normalize(records)
	s.state = StateResultsReady
	s.failedStage = ""
	return s.results, nil
}

// acquire claims the in-flight slot. A second call while one is running is
// rejected, never queued (R3.1).
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return failure.New(failure.OperationInProgress, "an operation is already in flight")
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
