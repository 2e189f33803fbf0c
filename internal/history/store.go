// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists executed searches and their normalized papers in
// a local SQLite database.
// Implements: prd005-history (R1-R4);
//
//	docs/ARCHITECTURE § History.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-scout/pkg/types"
)

const dbFile = "paper-scout.db"

// Entry is one recorded search.
type Entry struct {
	ID          int64     `json:"id" yaml:"id"`
	Topic       string    `json:"topic,omitempty" yaml:"topic,omitempty"`
	Variant     string    `json:"variant,omitempty" yaml:"variant,omitempty"`
	Query       string    `json:"query" yaml:"query"`
	ResultCount int       `json:"result_count" yaml:"result_count"`
	ExecutedAt  time.Time `json:"executed_at" yaml:"executed_at"`
}

// Store manages the search history SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens or creates the history database at dataDir/paper-scout.db
// and creates the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT,
			variant TEXT,
			query TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			executed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS search_papers (
			search_id INTEGER NOT NULL REFERENCES searches(id),
			position INTEGER NOT NULL,
			paper_id TEXT NOT NULL,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			year INTEGER NOT NULL,
			authors TEXT NOT NULL,
			url TEXT NOT NULL,
			venue TEXT,
			citation_count INTEGER,
			PRIMARY KEY (search_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_papers_search_id ON search_papers(search_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one executed search and its papers in a single transaction
// and returns the new search ID (R2.1, R2.2).
func (s *Store) Record(ctx context.Context, entry Entry, papers types.SearchResultSet) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	executedAt := entry.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO searches (topic, variant, query, result_count, executed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Topic, entry.Variant, entry.Query, len(papers),
		executedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting search: %w", err)
	}
	searchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading search ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO search_papers
			(search_id, position, paper_id, title, abstract, year, authors, url, venue, citation_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		var venue any
		if p.Venue != "" {
			venue = p.Venue
		}
		var citations any
		if p.CitationCount != nil {
			citations = *p.CitationCount
		}
		if _, err := stmt.ExecContext(ctx,
			searchID, i, p.PaperID, p.Title, p.Abstract, p.Year,
			string(authorsJSON), p.URL, venue, citations,
		); err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.PaperID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return searchID, nil
}

// Recent returns the most recent searches, newest first (R3.1).
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, variant, query, result_count, executed_at
		 FROM searches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var topic, variant sql.NullString
		var executedAt string
		if err := rows.Scan(&e.ID, &topic, &variant, &e.Query, &e.ResultCount, &executedAt); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		e.Topic = topic.String
		e.Variant = variant.String
		if t, parseErr := time.Parse(time.RFC3339, executedAt); parseErr == nil {
			e.ExecutedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Papers returns the stored result set for one search, in recorded order (R3.2).
func (s *Store) Papers(ctx context.Context, searchID int64) (types.SearchResultSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, title, abstract, year, authors, url, venue, citation_count
		 FROM search_papers WHERE search_id = ? ORDER BY position`, searchID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	set := types.SearchResultSet{}
	for rows.Next() {
		var p types.Paper
		var authorsJSON string
		var venue sql.NullString
		var citations sql.NullInt64
		if err := rows.Scan(&p.PaperID, &p.Title, &p.Abstract, &p.Year,
			&authorsJSON, &p.URL, &venue, &citations); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors for %s: %w", p.PaperID, err)
		}
		p.Venue = venue.String
		if citations.Valid {
			c := int(citations.Int64)
			p.CitationCount = &c
		}
		set = append(set, p)
	}
	return set, rows.Err()
}

// export is the YAML document written by ExportYAML.
type export struct {
	Search Entry                 `yaml:"search"`
	Papers types.SearchResultSet `yaml:"papers"`
}

// ExportYAML writes one search and its papers to dataDir/search-[ID].yaml
// and returns the file path (R4.1).
func (s *Store) ExportYAML(ctx context.Context, searchID int64) (string, error) {
	var e Entry
	var topic, variant sql.NullString
	var executedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, topic, variant, query, result_count, executed_at
		 FROM searches WHERE id = ?`, searchID,
	).Scan(&e.ID, &topic, &variant, &e.Query, &e.ResultCount, &executedAt)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("search %d not found", searchID)
	}
	if err != nil {
		return "", fmt.Errorf("querying search: %w", err)
	}
	e.Topic = topic.String
	e.Variant = variant.String
	if t, parseErr := time.Parse(time.RFC3339, executedAt); parseErr == nil {
		e.ExecutedAt = t
	}

	papers, err := s.Papers(ctx, searchID)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(export{Search: e, Papers: papers})
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.dataDir, fmt.Sprintf("search-%d.yaml", searchID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
