// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// RawPaperRecord is one candidate result exactly as the Semantic Scholar API
// returned it. Every field is optional at this layer; the normalizer decides
// which records qualify as a Paper (prd003-normalization R3.1).
type RawPaperRecord struct {
	PaperID  string      `json:"paperId"`
	Title    string      `json:"title"`
	Abstract string      `json:"abstract"`
	URL      string      `json:"url"`
	Venue    string      `json:"venue"`
	Authors  []RawAuthor `json:"authors"`

	// Year is kept raw: the API sends an integer, null, or occasionally a
	// string, and the normalizer owns the coercion rule (R3.2).
	Year json.RawMessage `json:"year"`

	// CitationCount is a pointer so zero citations is distinguishable from
	// the field being absent.
	CitationCount *int `json:"citationCount"`
}

// RawAuthor is one author entry in a RawPaperRecord.
type RawAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// Paper is a normalized, fully qualified search result ready for display.
// Required fields (PaperID through URL) are always present and non-empty; a
// Paper is never constructed from a record missing any of them.
type Paper struct {
	// PaperID is the Semantic Scholar identifier, unique per corpus.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Authors lists the author names in source order. Never empty.
	Authors []string `json:"authors" yaml:"authors"`

	// URL links to the paper's Semantic Scholar page.
	URL string `json:"url" yaml:"url"`

	// Venue is the publication venue, omitted when the source had none.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is omitted (nil) when unknown, so the display layer can
	// tell "unknown" apart from "zero citations".
	CitationCount *int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
}

// SearchResultSet is an ordered sequence of normalized papers from one
// search, in the API's returned order. At most one page (10 records) of
// input feeds it, so it holds at most 10 papers.
type SearchResultSet []Paper
