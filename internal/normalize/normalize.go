// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize filters raw search records into validated papers.
// Implements: prd003-normalization (R1-R3);
//
//	docs/ARCHITECTURE § Normalization.
package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Normalize maps raw records to papers under the inclusion rules, in input
// order. It is a pure function with no failure mode: a record missing any
// required field is silently dropped, never repaired or defaulted, and no
// valid records at all yields an empty result set (R1.1, R1.4).
func Normalize(records []types.RawPaperRecord) types.SearchResultSet {
	set := types.SearchResultSet{}
	for _, r := range records {
		if p, ok := toPaper(r); ok {
			set = append(set, p)
		}
	}
	return set
}

// toPaper validates one record. A paper exists only when paperId, title,
// abstract, year, authors, and url are all present and non-empty (R1.2).
// venue and citationCount are copied through only when the source had them,
// so the display layer can tell "unknown" from "zero" (R2.1).
func toPaper(r types.RawPaperRecord) (types.Paper, bool) {
	if r.PaperID == "" || r.Title == "" || r.Abstract == "" || r.URL == "" {
		return types.Paper{}, false
	}

	year, ok := coerceYear(r.Year)
	if !ok {
		return types.Paper{}, false
	}

	var authors []string
	for _, a := range r.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}
	if len(authors) == 0 {
		return types.Paper{}, false
	}

	return types.Paper{
		PaperID:       r.PaperID,
		Title:         r.Title,
		Abstract:      r.Abstract,
		Year:          year,
		Authors:       authors,
		URL:           r.URL,
		Venue:         r.Venue,
		CitationCount: r.CitationCount,
	}, true
}

// coerceYear extracts an integer year from the raw JSON value. The API
// sends an integer, null, or occasionally a string; anything that is not
// cleanly an integer counts as missing (R1.3). A string like "2023 " with
// trailing text does not coerce.
func coerceYear(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}
