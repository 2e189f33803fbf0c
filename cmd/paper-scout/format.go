// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-scout/internal/failure"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// abstractDisplayLimit caps the abstract length in card output.
const abstractDisplayLimit = 300

// describe prefixes err with its human-readable failure description so each
// failure kind reads distinctly on the terminal.
func describe(err error) error {
	if err == nil {
		return nil
	}
	if k, ok := failure.KindOf(err); ok {
		if stage, ok := failure.StageOf(err); ok {
			return fmt.Errorf("%s failed: %s: %w", stage, k.Message(), err)
		}
		return fmt.Errorf("%s: %w", k.Message(), err)
	}
	return err
}

// formatQuerySet writes the three query variants as a labelled list.
func formatQuerySet(qs types.QuerySet, w io.Writer) {
	for i, v := range types.Variants {
		fmt.Fprintf(w, "%d. %-8s %s\n", i+1, string(v)+":", qs.Get(v))
	}
}

// formatCards writes one block per paper: title, authors, year/venue/citation
// badges, a capped abstract, and the external link.
func formatCards(set types.SearchResultSet, w io.Writer) {
	if len(set) == 0 {
		fmt.Fprintln(w, "No papers matched the required fields. Try another query.")
		return
	}

	fmt.Fprintf(w, "Papers (%d results)\n\n", len(set))
	for i, p := range set {
		fmt.Fprintf(w, "%d. %s\n", i+1, p.Title)
		fmt.Fprintf(w, "   %s\n", formatAuthors(p.Authors))

		badges := fmt.Sprintf("%d", p.Year)
		if p.Venue != "" {
			badges += " | " + p.Venue
		}
		if p.CitationCount != nil {
			badges += fmt.Sprintf(" | %d citations", *p.CitationCount)
		}
		fmt.Fprintf(w, "   %s\n", badges)

		fmt.Fprintf(w, "   %s\n", truncateRunes(p.Abstract, abstractDisplayLimit))
		fmt.Fprintf(w, "   %s\n\n", p.URL)
	}
}

// formatJSON writes v as indented JSON to w.
func formatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatAuthors joins author names, shortening long lists to "et al.".
func formatAuthors(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + " et al."
}

// truncateRunes shortens s to at most max runes, appending an ellipsis.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
