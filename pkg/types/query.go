// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-scout pipeline.
// Implements: prd001-query-generation (QuerySet, R1.1-R1.3);
//
//	prd002-paper-search (RawPaperRecord, R2.1);
//	prd003-normalization (Paper, SearchResultSet, R3.1-R3.4).
//
// See docs/ARCHITECTURE § Data Structures.
package types

// Variant names the three query phrasings produced for one topic.
type Variant string

const (
	VariantBroad   Variant = "broad"
	VariantFocused Variant = "focused"
	VariantMethod  Variant = "method"
)

// Variants lists the query variants in presentation order.
var Variants = []Variant{VariantBroad, VariantFocused, VariantMethod}

// QuerySet holds the three candidate academic search queries generated from
// one topic. All three values are non-empty once a QuerySet exists; a
// partially populated set is never constructed (prd001-query-generation R1.2).
type QuerySet struct {
	// Broad is a general query covering the topic widely.
	Broad string `json:"broad" yaml:"broad"`

	// Focused is a specific query targeting the topic's core concepts.
	Focused string `json:"focused" yaml:"focused"`

	// Method is a query emphasizing methodologies and techniques.
	Method string `json:"method" yaml:"method"`
}

// Get returns the query string for the given variant.
func (qs QuerySet) Get(v Variant) string {
	switch v {
	case VariantBroad:
		return qs.Broad
	case VariantFocused:
		return qs.Focused
	case VariantMethod:
		return qs.Method
	}
	return ""
}

// Contains reports whether query is one of the three held strings.
func (qs QuerySet) Contains(query string) bool {
	return query != "" && (query == qs.Broad || query == qs.Focused || query == qs.Method)
}
