// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds settings for the query generation stage.
// Per prd001-query-generation R4.1-R4.3.
type AIConfig struct {
	// Model is the generative model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the Gemini API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// SearchConfig holds settings for the Semantic Scholar search stage.
// Per prd002-paper-search R4.1-R4.3.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// HistoryConfig holds settings for the local search history store.
// Per prd005-history R1.1.
type HistoryConfig struct {
	// DataDir is the directory holding the history database and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Disabled turns off history recording entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// Config groups all stage configurations.
type Config struct {
	QueryGen AIConfig      `json:"query_gen" yaml:"query_gen"`
	Search   SearchConfig  `json:"search" yaml:"search"`
	History  HistoryConfig `json:"history" yaml:"history"`
}
