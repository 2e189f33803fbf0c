// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/history"
	"github.com/pdiddy/paper-scout/internal/papersearch"
	"github.com/pdiddy/paper-scout/internal/querygen"
	"github.com/pdiddy/paper-scout/internal/secrets"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// newSearchClient builds the Semantic Scholar client from config and secrets.
func newSearchClient() *papersearch.Client {
	return papersearch.NewClient(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("search.timeout"),
			UserAgent: viper.GetString("search.user_agent"),
		},
		APIKey: secretDefault(secrets.KeySemanticScholar, viper.GetString("search.api_key")),
	})
}

// newGenerator builds the Gemini-backed query generator. The returned close
// function releases the client connection.
func newGenerator(cmd *cobra.Command) (*querygen.Generator, func() error, error) {
	apiKey := secretDefault(secrets.KeyGemini, viper.GetString("query_gen.api_key"))
	if apiKey == "" {
		return nil, nil, fmt.Errorf("Gemini API key required: add .secrets/%s or set query_gen.api_key in the config file", secrets.KeyGemini)
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("query_gen.model")
	}

	backend, err := querygen.NewGeminiBackend(cmd.Context(), types.AIConfig{
		Model:  model,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return &querygen.Generator{Backend: backend}, backend.Close, nil
}

// openHistory opens the history store, or returns nil when recording is
// disabled by flag or config.
func openHistory() (*history.Store, error) {
	disabled, _ := rootCmd.PersistentFlags().GetBool("no-history")
	if disabled || viper.GetBool("history.disabled") {
		return nil, nil
	}

	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("history.data_dir")
	}
	return history.NewStore(types.HistoryConfig{DataDir: dataDir})
}

// recordSearch stores one executed search. History problems are warnings,
// never failures: the results on screen matter more than the bookkeeping.
func recordSearch(cmd *cobra.Command, entry history.Entry, papers types.SearchResultSet) {
	store, err := openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	id, err := store.Record(cmd.Context(), entry, papers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record search: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Recorded as search %d\n", id)
}
