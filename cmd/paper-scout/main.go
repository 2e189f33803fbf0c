// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-scout CLI.
// Implements: prd001-query-generation, prd002-paper-search, prd005-history
// (CLI surface). See docs/ARCHITECTURE § Command Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-scout",
	Short: "AI-assisted academic literature search",
	Long: `paper-scout turns a free-text research interest into literature search
results. A generative model proposes three alternative academic query
phrasings (broad, focused, method); the chosen one runs against the
Semantic Scholar API and the results are normalized for display.

Use "queries" to generate the three variants, "search" to send a query
straight to Semantic Scholar, or "run" for the full interactive pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-scout.yaml or ~/.config/paper-scout/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the history database and exports (default: data)")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record searches in the history database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-scout"))
		}
	}

	viper.SetDefault("query_gen.model", "")
	viper.SetDefault("search.timeout", 15*time.Second)
	viper.SetDefault("search.user_agent", "paper-scout/0.1")
	viper.SetDefault("history.data_dir", "data")

	viper.SetEnvPrefix("PAPER_SCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
