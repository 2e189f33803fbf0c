// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/history"
	"github.com/pdiddy/paper-scout/internal/normalize"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search Semantic Scholar with a query string",
	Long: `Search sends a query straight to the Semantic Scholar paper search API,
without query generation. One page of up to 10 results is requested; records
missing a required field (id, title, abstract, year, authors, url) are
dropped from the output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	records, err := newSearchClient().Search(cmd.Context(), query)
	if err != nil {
		return describe(err)
	}
	papers := normalize.Normalize(records)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := formatJSON(papers, os.Stdout); err != nil {
			return err
		}
	} else {
		formatCards(papers, os.Stdout)
	}

	recordSearch(cmd, history.Entry{Query: query}, papers)
	return nil
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
