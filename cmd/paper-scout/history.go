// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/history"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export past searches",
	Long: `History manages the local SQLite database of executed searches. Use
subcommands to list recent searches, show a recorded result set, or export
one to YAML.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := mustOpenHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return formatJSON(entries, os.Stdout)
	}

	if len(entries) == 0 {
		fmt.Println("No recorded searches.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-19s  %-8s  %-50s  %s\n",
		"ID", "When", "Variant", "Query", "Results")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))
	for _, e := range entries {
		query := e.Query
		if len(query) > 50 {
			query = query[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-19s  %-8s  %-50s  %d\n",
			e.ID, e.ExecutedAt.Format("2006-01-02 15:04:05"), e.Variant, query, e.ResultCount)
	}
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [search-id]",
	Short: "Show the recorded result set for one search",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	searchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid search ID %q", args[0])
	}

	store, err := mustOpenHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(cmd.Context(), searchID)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return formatJSON(papers, os.Stdout)
	}
	formatCards(papers, os.Stdout)
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export [search-id]",
	Short: "Export one search and its papers to YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	searchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid search ID %q", args[0])
	}

	store, err := mustOpenHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.ExportYAML(cmd.Context(), searchID)
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// mustOpenHistory opens the store regardless of the --no-history flag:
// browsing existing history is always allowed.
func mustOpenHistory() (*history.Store, error) {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("history.data_dir")
	}
	return history.NewStore(types.HistoryConfig{DataDir: dataDir})
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of searches to list")
	historyListCmd.Flags().Bool("json", false, "output as JSON")
	historyShowCmd.Flags().Bool("json", false, "output as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
