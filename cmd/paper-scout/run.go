// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/history"
	"github.com/pdiddy/paper-scout/internal/session"
	"github.com/pdiddy/paper-scout/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [topic]",
	Short: "Run the full pipeline: topic, query selection, paper search",
	Long: `Run generates three query variants for the topic, asks which one to use,
searches Semantic Scholar with the selection, and prints the normalized
results. The executed search is recorded in the history database unless
--no-history is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	gen, closeBackend, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer closeBackend()

	sess := session.New(gen, newSearchClient())

	qs, err := sess.GenerateQueries(cmd.Context(), topic)
	if err != nil {
		return describe(err)
	}

	fmt.Printf("Query variants for: %s\n\n", topic)
	formatQuerySet(qs, os.Stdout)
	fmt.Println()

	variant, err := promptVariant(cmd.InOrStdin())
	if err != nil {
		return err
	}
	selected := qs.Get(variant)

	fmt.Printf("\nShowing results for: %s\n\n", selected)

	papers, err := sess.Search(cmd.Context(), selected)
	if err != nil {
		return describe(err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := formatJSON(papers, os.Stdout); err != nil {
			return err
		}
	} else {
		formatCards(papers, os.Stdout)
	}

	recordSearch(cmd, history.Entry{
		Topic:   topic,
		Variant: string(variant),
		Query:   selected,
	}, papers)
	return nil
}

// promptVariant reads the user's query choice: a number 1-3 or a variant
// name (broad, focused, method).
func promptVariant(in io.Reader) (types.Variant, error) {
	fmt.Print("Select a query [1-3]: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading selection: %w", err)
		}
		return "", fmt.Errorf("no selection entered")
	}

	choice := strings.ToLower(strings.TrimSpace(scanner.Text()))
	switch choice {
	case "1", string(types.VariantBroad):
		return types.VariantBroad, nil
	case "2", string(types.VariantFocused):
		return types.VariantFocused, nil
	case "3", string(types.VariantMethod):
		return types.VariantMethod, nil
	}
	return "", fmt.Errorf("invalid selection %q: enter 1, 2, 3, or a variant name", choice)
}

func init() {
	runCmd.Flags().String("model", "", "generative model identifier (default: gemini-2.0-flash)")
	runCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(runCmd)
}
