// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queriesCmd = &cobra.Command{
	Use:   "queries [topic]",
	Short: "Generate three academic query variants for a research topic",
	Long: `Queries asks the generative model for three alternative phrasings of a
research topic: broad (covering the topic widely), focused (targeting core
concepts), and method (emphasizing methodologies and techniques).

Feed a variant to "paper-scout search", or use "paper-scout run" to select
one interactively.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueries,
}

func runQueries(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	gen, closeBackend, err := newGenerator(cmd)
	if err != nil {
		return err
	}
	defer closeBackend()

	qs, err := gen.Generate(cmd.Context(), topic)
	if err != nil {
		return describe(err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return formatJSON(qs, os.Stdout)
	}

	fmt.Printf("Query variants for: %s\n\n", topic)
	formatQuerySet(qs, os.Stdout)
	return nil
}

func init() {
	queriesCmd.Flags().String("model", "", "generative model identifier (default: gemini-2.0-flash)")
	queriesCmd.Flags().Bool("json", false, "output the query set as JSON")

	rootCmd.AddCommand(queriesCmd)
}
