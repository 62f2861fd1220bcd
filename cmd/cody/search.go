package main

import (
	"github.com/spf13/cobra"

	"github.com/bevzzz/cody/internal/items"
)

var searchLimitFlag int

// SearchResult is the payload of the search and symbols commands.
type SearchResult struct {
	Query string              `json:"query" yaml:"query"`
	Items []items.ContextItem `json:"items" yaml:"items"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank workspace or remote files against a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		query := args[0]

		out, err := e.searchFiles(ctx, query, searchLimit(e))
		if err != nil {
			return err
		}
		out = e.filter.Apply(ctx, out)

		return printResult(&SearchResult{Query: query, Items: out})
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <query>",
	Short: "Rank workspace or remote symbols against a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		query := args[0]

		out, err := e.searchSymbols(ctx, query, searchLimit(e))
		if err != nil {
			return err
		}

		return printResult(&SearchResult{Query: query, Items: out})
	},
}

func searchLimit(e *engine) int {
	if searchLimitFlag > 0 {
		return searchLimitFlag
	}
	return e.cfg.Ranking.FileLimit
}

func init() {
	searchCmd.Flags().IntVar(&searchLimitFlag, "limit", 0, "Maximum number of results")
	symbolsCmd.Flags().IntVar(&searchLimitFlag, "limit", 0, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(symbolsCmd)
}
