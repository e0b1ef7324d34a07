package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dlane/voicenotes/internal/constants"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by semantic similarity",
	Long: `Search notes by embedding the query and ranking stored notes by
cosine similarity, most similar first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", constants.DefaultSearchLimit, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx := cmd.Context()
	if err := workflow.EnsureReady(ctx); err != nil {
		return err
	}

	fmt.Printf("Searching for: %s\n\n", query)

	results, err := workflow.SearchNotes(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching notes found.")
		return nil
	}

	fmt.Printf("Found %d matching notes:\n\n", len(results))

	for i, r := range results {
		fmt.Printf("Match %d:\n", i+1)
		fmt.Printf("ID: %s\n", r.ID)
		if r.Score != nil {
			fmt.Printf("Score: %.4f\n", *r.Score)
		}
		fmt.Printf("Text: %s\n", previewText(r.Text))
		fmt.Println(strings.Repeat("-", 60))
	}

	return nil
}
