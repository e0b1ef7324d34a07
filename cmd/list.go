package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlane/voicenotes/internal/constants"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored notes",
	Long:  `List stored notes in store order, without ranking.`,
	RunE:  runList,
}

var listLimit int

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", constants.DefaultListLimit, "Maximum number of notes to display")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := workflow.EnsureReady(ctx); err != nil {
		return err
	}

	results, err := workflow.SearchNotes(ctx, "", listLimit)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No notes found.")
		return nil
	}

	fmt.Printf("Found %d notes:\n\n", len(results))

	for _, r := range results {
		fmt.Printf("ID: %s\n", r.ID)
		if !r.CreatedAt.IsZero() {
			fmt.Printf("Created: %s\n", formatTime(r.CreatedAt))
		}
		fmt.Printf("Text: %s\n", previewText(r.Text))
		fmt.Println(strings.Repeat("-", 60))
	}

	return nil
}

// previewText flattens newlines and truncates long notes on a rune
// boundary for single-line display.
func previewText(text string) string {
	preview := strings.ReplaceAll(text, "\n", " ")
	runes := []rune(preview)
	if len(runes) > constants.PreviewLength {
		preview = string(runes[:constants.PreviewLength-3]) + "..."
	}
	return preview
}

func formatTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}
