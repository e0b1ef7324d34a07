package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a typed note",
	Long: `Add a typed note. The text is embedded and stored as a new
semantically searchable record.

Text can be provided in two ways:
1. Via --text flag: voicenotes add -t "Buy milk and eggs"
2. Via stdin: echo "Buy milk and eggs" | voicenotes add`,
	RunE: runAdd,
}

var addText string

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addText, "text", "t", "", "Note text")
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := addText
	if text == "" {
		stat, _ := os.Stdin.Stat()
		isPiped := (stat.Mode() & os.ModeCharDevice) == 0

		if !isPiped {
			fmt.Println("Enter note text (press Ctrl+D when finished):")
		}
		scanner := bufio.NewScanner(os.Stdin)
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		text = strings.Join(lines, "\n")
	}

	ctx := cmd.Context()
	if err := workflow.EnsureReady(ctx); err != nil {
		return err
	}

	session := workflow.NewSession()
	session.SetTyped(text)

	id, err := session.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	fmt.Printf("Note saved successfully!\n")
	fmt.Printf("ID: %s\n", id)
	return nil
}
