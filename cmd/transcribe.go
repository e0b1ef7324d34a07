package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe an audio note",
	Long: `Transcribe an MP3-encoded audio file to text.

By default the transcript is printed so it can be reviewed or edited.
With --save the transcript is also embedded and stored as a new note.
A corrected transcript can be supplied with --text, which replaces the
machine transcript before saving:

  voicenotes transcribe memo.mp3 --save --text "Buy milk, not silk"`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

var (
	transcribeSave bool
	transcribeText string
)

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().BoolVarP(&transcribeSave, "save", "s", false, "Save the transcript as a note")
	transcribeCmd.Flags().StringVarP(&transcribeText, "text", "t", "", "Corrected transcript text to save instead of the machine transcript")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	audio, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	ctx := cmd.Context()

	session := workflow.NewSession()
	session.SetAudio(audio)

	transcript, err := session.Transcribe(ctx)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	fmt.Println(transcript)

	if !transcribeSave {
		return nil
	}

	if transcribeText != "" {
		session.SetTranscript(transcribeText)
	}

	if err := workflow.EnsureReady(ctx); err != nil {
		return err
	}

	id, err := session.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	fmt.Printf("\nNote saved successfully!\n")
	fmt.Printf("ID: %s\n", id)
	return nil
}
