package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dlane/voicenotes/internal/config"
	"github.com/dlane/voicenotes/internal/constants"
	"github.com/dlane/voicenotes/internal/logger"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize voicenotes configuration",
	Long: `Initialize the voicenotes configuration file.

Credentials are never written to the file; the workflow reads them from
the environment at startup:
  OPENAI_API_KEY   API key for the transcription and embedding provider
  QDRANT_URL       Vector store URL (overrides the config file)
  QDRANT_API_KEY   Vector store API key (optional)`,
	RunE: runInit,
}

var (
	initOpenAIEndpoint string
	initQdrantURL      string
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initOpenAIEndpoint, "openai-endpoint", "", "OpenAI-compatible API endpoint (e.g., https://api.openai.com)")
	initCmd.Flags().StringVar(&initQdrantURL, "qdrant-url", "", "Qdrant URL (e.g., http://localhost:6333)")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Configuration already exists at: %s\n", configPath)
		fmt.Print("Do you want to overwrite it? (y/N): ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			logger.Warn("Failed to read confirmation: %v", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Println("Configuration initialization cancelled.")
			return nil
		}
	}

	cfg, err := config.InitializeConfig(initOpenAIEndpoint, initQdrantURL)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	fmt.Println("Configuration initialized successfully!")
	fmt.Printf("Config file: %s\n", configPath)
	fmt.Printf("OpenAI endpoint: %s\n", cfg.OpenAIEndpoint)
	fmt.Printf("Qdrant URL: %s\n", cfg.QdrantURL)
	fmt.Printf("Collection: %s (%d dimensions)\n", cfg.Collection, cfg.VectorDimensions)

	if os.Getenv(constants.EnvAPIKey) == "" {
		fmt.Printf("\nRemember to export %s before saving or searching notes.\n", constants.EnvAPIKey)
	}

	return nil
}
