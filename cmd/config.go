package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dlane/voicenotes/internal/config"
	"github.com/dlane/voicenotes/internal/constants"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage voicenotes configuration",
	Long:  `View and manage voicenotes configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value.

Available keys:
  - openai-endpoint: OpenAI-compatible API endpoint
  - embedding-model: Embedding model name
  - transcription-model: Transcription model name
  - vector-dimensions: Number of vector dimensions
  - qdrant-url: Vector store URL
  - collection: Vector store collection name
  - debug: Enable/disable debug logging (true/false)

Credentials are read from the environment and cannot be set here.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println("=== voicenotes Configuration ===")
	fmt.Printf("Config file:          %s\n", configPath)
	fmt.Printf("openai-endpoint:      %s\n", cfg.OpenAIEndpoint)
	fmt.Printf("embedding-model:      %s\n", cfg.EmbeddingModel)
	fmt.Printf("transcription-model:  %s\n", cfg.TranscriptionModel)
	fmt.Printf("vector-dimensions:    %d\n", cfg.VectorDimensions)
	fmt.Printf("qdrant-url:           %s\n", cfg.QdrantURL)
	fmt.Printf("collection:           %s\n", cfg.Collection)
	fmt.Printf("debug:                %v\n", cfg.Debug)
	if cfg.APIKey != "" {
		fmt.Printf("%s:       set\n", constants.EnvAPIKey)
	} else {
		fmt.Printf("%s:       NOT SET\n", constants.EnvAPIKey)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	fmt.Println(configPath)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch key {
	case "openai-endpoint":
		cfg.OpenAIEndpoint = value
	case "embedding-model":
		cfg.EmbeddingModel = value
	case "transcription-model":
		cfg.TranscriptionModel = value
	case "vector-dimensions":
		dims, err := strconv.Atoi(value)
		if err != nil || dims <= 0 {
			return fmt.Errorf("invalid vector dimensions: %s", value)
		}
		cfg.VectorDimensions = dims
	case "qdrant-url":
		cfg.QdrantURL = value
	case "collection":
		cfg.Collection = value
	case "debug":
		switch value {
		case constants.BoolTrue, constants.BoolYes, constants.BoolOne:
			cfg.Debug = true
		case constants.BoolFalse, constants.BoolNo, constants.BoolZero:
			cfg.Debug = false
		default:
			return fmt.Errorf("invalid boolean value: %s (use true/false)", value)
		}
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
