package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlane/voicenotes/internal/config"
	"github.com/dlane/voicenotes/internal/embeddings"
	"github.com/dlane/voicenotes/internal/logger"
	"github.com/dlane/voicenotes/internal/notes"
	"github.com/dlane/voicenotes/internal/qdrant"
	"github.com/dlane/voicenotes/internal/transcribe"
)

var (
	appConfig *config.Config
	workflow  *notes.Workflow
	debugFlag bool
	Version   = "dev" // Version is set from main.go
)

var rootCmd = &cobra.Command{
	Use:     "voicenotes",
	Short:   "Capture voice and text notes with semantic search",
	Version: Version,
	Long: `voicenotes captures spoken or typed notes, transcribes audio to text,
and stores every note as a semantically searchable entry in a vector store.

First time users should run 'voicenotes init' to set up the configuration,
then export OPENAI_API_KEY (and QDRANT_URL if the store is not local).`,
}

func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initAppConfig)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// initAppConfig loads configuration and constructs the long-lived client
// handles once per process. The workflow reuses them for every command.
func initAppConfig() {
	// Skip initialization for init and config commands
	if len(os.Args) > 1 && (os.Args[1] == "init" || os.Args[1] == "config") {
		return
	}

	var err error
	appConfig, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please run 'voicenotes init' to set up the configuration.\n")
		os.Exit(1)
	}

	if debugFlag || appConfig.Debug {
		logger.SetDebugMode(true)
	}

	if logger.IsDebugMode() {
		logger.Debug("Configuration loaded from: %s", func() string {
			path, _ := config.GetConfigPath()
			return path
		}())
		logger.Debug("OpenAI endpoint: %s", appConfig.OpenAIEndpoint)
		logger.Debug("Qdrant URL: %s", appConfig.QdrantURL)
		logger.Debug("Collection: %s", appConfig.Collection)
		logger.Debug("Embedding model: %s", appConfig.EmbeddingModel)
		logger.Debug("Vector dimensions: %d", appConfig.VectorDimensions)
	}

	if err := appConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := qdrant.NewClient(appConfig)
	embedder := embeddings.NewOpenAIEmbedding(appConfig)
	transcriber := transcribe.NewClient(appConfig)
	workflow = notes.NewWorkflow(store, embedder, transcriber)
}
