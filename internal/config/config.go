package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dlane/voicenotes/internal/constants"
	interrors "github.com/dlane/voicenotes/internal/errors"
)

type Config struct {
	// OpenAI-compatible provider settings (transcription + embeddings)
	OpenAIEndpoint     string `json:"openai_endpoint"`
	EmbeddingModel     string `json:"embedding_model"`
	TranscriptionModel string `json:"transcription_model"`
	VectorDimensions   int    `json:"vector_dimensions"`

	// Vector store settings
	QdrantURL  string `json:"qdrant_url,omitempty"`
	Collection string `json:"collection"`

	Debug bool `json:"debug"`

	// Credentials resolved from the environment, never persisted.
	APIKey      string `json:"-"`
	StoreAPIKey string `json:"-"`
}

// getDefaultConfig returns a fresh copy of the default configuration
func getDefaultConfig() Config {
	return Config{
		OpenAIEndpoint:     "https://api.openai.com",
		EmbeddingModel:     constants.DefaultEmbeddingModel,
		TranscriptionModel: constants.DefaultTranscriptionModel,
		VectorDimensions:   constants.DefaultVectorDimensions,
		QdrantURL:          "http://localhost:6333",
		Collection:         constants.DefaultCollection,
		Debug:              false,
	}
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "voicenotes", "config.json"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = getDefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		applyDefaults(&cfg)
	}

	resolveEnv(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := getDefaultConfig()

	if cfg.OpenAIEndpoint == "" {
		cfg.OpenAIEndpoint = defaults.OpenAIEndpoint
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaults.EmbeddingModel
	}
	if cfg.TranscriptionModel == "" {
		cfg.TranscriptionModel = defaults.TranscriptionModel
	}
	if cfg.VectorDimensions == 0 {
		cfg.VectorDimensions = defaults.VectorDimensions
	}
	if cfg.QdrantURL == "" {
		cfg.QdrantURL = defaults.QdrantURL
	}
	if cfg.Collection == "" {
		cfg.Collection = defaults.Collection
	}
}

// resolveEnv pulls credentials and overrides from the environment. The
// store URL in the environment wins over the config file so a single
// deployment variable can point every command at the right cluster.
func resolveEnv(cfg *Config) {
	cfg.APIKey = os.Getenv(constants.EnvAPIKey)
	cfg.StoreAPIKey = os.Getenv(constants.EnvStoreAPIKey)
	if url := os.Getenv(constants.EnvStoreURL); url != "" {
		cfg.QdrantURL = url
	}
}

// Validate fails fast when credentials or endpoints required by the
// workflow are absent. Every workflow entry point is blocked until this
// passes.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &interrors.ConfigError{Field: constants.EnvAPIKey, Err: interrors.ErrMissingAPIKey}
	}
	if c.QdrantURL == "" {
		return &interrors.ConfigError{Field: constants.EnvStoreURL, Err: interrors.ErrMissingStoreURL}
	}
	if c.VectorDimensions <= 0 {
		return &interrors.ConfigError{Field: "vector_dimensions", Err: interrors.ErrDimensionMismatch}
	}
	return nil
}

func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, constants.ConfigFileMode); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func InitializeConfig(openAIEndpoint, qdrantURL string) (*Config, error) {
	cfg := getDefaultConfig()

	if openAIEndpoint != "" {
		cfg.OpenAIEndpoint = openAIEndpoint
	}
	if qdrantURL != "" {
		cfg.QdrantURL = qdrantURL
	}

	if err := Save(&cfg); err != nil {
		return nil, err
	}

	resolveEnv(&cfg)
	return &cfg, nil
}

func (c *Config) GetOpenAIURL(path string) string {
	return fmt.Sprintf("%s/v1/%s", c.OpenAIEndpoint, path)
}
