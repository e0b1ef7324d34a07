package constants

// Boolean string values
const (
	BoolTrue  = "true"
	BoolFalse = "false"
	BoolYes   = "yes"
	BoolNo    = "no"
	BoolOne   = "1"
	BoolZero  = "0"
)

// Defaults for the note workflow and display
const (
	DefaultSearchLimit = 5
	DefaultListLimit   = 20

	// Text truncation length for previews
	PreviewLength = 100
)

// Vector store defaults
const (
	DefaultVectorDimensions = 3072
	DefaultCollection       = "notes"
	DefaultDistance         = "Cosine"
)

// Model defaults for the OpenAI-compatible provider
const (
	DefaultEmbeddingModel     = "text-embedding-3-large"
	DefaultTranscriptionModel = "whisper-1"
)

// Environment variables carrying credentials
const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvStoreURL    = "QDRANT_URL"
	EnvStoreAPIKey = "QDRANT_API_KEY"
)

// File permissions
const (
	ConfigFileMode = 0600 // Secure file permissions for config
)
