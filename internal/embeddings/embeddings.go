package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/dlane/voicenotes/internal/config"
	interrors "github.com/dlane/voicenotes/internal/errors"
	"github.com/dlane/voicenotes/internal/logger"
)

// Provider converts text into a fixed-length embedding vector. The
// dimensionality is pre-agreed with the note store's collection.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// OpenAIEmbedding calls an OpenAI-compatible /v1/embeddings endpoint.
type OpenAIEmbedding struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewOpenAIEmbedding(cfg *config.Config) *OpenAIEmbedding {
	return &OpenAIEmbedding{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *OpenAIEmbedding) Dimensions() int {
	return e.cfg.VectorDimensions
}

func (e *OpenAIEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := embeddingRequest{
		Input:      []string{text},
		Model:      e.cfg.EmbeddingModel,
		Dimensions: e.cfg.VectorDimensions,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, &interrors.ServiceError{Service: "embedding", Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	apiURL := e.cfg.GetOpenAIURL("embeddings")
	logger.Debug("Requesting embedding from %s with model %s", apiURL, e.cfg.EmbeddingModel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &interrors.ServiceError{Service: "embedding", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	start := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &interrors.ServiceError{Service: "embedding", Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("Embedding response status: %d, time: %v", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &interrors.ServiceError{
			Service: "embedding",
			Err:     fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &interrors.ServiceError{Service: "embedding", Err: fmt.Errorf("failed to parse embedding response: %w", err)}
	}

	if len(result.Data) == 0 {
		return nil, &interrors.ServiceError{Service: "embedding", Err: interrors.ErrEmptyEmbedding}
	}

	vector := result.Data[0].Embedding
	if e.cfg.VectorDimensions > 0 && len(vector) != e.cfg.VectorDimensions {
		return nil, &interrors.ServiceError{
			Service: "embedding",
			Err: fmt.Errorf("%w: model returned %d dimensions but config expects %d",
				interrors.ErrDimensionMismatch, len(vector), e.cfg.VectorDimensions),
		}
	}

	logger.Debug("Got embedding with %d dimensions", len(vector))
	return vector, nil
}

func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}
