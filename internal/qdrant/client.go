package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dlane/voicenotes/internal/config"
	"github.com/dlane/voicenotes/internal/constants"
	interrors "github.com/dlane/voicenotes/internal/errors"
	"github.com/dlane/voicenotes/internal/logger"
	"github.com/dlane/voicenotes/internal/notes"
)

// Client is a thin JSON-over-HTTP client for the Qdrant collections API.
// It implements notes.Store against a single collection.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	dimensions int
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.QdrantURL
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.StoreAPIKey,
		collection: cfg.Collection,
		dimensions: cfg.VectorDimensions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type existsResponse struct {
	Result struct {
		Exists bool `json:"exists"`
	} `json:"result"`
}

type createCollectionRequest struct {
	Vectors vectorParams `json:"vectors"`
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type point struct {
	ID      string            `json:"id"`
	Vector  []float32         `json:"vector"`
	Payload map[string]string `json:"payload"`
}

type queryRequest struct {
	Query       []float32 `json:"query"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type scrollRequest struct {
	Limit       int  `json:"limit"`
	WithPayload bool `json:"with_payload"`
}

type scoredPoint struct {
	ID      string            `json:"id"`
	Score   float64           `json:"score"`
	Payload map[string]string `json:"payload"`
}

type queryResponse struct {
	Result struct {
		Points []scoredPoint `json:"points"`
	} `json:"result"`
}

type scrollResponse struct {
	Result struct {
		Points []scoredPoint `json:"points"`
	} `json:"result"`
}

// EnsureReady creates the collection with the configured vector size and
// cosine distance if it does not already exist. Safe to call repeatedly.
func (c *Client) EnsureReady(ctx context.Context) error {
	exists, err := c.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("Collection %s already exists", c.collection)
		return nil
	}

	req := createCollectionRequest{
		Vectors: vectorParams{
			Size:     c.dimensions,
			Distance: constants.DefaultDistance,
		},
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	logger.Debug("Creating collection %s (%d dimensions, %s)", c.collection, c.dimensions, constants.DefaultDistance)

	if _, err := c.do(ctx, http.MethodPut, url, req); err != nil {
		return &interrors.StoreError{Op: "ensure", Err: err}
	}
	return nil
}

func (c *Client) collectionExists(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/collections/%s/exists", c.baseURL, c.collection)

	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, &interrors.StoreError{Op: "ensure", Err: err}
	}

	var resp existsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, &interrors.StoreError{Op: "ensure", Err: fmt.Errorf("failed to decode exists response: %w", err)}
	}
	return resp.Result.Exists, nil
}

// Upsert writes the (vector, text) pair at id. wait=true makes the write
// visible to searches before the call returns.
func (c *Client) Upsert(ctx context.Context, id string, vector []float32, text string) error {
	req := upsertRequest{
		Points: []point{{
			ID:     id,
			Vector: vector,
			Payload: map[string]string{
				"text":       text,
				"created_at": time.Now().UTC().Format(time.RFC3339),
			},
		}},
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	logger.Debug("Upserting point %s into %s", id, c.collection)

	if _, err := c.do(ctx, http.MethodPut, url, req); err != nil {
		return &interrors.StoreError{Op: "upsert", Err: err}
	}
	return nil
}

// Search returns up to limit stored notes ranked by cosine similarity
// against vector, most similar first.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]notes.Result, error) {
	req := queryRequest{
		Query:       vector,
		Limit:       limit,
		WithPayload: true,
	}

	url := fmt.Sprintf("%s/collections/%s/points/query", c.baseURL, c.collection)
	logger.Debug("Querying %s (limit %d)", c.collection, limit)

	body, err := c.do(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, &interrors.StoreError{Op: "search", Err: err}
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &interrors.StoreError{Op: "search", Err: fmt.Errorf("failed to decode query response: %w", err)}
	}

	results := make([]notes.Result, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		score := p.Score
		results = append(results, notes.Result{
			ID:        p.ID,
			Text:      p.Payload["text"],
			Score:     &score,
			CreatedAt: parseCreatedAt(p.Payload),
		})
	}

	logger.Debug("Query returned %d points", len(results))
	return results, nil
}

// Scroll returns up to limit stored notes without ranking. Scores are nil.
func (c *Client) Scroll(ctx context.Context, limit int) ([]notes.Result, error) {
	req := scrollRequest{
		Limit:       limit,
		WithPayload: true,
	}

	url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
	logger.Debug("Scrolling %s (limit %d)", c.collection, limit)

	body, err := c.do(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, &interrors.StoreError{Op: "scroll", Err: err}
	}

	var resp scrollResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &interrors.StoreError{Op: "scroll", Err: fmt.Errorf("failed to decode scroll response: %w", err)}
	}

	results := make([]notes.Result, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		results = append(results, notes.Result{
			ID:        p.ID,
			Text:      p.Payload["text"],
			CreatedAt: parseCreatedAt(p.Payload),
		})
	}

	logger.Debug("Scroll returned %d points", len(results))
	return results, nil
}

// IsAvailable probes the store without touching the collection.
func (c *Client) IsAvailable(ctx context.Context) bool {
	url := c.baseURL + "/collections"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("Qdrant not available at %s: %v", c.baseURL, err)
		return false
	}
	_ = resp.Body.Close()

	return resp.StatusCode < 500
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("Failed to close response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qdrant request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// parseCreatedAt reads the optional created_at payload field. A missing or
// malformed value yields the zero time.
func parseCreatedAt(payload map[string]string) time.Time {
	ts := payload["created_at"]
	if ts == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
