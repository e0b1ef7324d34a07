package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dlane/voicenotes/internal/config"
	interrors "github.com/dlane/voicenotes/internal/errors"
	"github.com/dlane/voicenotes/internal/logger"
)

// Transcriber turns encoded audio into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Client calls an OpenAI-compatible /v1/audio/transcriptions endpoint.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads MP3-encoded audio and returns the transcript text.
// The service returns richer metadata; only the text field is consumed.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", &interrors.ServiceError{Service: "transcription", Err: interrors.ErrNoAudio}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.mp3")
	if err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: fmt.Errorf("failed to build upload: %w", err)}
	}
	if _, err := part.Write(audio); err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: fmt.Errorf("failed to build upload: %w", err)}
	}
	if err := writer.WriteField("model", c.cfg.TranscriptionModel); err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: err}
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: err}
	}

	apiURL := c.cfg.GetOpenAIURL("audio/transcriptions")
	logger.Debug("Transcribing %d bytes of audio via %s with model %s", len(audio), apiURL, c.cfg.TranscriptionModel)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, &buf)
	if err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("Transcription response status: %d, time: %v", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &interrors.ServiceError{
			Service: "transcription",
			Err:     fmt.Errorf("transcription request failed with status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &interrors.ServiceError{Service: "transcription", Err: fmt.Errorf("failed to parse transcription response: %w", err)}
	}

	return result.Text, nil
}
