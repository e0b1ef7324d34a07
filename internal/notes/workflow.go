package notes

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dlane/voicenotes/internal/embeddings"
	interrors "github.com/dlane/voicenotes/internal/errors"
	"github.com/dlane/voicenotes/internal/logger"
	"github.com/dlane/voicenotes/internal/transcribe"
)

// Workflow orchestrates the note capture pipeline: raw input, optional
// transcription, embedding, upsert. It holds long-lived client handles and
// is reused for the process lifetime.
type Workflow struct {
	store       Store
	embedder    embeddings.Provider
	transcriber transcribe.Transcriber
}

func NewWorkflow(store Store, embedder embeddings.Provider, transcriber transcribe.Transcriber) *Workflow {
	return &Workflow{
		store:       store,
		embedder:    embedder,
		transcriber: transcriber,
	}
}

// EnsureReady prepares the backing store. Idempotent.
func (w *Workflow) EnsureReady(ctx context.Context) error {
	return w.store.EnsureReady(ctx)
}

// SaveNote embeds text and upserts it under a fresh identifier. Saves are
// append-only: repeated saves of the same text create distinct records.
// Empty or whitespace-only text is rejected before any remote call.
func (w *Workflow) SaveNote(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", interrors.ErrEmptyNote
	}

	vector, err := w.embedder.Embed(ctx, text)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := w.store.Upsert(ctx, id, vector, text); err != nil {
		return "", err
	}

	logger.Debug("Saved note %s (%d chars)", id, len(text))
	return id, nil
}

// Transcribe converts encoded audio to plain text without saving anything.
func (w *Workflow) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return w.transcriber.Transcribe(ctx, audio)
}

// SearchNotes retrieves stored notes. An empty (or whitespace-only) query
// lists recent records via scroll with nil scores; otherwise the query is
// embedded and results come back ranked by similarity, scores descending.
func (w *Workflow) SearchNotes(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return w.store.Scroll(ctx, limit)
	}

	vector, err := w.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	return w.store.Search(ctx, vector, limit)
}

// NewSession starts an empty draft for a single note-capture interaction.
func (w *Workflow) NewSession() *Session {
	return &Session{wf: w}
}
