package notes

import (
	"context"
	"time"
)

// Result is a single stored note as returned by listing or search. Score
// is nil on the scroll path and a cosine similarity on the search path,
// where higher means more similar. CreatedAt is zero when the store holds
// no timestamp for the record.
type Result struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Score     *float64  `json:"score"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Store is the vector index holding note records. Implementations persist
// (vector, text) pairs keyed by caller-generated identifiers.
type Store interface {
	// EnsureReady creates the backing collection with the agreed
	// dimensionality and metric if it does not exist. Idempotent; must
	// succeed before any Upsert or Search.
	EnsureReady(ctx context.Context) error

	// Upsert inserts or replaces the record at id. The record is visible
	// to subsequent Search and Scroll calls as soon as Upsert returns.
	Upsert(ctx context.Context, id string, vector []float32, text string) error

	// Scroll returns up to limit records in store-defined order with nil
	// scores.
	Scroll(ctx context.Context, limit int) ([]Result, error)

	// Search returns up to limit records ranked by cosine similarity
	// against vector, most similar first.
	Search(ctx context.Context, vector []float32, limit int) ([]Result, error)
}
