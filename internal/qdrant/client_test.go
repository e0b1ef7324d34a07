package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dlane/voicenotes/internal/config"
	interrors "github.com/dlane/voicenotes/internal/errors"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		QdrantURL:        url,
		Collection:       "notes",
		VectorDimensions: 4,
		StoreAPIKey:      "store-key",
	}
}

func TestEnsureReadySkipsExistingCollection(t *testing.T) {
	creates := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/notes/exists":
			fmt.Fprint(w, `{"result":{"exists":true},"status":"ok"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/notes":
			creates++
			fmt.Fprint(w, `{"result":true,"status":"ok"}`)
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := client.EnsureReady(ctx); err != nil {
			t.Fatalf("EnsureReady call %d failed: %v", i+1, err)
		}
	}

	if creates != 0 {
		t.Errorf("Existing collection must not be recreated, got %d creates", creates)
	}
}

func TestEnsureReadyCreatesMissingCollection(t *testing.T) {
	var created createCollectionRequest
	creates := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/notes/exists":
			fmt.Fprintf(w, `{"result":{"exists":%v},"status":"ok"}`, creates > 0)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/notes":
			creates++
			if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
				t.Fatalf("Failed to decode create request: %v", err)
			}
			fmt.Fprint(w, `{"result":true,"status":"ok"}`)
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ctx := context.Background()

	// Repeated calls are idempotent: the second sees the collection exists.
	if err := client.EnsureReady(ctx); err != nil {
		t.Fatalf("First EnsureReady failed: %v", err)
	}
	if err := client.EnsureReady(ctx); err != nil {
		t.Fatalf("Second EnsureReady failed: %v", err)
	}

	if creates != 1 {
		t.Errorf("Expected exactly 1 create, got %d", creates)
	}
	if created.Vectors.Size != 4 {
		t.Errorf("Expected vector size 4, got %d", created.Vectors.Size)
	}
	if created.Vectors.Distance != "Cosine" {
		t.Errorf("Expected Cosine distance, got %s", created.Vectors.Distance)
	}
}

func TestUpsertSendsPointWithPayload(t *testing.T) {
	var received upsertRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/collections/notes/points" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("wait") != "true" {
			t.Error("Upsert must wait for the write to be visible")
		}
		if r.Header.Get("api-key") != "store-key" {
			t.Errorf("Missing api-key header, got %q", r.Header.Get("api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("Failed to decode upsert request: %v", err)
		}
		fmt.Fprint(w, `{"result":{"status":"completed"},"status":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	err := client.Upsert(context.Background(), "id-1", []float32{1, 0, 0, 0}, "hello world")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if len(received.Points) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(received.Points))
	}
	p := received.Points[0]
	if p.ID != "id-1" {
		t.Errorf("Expected id-1, got %s", p.ID)
	}
	if p.Payload["text"] != "hello world" {
		t.Errorf("Expected text payload, got %v", p.Payload)
	}
	if _, err := time.Parse(time.RFC3339, p.Payload["created_at"]); err != nil {
		t.Errorf("Expected RFC3339 created_at payload, got %q", p.Payload["created_at"])
	}
	if len(p.Vector) != 4 {
		t.Errorf("Expected 4-dimensional vector, got %d", len(p.Vector))
	}
}

func TestSearchRanksByScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/notes/points/query" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode query request: %v", err)
		}
		if !req.WithPayload {
			t.Error("Query must request payloads")
		}
		if req.Limit != 2 {
			t.Errorf("Expected limit 2, got %d", req.Limit)
		}
		fmt.Fprint(w, `{"result":{"points":[
			{"id":"a","score":0.91,"payload":{"text":"buy milk"}},
			{"id":"b","score":0.42,"payload":{"text":"rocket launch"}}
		]},"status":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	results, err := client.Search(context.Background(), []float32{1, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Score == nil || *results[0].Score != 0.91 {
		t.Errorf("Expected score 0.91 on top result, got %v", results[0].Score)
	}
	if results[0].Text != "buy milk" {
		t.Errorf("Expected payload text, got %q", results[0].Text)
	}
}

func TestScrollReturnsNilScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/collections/notes/points/scroll" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"result":{"points":[
			{"id":"a","payload":{"text":"buy milk"}},
			{"id":"b","payload":{"text":"rocket launch"}}
		]},"status":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	results, err := client.Scroll(context.Background(), 10)
	if err != nil {
		t.Fatalf("Scroll failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Score != nil {
			t.Errorf("Scroll results must have nil score, %s has %v", r.ID, *r.Score)
		}
	}
}

func TestStoreErrorsAreFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":{"error":"wrong vector size"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	ctx := context.Background()

	if err := client.Upsert(ctx, "id-1", []float32{1}, "text"); !interrors.IsStoreError(err) {
		t.Errorf("Upsert should surface StoreError, got %v", err)
	}
	if _, err := client.Search(ctx, []float32{1}, 1); !interrors.IsStoreError(err) {
		t.Errorf("Search should surface StoreError, got %v", err)
	}
	if _, err := client.Scroll(ctx, 1); !interrors.IsStoreError(err) {
		t.Errorf("Scroll should surface StoreError, got %v", err)
	}
	if err := client.EnsureReady(ctx); !interrors.IsStoreError(err) {
		t.Errorf("EnsureReady should surface StoreError, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{"collections":[]},"status":"ok"}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	if !client.IsAvailable(context.Background()) {
		t.Error("Expected store to be available")
	}

	server.Close()
	if client.IsAvailable(context.Background()) {
		t.Error("Expected store to be unavailable after shutdown")
	}
}
