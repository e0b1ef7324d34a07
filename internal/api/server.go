package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/dlane/voicenotes/internal/config"
	"github.com/dlane/voicenotes/internal/constants"
	interrors "github.com/dlane/voicenotes/internal/errors"
	"github.com/dlane/voicenotes/internal/logger"
	"github.com/dlane/voicenotes/internal/notes"
)

// maxAudioUpload caps transcription uploads at 25 MB, the provider's own
// audio size limit.
const maxAudioUpload = 25 << 20

type APIServer struct {
	cfg      *config.Config
	workflow *notes.Workflow
	server   *http.Server
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type CreateNoteRequest struct {
	Text string `json:"text"`
}

type CreateNoteResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

func NewAPIServer(cfg *config.Config, workflow *notes.Workflow) *APIServer {
	return &APIServer{
		cfg:      cfg,
		workflow: workflow,
	}
}

// Router builds the route table. Exposed so tests can drive handlers
// through httptest without binding a listener.
func (s *APIServer) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	// Notes endpoints
	api.HandleFunc("/notes", s.handleListNotes).Methods("GET")
	api.HandleFunc("/notes", s.handleCreateNote).Methods("POST")
	api.HandleFunc("/notes/search", s.handleSearchNotes).Methods("POST")

	// Transcription endpoint (returns the transcript, does not save)
	api.HandleFunc("/transcribe", s.handleTranscribe).Methods("POST")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	return router
}

func (s *APIServer) Start(host string, port int) error {
	router := s.Router()

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure this more restrictively in production
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	})

	handler := c.Handler(router)

	addr := fmt.Sprintf("%s:%d", host, port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Starting HTTP API server on %s", addr)
	return s.server.ListenAndServe()
}

func (s *APIServer) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *APIServer) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := APIResponse{
		Success: statusCode < 400,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode JSON response: %v", err)
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := APIResponse{
		Success: false,
		Error:   err.Error(),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode JSON response: %v", err)
	}
}

// statusForError maps the workflow error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, interrors.ErrEmptyNote), errors.Is(err, interrors.ErrNoAudio):
		return http.StatusBadRequest
	case interrors.IsConfigError(err):
		return http.StatusInternalServerError
	case interrors.IsServiceError(err), interrors.IsStoreError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"collection": s.cfg.Collection,
		"dimensions": s.cfg.VectorDimensions,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *APIServer) handleListNotes(w http.ResponseWriter, r *http.Request) {
	logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)

	limit := constants.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %s", v))
			return
		}
		limit = parsed
	}

	results, err := s.workflow.SearchNotes(r.Context(), "", limit)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *APIServer) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	id, err := s.workflow.SaveNote(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	s.writeJSON(w, http.StatusCreated, CreateNoteResponse{ID: id, Text: req.Text})
}

func (s *APIServer) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if req.Limit <= 0 {
		req.Limit = constants.DefaultSearchLimit
	}

	results, err := s.workflow.SearchNotes(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *APIServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	logger.LogRequest(r.Method, r.URL.Path, r.RemoteAddr)

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart body: %w", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing audio file: %w", err))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read audio: %w", err))
		return
	}
	if len(audio) == 0 {
		s.writeError(w, http.StatusBadRequest, interrors.ErrNoAudio)
		return
	}

	text, err := s.workflow.Transcribe(r.Context(), audio)
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	s.writeJSON(w, http.StatusOK, TranscribeResponse{Text: text})
}
