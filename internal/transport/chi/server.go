// Package chi implements the HTTP API on the chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/domain"
	answeruc "github.com/agrifield/sopadvisor/internal/usecase/answer"
	healthuc "github.com/agrifield/sopadvisor/internal/usecase/health"
)

// Request body bounds. Mirrors what the frontend enforces client-side.
const (
	minNoteLen    = 10
	maxNoteLen    = 10000
	minMessageLen = 2
	maxMessageLen = 10000
)

// Error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNoteNotFound     = "note_not_found"
	codeDocumentNotFound = "document_not_found"
	codeVectorDim        = "vector_dim_mismatch"
	codeEmbeddingError   = "embedding_provider_error"
	codeModelError       = "model_provider_error"
	codeInternalError    = "internal_error"
)

// NoteStore is the field-note persistence contract.
type NoteStore interface {
	Create(text string) domain.FieldNote
	Get(id string) (domain.FieldNote, error)
}

// Searcher ranks documents for a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, filter map[string]string) ([]domain.Match, error)
}

// Generator produces a grounded recommendation for a note and document.
type Generator interface {
	Generate(ctx context.Context, noteText, docID string) domain.Recommendation
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	notes         NoteStore
	search        Searcher
	answer        *answeruc.Service
	generate      Generator
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	notes NoteStore,
	search Searcher,
	generate Generator,
	answer *answeruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		notes:    notes,
		search:   search,
		generate: generate,
		answer:   answer,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNoteNotFound, http.StatusNotFound, codeNoteNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDim),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrModelProviderError, http.StatusBadGateway, codeModelError),
	}
	return s
}

// Routes registers all API handlers on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/field-note", s.CreateFieldNote)
	r.Get("/matches", s.GetMatches)
	r.Get("/recommendation", s.GetRecommendation)
	r.Post("/api/chat", s.Chat)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type fieldNoteRequest struct {
	Text string `json:"text"`
}

type fieldNoteResponse struct {
	NoteID string `json:"note_id"`
	Text   string `json:"text"`
}

// CreateFieldNote handles POST /field-note.
func (s *Server) CreateFieldNote(w http.ResponseWriter, r *http.Request) {
	var req fieldNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if n := utf8.RuneCountInString(req.Text); n < minNoteLen || n > maxNoteLen {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"text must be between 10 and 10000 characters")
		return
	}

	note := s.notes.Create(req.Text)
	writeJSON(w, http.StatusCreated, fieldNoteResponse{NoteID: note.ID, Text: note.Text})
}

type matchItem struct {
	DocID           string  `json:"doc_id"`
	Title           string  `json:"title"`
	Score           float64 `json:"score_0_100"`
	EvidenceSnippet string  `json:"evidence_snippet"`
}

type matchesResponse struct {
	NoteID  string      `json:"note_id"`
	Matches []matchItem `json:"matches"`
}

// GetMatches handles GET /matches.
func (s *Server) GetMatches(w http.ResponseWriter, r *http.Request) {
	noteID := r.URL.Query().Get("note_id")
	if noteID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "note_id is required")
		return
	}

	note, err := s.notes.Get(noteID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	filter := regionFilter(r.URL.Query().Get("region"))
	matches, err := s.search.Search(r.Context(), note.Text, 0, filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	// Empty match list is a normal outcome, not an error.
	items := make([]matchItem, len(matches))
	for i, m := range matches {
		items[i] = matchToItem(m)
	}
	writeJSON(w, http.StatusOK, matchesResponse{NoteID: noteID, Matches: items})
}

type recommendationResponse struct {
	Bullets      []string `json:"bullets"`
	Citations    []string `json:"citations"`
	FallbackUsed bool     `json:"fallback_used"`
}

// GetRecommendation handles GET /recommendation.
func (s *Server) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	noteID := r.URL.Query().Get("note_id")
	docID := r.URL.Query().Get("doc_id")
	if noteID == "" || docID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "note_id and doc_id are required")
		return
	}

	note, err := s.notes.Get(noteID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	rec := s.generate.Generate(r.Context(), note.Text, docID)
	writeJSON(w, http.StatusOK, recommendationToResponse(rec))
}

type chatRequest struct {
	Message string `json:"message"`
	Region  string `json:"region"`
}

type chatResponse struct {
	Role           string                  `json:"role"`
	Content        string                  `json:"content"`
	Matches        []matchItem             `json:"matches,omitempty"`
	Recommendation *recommendationResponse `json:"recommendation,omitempty"`
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if n := utf8.RuneCountInString(req.Message); n < minMessageLen || n > maxMessageLen {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"message must be between 2 and 10000 characters")
		return
	}

	resp, err := s.answer.Answer(r.Context(), req.Message, regionFilter(req.Region))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := chatResponse{Role: "assistant", Content: resp.Content}
	if len(resp.Matches) > 0 {
		out.Matches = make([]matchItem, len(resp.Matches))
		for i, m := range resp.Matches {
			out.Matches[i] = matchToItem(m)
		}
	}
	if resp.Recommendation != nil {
		rec := recommendationToResponse(*resp.Recommendation)
		out.Recommendation = &rec
	}
	writeJSON(w, http.StatusOK, out)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// regionFilter maps a region query value to a metadata filter. "All" and empty
// both mean unscoped.
func regionFilter(region string) map[string]string {
	if region == "" || region == domain.RegionAll {
		return nil
	}
	return map[string]string{domain.MetaRegion: region}
}

func matchToItem(m domain.Match) matchItem {
	return matchItem{
		DocID:           m.DocID,
		Title:           m.Title,
		Score:           m.Score,
		EvidenceSnippet: m.EvidenceSnippet,
	}
}

func recommendationToResponse(rec domain.Recommendation) recommendationResponse {
	bullets := rec.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	citations := rec.Citations
	if citations == nil {
		citations = []string{}
	}
	return recommendationResponse{
		Bullets:      bullets,
		Citations:    citations,
		FallbackUsed: rec.FallbackUsed,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNoteNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrModelProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
