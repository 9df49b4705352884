// Package handlers implements the HTTP handlers of the portal API. They
// are thin adapters: decode the body, call the assistant core, map its
// typed outcomes onto the endpoint's status-code contract. The chat and
// search endpoints deliberately differ in how they surface the same
// degraded state (200 with aiDisabled vs 503).
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/formdesk/formdesk/internal/assistant"
	"github.com/formdesk/formdesk/pkg/models"
	"github.com/rs/zerolog/log"
)

// Handlers holds all handler dependencies.
type Handlers struct {
	Assistant *assistant.Service
	Version   string
}

// New creates a new Handlers instance.
func New(svc *assistant.Service, version string) *Handlers {
	return &Handlers{Assistant: svc, Version: version}
}

// ── Chat ─────────────────────────────────────────────────────

// Chat handles POST /api/chat.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Assistant.Chat(r.Context(), req)
	if err != nil {
		respondAssistantError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.ChatResponse{
		Response:   result.Response,
		AIDisabled: result.AIDisabled,
	})
}

// ── Search ───────────────────────────────────────────────────

// SmartSearch handles POST /api/smart-search (six-field UserDetails shape).
func (h *Handlers) SmartSearch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, models.ShapeSplitLocation)
}

// LinkFinder handles POST /api/link-finder, the conversational variant
// that sends a single location field.
func (h *Handlers) LinkFinder(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, models.ShapeSingleLocation)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request, shape models.DetailShape) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.Assistant.Search(r.Context(), req, shape)
	if err != nil {
		respondAssistantError(w, err)
		return
	}

	if outcome.Degraded != nil {
		msg := outcome.Degraded.Message
		respondJSON(w, http.StatusServiceUnavailable, models.SearchResponse{
			Links:      []models.SearchResultItem{},
			Error:      &msg,
			AIDisabled: outcome.Degraded.AIDisabled,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.SearchResponse{Links: outcome.Links})
}

// ── Health & Version ─────────────────────────────────────────

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "formdesk-portal",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// VersionInfo handles GET /version.
func (h *Handlers) VersionInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"version": h.Version,
		"service": "formdesk-portal",
	})
}

// ── Helpers ──────────────────────────────────────────────────

// respondAssistantError maps the assistant's typed errors onto the HTTP
// error contract. Anything unexpected becomes a generic 500; raw error
// text is logged, never returned.
func respondAssistantError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, assistant.ErrCatalog):
		respondError(w, http.StatusInternalServerError, assistant.ErrCatalog.Error())
	case errors.Is(err, assistant.ErrEngineFailure):
		respondError(w, http.StatusInternalServerError, assistant.ErrEngineFailure.Error())
	default:
		log.Error().Err(err).Msg("Unexpected assistant error")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
