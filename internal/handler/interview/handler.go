package interview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
	interviewservice "github.com/arunvijo/Smart-Forensic-AI/internal/service/interview"
)

// InterviewService abstracts the turn orchestrator for handlers and tests.
type InterviewService interface {
	Turn(ctx context.Context, req interviewservice.TurnRequest) (interviewservice.TurnResult, error)
	Reset(ctx context.Context, identity string)
	Progress(ctx context.Context, identity string) (*interview.Session, bool)
	Transcript(ctx context.Context, identity string) []interview.Message
}

// Handler exposes the interview over HTTP.
type Handler struct {
	svc InterviewService
}

// New creates the interview handler.
func New(svc InterviewService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the interview endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/interview", func(ir chi.Router) {
		ir.Post("/turn", h.handleTurn)
		ir.Post("/reset", h.handleReset)
		ir.Get("/session/{sessionID}", h.handleSession)
		ir.Get("/session/{sessionID}/transcript", h.handleTranscript)

		wsHandler := NewWebSocketHandler(h.svc)
		wsHandler.RegisterWebSocketRoutes(ir)
	})
}

type historyEntry struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type turnPayload struct {
	SessionID string         `json:"sessionId"`
	Text      string         `json:"text"`
	History   []historyEntry `json:"history"`
}

type turnResponse struct {
	SessionID string              `json:"sessionId"`
	Reply     string              `json:"reply"`
	Done      bool                `json:"done"`
	Sketch    *interview.Artifact `json:"sketch,omitempty"`
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var payload turnPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Anonymous web callers get a fresh identity instead of all piling
	// into the shared default session.
	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := h.svc.Turn(r.Context(), interviewservice.TurnRequest{
		Identity: sessionID,
		Text:     payload.Text,
		History:  toMessages(payload.History),
	})
	if err != nil {
		writeTurnError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, turnResponse{
		SessionID: result.SessionID,
		Reply:     result.Reply,
		Done:      result.Done,
		Sketch:    result.Sketch,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	// An empty body means the default identity; reset always succeeds.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.svc.Reset(r.Context(), payload.SessionID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, ok := h.svc.Progress(r.Context(), sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":             sess.ID,
		"activeIndex":    sess.ActiveIndex,
		"activeCategory": sess.Active(),
		"done":           sess.Done(),
		"collected":      sess.Collected,
		"createdAt":      sess.CreatedAt,
	})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, ok := h.svc.Progress(r.Context(), sessionID); !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"messages": h.svc.Transcript(r.Context(), sessionID),
	})
}

// writeTurnError maps the two turn-level failures onto distinct statuses;
// anything else is a plain 500.
func writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interviewservice.ErrEmptyInput):
		respondError(w, http.StatusBadRequest, "nothing to process: please describe the suspect")
	case errors.Is(err, interviewservice.ErrExtractionFailed):
		respondError(w, http.StatusBadGateway, "sorry, I had trouble understanding that, please try again")
	default:
		respondError(w, http.StatusInternalServerError, "interview turn failed")
	}
}

func toMessages(entries []historyEntry) []interview.Message {
	if len(entries) == 0 {
		return nil
	}
	messages := make([]interview.Message, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, interview.Message{Speaker: e.Speaker, Text: e.Text})
	}
	return messages
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
