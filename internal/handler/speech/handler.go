package speech

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/metrics"
	"github.com/arunvijo/Smart-Forensic-AI/pkg/utils"
)

// Transcriber abstracts the transcription backend for testing.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Handler accepts voice clips and returns their text, so the front end can
// feed spoken descriptions into the interview as ordinary turns.
type Handler struct {
	svc      Transcriber
	registry *metrics.Registry
}

// New creates the speech handler. registry may be nil.
func New(svc Transcriber, registry *metrics.Registry) *Handler {
	return &Handler{svc: svc, registry: registry}
}

// RegisterRoutes mounts the speech endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(sr chi.Router) {
		sr.Post("/transcribe", h.handleTranscribe)
		sr.Get("/health", h.handleHealth)
	})
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}

	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	filename := header.Filename
	if !knownAudioExt(filename) {
		filename = "clip.wav"
	}

	text, err := h.svc.Transcribe(r.Context(), file, filename)
	if err != nil {
		log.Error().Err(err).Msg("transcription failed")
		h.count(r.Context(), "error")
		utils.RespondError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	h.count(r.Context(), "ok")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "speech",
	})
}

func (h *Handler) count(ctx context.Context, status string) {
	if h.registry == nil {
		return
	}
	h.registry.Inc(ctx, "transcriptions_total", map[string]string{"status": status}, 1)
}

func knownAudioExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3", ".wav", ".webm", ".m4a", ".aac", ".ogg":
		return true
	default:
		return false
	}
}
