package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/arunvijo/Smart-Forensic-AI/internal/handler/interview"
	speechHandler "github.com/arunvijo/Smart-Forensic-AI/internal/handler/speech"
	"github.com/arunvijo/Smart-Forensic-AI/internal/metrics"
	middlewarePkg "github.com/arunvijo/Smart-Forensic-AI/internal/middleware"
	"github.com/arunvijo/Smart-Forensic-AI/pkg/utils"
)

// NewRouter wires HTTP routes to core services. transcriber may be nil when
// the Whisper sidecar is not configured.
func NewRouter(interviewSvc interviewHandler.InterviewService, transcriber speechHandler.Transcriber, registry *metrics.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(registry))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		interviewHandler.New(interviewSvc).RegisterRoutes(api)

		if transcriber != nil {
			speechHandler.New(transcriber, registry).RegisterRoutes(api)
		} else {
			api.Post("/speech/transcribe", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusNotImplemented, "transcription not available")
			})
		}

		api.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
			snapshot := map[string]int64{}
			if registry != nil {
				snapshot = registry.Snapshot()
			}
			utils.RespondJSON(w, http.StatusOK, map[string]any{"counters": snapshot})
		})

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})
	})

	return r
}
