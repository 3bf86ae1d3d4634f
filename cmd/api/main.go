package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/config"
	"github.com/arunvijo/Smart-Forensic-AI/internal/handler"
	"github.com/arunvijo/Smart-Forensic-AI/internal/metrics"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/extract"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/interview"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/session"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/sketch"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/transcribe"
	"github.com/arunvijo/Smart-Forensic-AI/pkg/logging"
)

func main() {
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	registry := metrics.NewRegistry()
	store := session.NewMemoryStore()

	extractor, err := newExtractor(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize extractor")
	}
	log.Info().Str("provider", extractor.Name()).Msg("attribute extractor initialized")

	var listener interview.CompletionListener
	if cfg.Sketch.Enabled() {
		generator := sketch.NewOpenAIClient(cfg.Sketch.APIKey, cfg.Sketch.BaseURL, cfg.Sketch.Model)
		listener = sketch.NewService(generator, registry)
		log.Info().Str("model", cfg.Sketch.Model).Msg("sketch generation initialized")
	} else {
		log.Info().Msg("sketch credentials not configured, interviews run without images")
	}

	var transcriber *transcribe.Service
	if cfg.Whisper.Enabled() {
		transcriber = transcribe.NewService(cfg.Whisper.URL, cfg.Whisper.Timeout())
		log.Info().Str("url", cfg.Whisper.URL).Msg("transcription sidecar initialized")
	} else {
		log.Info().Msg("WHISPER_URL not configured, skipping transcription endpoint")
	}

	interviewSvc := interview.NewService(store, extractor, listener, registry)

	var router http.Handler
	if transcriber != nil {
		router = handler.NewRouter(interviewSvc, transcriber, registry)
	} else {
		router = handler.NewRouter(interviewSvc, nil, registry)
	}

	startServer(ctx, cfg.Server.Addr(), router)
}

// newExtractor picks the extractor implementation for EXTRACTOR_MODE.
func newExtractor(ctx context.Context, cfg *config.Config) (extract.Extractor, error) {
	switch cfg.Extractor.Mode {
	case config.ExtractorArk:
		chatModel, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		return extract.NewArkExtractor(ctx, chatModel)
	case config.ExtractorGemini:
		if !cfg.Gemini.Enabled() {
			return nil, errors.New("gemini extractor selected but GEMINI_API_KEY is not set")
		}
		return extract.NewGeminiExtractor(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return extract.NewRuleExtractor(), nil
	}
}

func startServer(ctx context.Context, addr string, router http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("forensic interview backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
