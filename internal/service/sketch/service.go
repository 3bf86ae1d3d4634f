package sketch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/metrics"
	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// Generator renders one category's collected fields into a sketch.
type Generator interface {
	GenerateSketch(ctx context.Context, category interview.Category, fields map[string]string) (*interview.Artifact, error)
}

// Service sits between the interview orchestrator and the image backend.
// Generation is best-effort: every failure is logged and counted here and
// never reaches the dialogue.
type Service struct {
	generator Generator
	registry  *metrics.Registry
}

// NewService wires the sketch listener. registry may be nil.
func NewService(generator Generator, registry *metrics.Registry) *Service {
	return &Service{generator: generator, registry: registry}
}

// CategoryCompleted renders a sketch for the finished category, or nil when
// generation is unavailable or fails.
func (s *Service) CategoryCompleted(ctx context.Context, sessionID string, category interview.Category, fields map[string]string) *interview.Artifact {
	if s == nil || s.generator == nil {
		return nil
	}

	artifact, err := s.generator.GenerateSketch(ctx, category, fields)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Str("category", string(category)).Msg("sketch generation failed")
		s.count(ctx, "error")
		return nil
	}

	s.count(ctx, "ok")
	log.Info().Str("session", sessionID).Str("category", string(category)).Msg("sketch generated")
	return artifact
}

func (s *Service) count(ctx context.Context, status string) {
	if s.registry == nil {
		return
	}
	s.registry.Inc(ctx, "sketches_generated_total", map[string]string{"status": status}, 1)
}
