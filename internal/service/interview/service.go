package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/metrics"
	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/extract"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/session"
)

var (
	// ErrEmptyInput rejects a turn with no utterance before any state is
	// touched.
	ErrEmptyInput = errors.New("empty input")
	// ErrExtractionFailed marks a turn that ended because the extractor
	// errored; the session is exactly as it was before the turn.
	ErrExtractionFailed = errors.New("extraction failed")
)

// doneAcknowledgement opens the terminal reply, followed by the summary.
const doneAcknowledgement = "That completes the description. Here is everything I have:"

// CompletionListener is told when a category finishes during a turn. A
// returned artifact is attached to the turn reply; implementations must
// swallow their own failures and return nil instead.
type CompletionListener interface {
	CategoryCompleted(ctx context.Context, sessionID string, category interview.Category, fields map[string]string) *interview.Artifact
}

// Service is the turn orchestrator: it owns the merge → advance → notify →
// reply sequence and the per-identity locking around it.
type Service struct {
	store     session.Store
	extractor extract.Extractor
	listener  CompletionListener
	registry  *metrics.Registry
}

// NewService wires the orchestrator. listener and registry may be nil.
func NewService(store session.Store, extractor extract.Extractor, listener CompletionListener, registry *metrics.Registry) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		listener:  listener,
		registry:  registry,
	}
}

// TurnRequest carries one witness utterance into the interview.
type TurnRequest struct {
	Identity string
	Text     string
	// History overrides the stored transcript as extractor context when
	// supplied. It is passed through, never interpreted.
	History []interview.Message
}

// TurnResult is the reply side of one turn.
type TurnResult struct {
	SessionID string
	Reply     string
	Done      bool
	Sketch    *interview.Artifact
	Session   *interview.Session
}

// Turn runs one full interview turn. Turns for the same identity are
// serialized; the extractor is called before any mutation so its failure
// leaves the session untouched.
func (s *Service) Turn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		s.count(ctx, "interview_turns_total", map[string]string{"outcome": "empty"})
		return TurnResult{}, ErrEmptyInput
	}

	key := session.Normalize(req.Identity)
	unlock := s.store.Lock(key)
	defer unlock()

	key, sess := s.store.GetOrCreate(ctx, key)

	history := req.History
	if len(history) == 0 {
		history = s.store.Transcript(ctx, key)
	}

	result, err := s.extractor.Extract(ctx, text, history)
	if err != nil {
		log.Error().Err(err).Str("session", key).Str("provider", s.extractor.Name()).Msg("attribute extraction failed")
		s.count(ctx, "extraction_failures_total", map[string]string{"provider": s.extractor.Name()})
		s.count(ctx, "interview_turns_total", map[string]string{"outcome": "extraction_failed"})
		return TurnResult{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	Merge(sess, result.Attributes)

	before := sess.ActiveIndex
	Advance(sess)

	var sketch *interview.Artifact
	if sess.ActiveIndex > before && s.listener != nil {
		// When several categories finish in one turn only the last one in
		// interview order is announced.
		completed := interview.Categories()[sess.ActiveIndex-1]
		sketch = s.listener.CategoryCompleted(ctx, key, completed, copyFields(sess.Collected[completed]))
	}

	reply := s.composeReply(sess, result.Reply)

	s.store.AppendMessage(ctx, key, interview.Message{Speaker: "user", Text: text})
	s.store.AppendMessage(ctx, key, interview.Message{Speaker: "assistant", Text: reply})

	s.count(ctx, "interview_turns_total", map[string]string{"outcome": "ok"})
	log.Info().Str("session", key).Int("stage", sess.ActiveIndex).Bool("done", sess.Done()).Msg("interview turn completed")

	return TurnResult{
		SessionID: key,
		Reply:     reply,
		Done:      sess.Done(),
		Sketch:    sketch,
		Session:   sess.Clone(),
	}, nil
}

// Reset destroys an identity's session so the next turn starts over.
func (s *Service) Reset(ctx context.Context, identity string) {
	key := session.Normalize(identity)
	unlock := s.store.Lock(key)
	defer unlock()

	s.store.Reset(ctx, key)
	log.Info().Str("session", key).Msg("interview session reset")
}

// Progress returns a snapshot of the current session state without creating
// one. The snapshot is taken under the turn lock so a concurrent merge can
// never race the caller.
func (s *Service) Progress(ctx context.Context, identity string) (*interview.Session, bool) {
	key := session.Normalize(identity)
	unlock := s.store.Lock(key)
	defer unlock()

	sess, ok := s.store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Transcript returns the recorded turns for an identity.
func (s *Service) Transcript(ctx context.Context, identity string) []interview.Message {
	return s.store.Transcript(ctx, identity)
}

func (s *Service) composeReply(sess *interview.Session, ack string) string {
	if sess.Done() {
		return doneAcknowledgement + "\n" + Summarize(sess)
	}

	prompt, _ := NextPrompt(sess)
	ack = strings.TrimSpace(ack)
	if ack == "" {
		return prompt
	}
	return ack + " " + prompt
}

func (s *Service) count(ctx context.Context, name string, labels map[string]string) {
	if s.registry == nil {
		return
	}
	s.registry.Inc(ctx, name, labels, 1)
}

func copyFields(fields map[string]string) map[string]string {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return copied
}
