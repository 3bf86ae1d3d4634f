package interview_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	model "github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/extract"
	interviewsvc "github.com/arunvijo/Smart-Forensic-AI/internal/service/interview"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/session"
)

type stubExtractor struct {
	result extract.Result
	err    error
}

func (s *stubExtractor) Name() string { return "stub" }

func (s *stubExtractor) Extract(context.Context, string, []model.Message) (extract.Result, error) {
	return s.result, s.err
}

type recordingListener struct {
	categories []model.Category
	artifact   *model.Artifact
}

func (l *recordingListener) CategoryCompleted(_ context.Context, _ string, c model.Category, _ map[string]string) *model.Artifact {
	l.categories = append(l.categories, c)
	return l.artifact
}

func attrs(pairs map[model.Category]map[string]any) map[string]any {
	out := make(map[string]any, len(pairs))
	for c, fields := range pairs {
		out[string(c)] = fields
	}
	return out
}

func TestTurnAdvancesAndPromptsNextCategory(t *testing.T) {
	extractor := &stubExtractor{result: extract.Result{
		Reply:      "A round face, got it.",
		Attributes: attrs(map[model.Category]map[string]any{model.Face: {"shape": "round"}}),
	}}
	listener := &recordingListener{artifact: &model.Artifact{Category: model.Face, MIME: "image/png", Data: "abc"}}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, listener, nil)

	result, err := svc.Turn(context.Background(), interviewsvc.TurnRequest{Identity: "w1", Text: "he had a round face"})
	require.NoError(t, err)

	require.Equal(t, 1, result.Session.ActiveIndex)
	require.False(t, result.Done)
	require.Contains(t, result.Reply, "A round face, got it.")
	require.Contains(t, result.Reply, model.Prompt(model.Eyes))
	require.Equal(t, []model.Category{model.Face}, listener.categories)
	require.NotNil(t, result.Sketch)
	require.Equal(t, "abc", result.Sketch.Data)
}

func TestTurnMergesPartialMentionsAcrossTurns(t *testing.T) {
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{
			model.Face: {"shape": "oval"},
			model.Eyes: {"shape": "almond"},
		}),
	}}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, nil, nil)
	ctx := context.Background()

	result, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "oval face, almond eyes"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Session.ActiveIndex)

	extractor.result = extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Eyes: {"color": "brown"}}),
	}
	result, err = svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "the eyes were brown"})
	require.NoError(t, err)

	require.Equal(t, map[string]string{"shape": "almond", "color": "brown"}, result.Session.Collected[model.Eyes])
	require.Equal(t, 2, result.Session.ActiveIndex)
}

func TestTurnNullNeverOverwrites(t *testing.T) {
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Eyes: {"shape": "round"}}),
	}}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, nil, nil)
	ctx := context.Background()

	_, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "round eyes"})
	require.NoError(t, err)

	extractor.result = extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Eyes: {"shape": nil}}),
	}
	result, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "not sure about the eyes"})
	require.NoError(t, err)

	require.Equal(t, "round", result.Session.Collected[model.Eyes]["shape"])
}

func TestTurnCompletingEverythingEndsInterview(t *testing.T) {
	all := map[model.Category]map[string]any{}
	for _, c := range model.Categories() {
		fields := map[string]any{}
		for _, f := range model.RequiredFields(c) {
			fields[f] = "x"
		}
		all[c] = fields
	}
	extractor := &stubExtractor{result: extract.Result{Attributes: attrs(all)}}
	listener := &recordingListener{}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, listener, nil)
	ctx := context.Background()

	result, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "everything at once"})
	require.NoError(t, err)

	require.True(t, result.Done)
	for _, c := range model.Categories() {
		require.Contains(t, result.Reply, string(c)+":")
	}
	for _, c := range model.Categories() {
		require.NotContains(t, result.Reply, model.Prompt(c))
	}
	// Only the last category in interview order is announced.
	require.Equal(t, []model.Category{model.Hair}, listener.categories)

	// A later turn stays terminal and triggers nothing new.
	result, err = svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "one more thing"})
	require.NoError(t, err)
	require.True(t, result.Done)
	require.Len(t, listener.categories, 1)
}

func TestTurnRejectsEmptyInput(t *testing.T) {
	store := session.NewMemoryStore()
	svc := interviewsvc.NewService(store, &stubExtractor{}, nil, nil)

	_, err := svc.Turn(context.Background(), interviewsvc.TurnRequest{Identity: "w1", Text: "   "})
	require.ErrorIs(t, err, interviewsvc.ErrEmptyInput)

	// No session is created for a rejected turn.
	_, ok := store.Get(context.Background(), "w1")
	require.False(t, ok)
}

func TestTurnExtractionFailureLeavesSessionUntouched(t *testing.T) {
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Face: {"shape": "round"}}),
	}}
	store := session.NewMemoryStore()
	svc := interviewsvc.NewService(store, extractor, nil, nil)
	ctx := context.Background()

	_, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "round face"})
	require.NoError(t, err)

	sess, ok := store.Get(ctx, "w1")
	require.True(t, ok)
	beforeIndex := sess.ActiveIndex
	beforeCollected := map[model.Category]map[string]string{}
	for c, fields := range sess.Collected {
		copied := map[string]string{}
		for k, v := range fields {
			copied[k] = v
		}
		beforeCollected[c] = copied
	}

	extractor.err = errors.New("model unavailable")
	_, err = svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "hooked nose"})
	require.ErrorIs(t, err, interviewsvc.ErrExtractionFailed)

	sess, _ = store.Get(ctx, "w1")
	require.Equal(t, beforeIndex, sess.ActiveIndex)
	require.Equal(t, beforeCollected, sess.Collected)
}

func TestTurnOnlyLastCompletedCategoryTriggersGeneration(t *testing.T) {
	// Eyes fill first but face blocks the cursor; when face completes, the
	// advance sweeps past both and only eyes, the last, is announced.
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{
			model.Eyes: {"shape": "narrow", "color": "green"},
		}),
	}}
	listener := &recordingListener{}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, listener, nil)
	ctx := context.Background()

	_, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "narrow green eyes"})
	require.NoError(t, err)
	require.Empty(t, listener.categories)

	extractor.result = extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Face: {"shape": "long"}}),
	}
	result, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "a long face"})
	require.NoError(t, err)

	require.Equal(t, 2, result.Session.ActiveIndex)
	require.Equal(t, []model.Category{model.Eyes}, listener.categories)
}

func TestProgressReturnsACopy(t *testing.T) {
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Face: {"shape": "round"}}),
	}}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, nil, nil)
	ctx := context.Background()

	result, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "round face"})
	require.NoError(t, err)

	result.Session.Collected[model.Face]["shape"] = "mutated"

	snapshot, ok := svc.Progress(ctx, "w1")
	require.True(t, ok)
	require.Equal(t, "round", snapshot.Collected[model.Face]["shape"])

	snapshot.Collected[model.Face]["shape"] = "mutated again"

	again, _ := svc.Progress(ctx, "w1")
	require.Equal(t, "round", again.Collected[model.Face]["shape"])
}

func TestProgressDuringTurnsIsSafe(t *testing.T) {
	// Snapshot reads race merge writes unless Progress copies under the turn
	// lock; run with -race.
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Eyes: {"shape": "almond"}}),
	}}
	svc := interviewsvc.NewService(session.NewMemoryStore(), extractor, nil, nil)
	ctx := context.Background()

	_, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "almond eyes"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "still almond eyes"})
			if err != nil {
				t.Errorf("turn failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snapshot, ok := svc.Progress(ctx, "w1")
			if !ok {
				continue
			}
			for _, fields := range snapshot.Collected {
				for range fields {
				}
			}
		}
	}()
	wg.Wait()
}

func TestResetStartsTheInterviewOver(t *testing.T) {
	extractor := &stubExtractor{result: extract.Result{
		Attributes: attrs(map[model.Category]map[string]any{model.Face: {"shape": "round"}}),
	}}
	store := session.NewMemoryStore()
	svc := interviewsvc.NewService(store, extractor, nil, nil)
	ctx := context.Background()

	_, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "round face"})
	require.NoError(t, err)

	svc.Reset(ctx, "w1")

	_, ok := store.Get(ctx, "w1")
	require.False(t, ok)

	result, err := svc.Turn(ctx, interviewsvc.TurnRequest{Identity: "w1", Text: "round face again"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Session.ActiveIndex)
	require.Empty(t, result.Session.Collected[model.Eyes])
}
