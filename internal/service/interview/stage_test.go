package interview

import (
	"strings"
	"testing"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

func TestIsCompleteRequiresEveryRequiredField(t *testing.T) {
	if IsComplete(interview.Eyes, map[string]string{"shape": "almond"}) {
		t.Fatal("eyes should not be complete without color")
	}
	if !IsComplete(interview.Eyes, map[string]string{"shape": "almond", "color": "brown"}) {
		t.Fatal("eyes should be complete with shape and color")
	}
}

func TestIsCompleteIgnoresExtraFields(t *testing.T) {
	fields := map[string]string{"shape": "round", "notes": "slightly asymmetric"}
	if !IsComplete(interview.Face, fields) {
		t.Fatal("extra fields must not block completion")
	}
	if IsComplete(interview.Hair, map[string]string{"notes": "receding"}) {
		t.Fatal("extra fields alone must not complete a category")
	}
}

func TestAdvanceStopsAtFirstIncomplete(t *testing.T) {
	sess := interview.NewSession("t")
	sess.Collected[interview.Face]["shape"] = "round"
	sess.Collected[interview.Eyes]["shape"] = "almond"
	// eyes color still missing

	Advance(sess)

	if sess.ActiveIndex != 1 {
		t.Fatalf("expected cursor at eyes, got %d", sess.ActiveIndex)
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	sess := interview.NewSession("t")
	sess.Collected[interview.Face]["shape"] = "oval"

	Advance(sess)
	first := sess.ActiveIndex
	Advance(sess)

	if sess.ActiveIndex != first {
		t.Fatalf("second advance moved cursor from %d to %d", first, sess.ActiveIndex)
	}
}

func TestAdvanceRunsToTerminal(t *testing.T) {
	sess := completedSession()

	Advance(sess)

	if !sess.Done() {
		t.Fatalf("expected terminal state, cursor at %d", sess.ActiveIndex)
	}
	if _, ok := NextPrompt(sess); ok {
		t.Fatal("terminal session must not prompt")
	}

	// Advancing again from terminal stays put.
	Advance(sess)
	if sess.ActiveIndex != interview.CategoryCount() {
		t.Fatalf("terminal cursor moved to %d", sess.ActiveIndex)
	}
}

func TestNextPromptTracksActiveCategory(t *testing.T) {
	sess := interview.NewSession("t")

	prompt, ok := NextPrompt(sess)
	if !ok || prompt != interview.Prompt(interview.Face) {
		t.Fatalf("expected face prompt, got %q", prompt)
	}

	sess.Collected[interview.Face]["shape"] = "square"
	Advance(sess)

	prompt, ok = NextPrompt(sess)
	if !ok || prompt != interview.Prompt(interview.Eyes) {
		t.Fatalf("expected eyes prompt, got %q", prompt)
	}
}

func TestSummarizeListsEveryCategory(t *testing.T) {
	sess := interview.NewSession("t")
	sess.Collected[interview.Face]["shape"] = "round"
	sess.Collected[interview.Eyes]["shape"] = "almond"
	sess.Collected[interview.Eyes]["color"] = "brown"

	summary := Summarize(sess)

	if !strings.Contains(summary, "face: shape=round") {
		t.Fatalf("summary missing face line: %q", summary)
	}
	if !strings.Contains(summary, "eyes: color=brown, shape=almond") {
		t.Fatalf("summary missing sorted eyes line: %q", summary)
	}
	if strings.Count(summary, "(pending)") != 4 {
		t.Fatalf("expected four pending categories, got %q", summary)
	}
}

func completedSession() *interview.Session {
	sess := interview.NewSession("t")
	for _, c := range interview.Categories() {
		for _, f := range interview.RequiredFields(c) {
			sess.Collected[c][f] = "x"
		}
	}
	return sess
}
