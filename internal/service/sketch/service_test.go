package sketch

import (
	"context"
	"errors"
	"testing"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

type stubGenerator struct {
	artifact *interview.Artifact
	err      error
}

func (g *stubGenerator) GenerateSketch(context.Context, interview.Category, map[string]string) (*interview.Artifact, error) {
	return g.artifact, g.err
}

func TestCategoryCompletedReturnsArtifact(t *testing.T) {
	want := &interview.Artifact{Category: interview.Face, MIME: "image/png", Data: "abc"}
	svc := NewService(&stubGenerator{artifact: want}, nil)

	got := svc.CategoryCompleted(context.Background(), "w1", interview.Face, map[string]string{"shape": "round"})
	if got != want {
		t.Fatalf("unexpected artifact %+v", got)
	}
}

func TestCategoryCompletedSwallowsGeneratorFailure(t *testing.T) {
	svc := NewService(&stubGenerator{err: errors.New("image backend down")}, nil)

	if got := svc.CategoryCompleted(context.Background(), "w1", interview.Face, nil); got != nil {
		t.Fatalf("expected nil artifact on failure, got %+v", got)
	}
}

func TestCategoryCompletedWithoutGenerator(t *testing.T) {
	svc := NewService(nil, nil)

	if got := svc.CategoryCompleted(context.Background(), "w1", interview.Hair, nil); got != nil {
		t.Fatalf("expected nil artifact, got %+v", got)
	}
}

func TestSketchPromptIsDeterministic(t *testing.T) {
	fields := map[string]string{"color": "brown", "shape": "almond"}

	first := sketchPrompt(interview.Eyes, fields)
	second := sketchPrompt(interview.Eyes, fields)

	if first != second {
		t.Fatalf("prompt not deterministic: %q vs %q", first, second)
	}
	want := "black and white forensic pencil sketch of a human face, front view, plain background, eyes color brown, eyes shape almond"
	if first != want {
		t.Fatalf("unexpected prompt: %q", first)
	}
}
