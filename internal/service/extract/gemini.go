package extract

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// GeminiExtractor uses Gemini structured output: a response schema pins the
// category/field shape, so the model cannot answer in anything but the
// payload the merge engine expects.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor builds a Gemini-backed extractor.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Name implements Extractor.
func (e *GeminiExtractor) Name() string { return "gemini" }

// Extract implements Extractor with a single structured generate call.
func (e *GeminiExtractor) Extract(ctx context.Context, utterance string, history []interview.Message) (Result, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(extractionInstruction(), genai.RoleUser),
		ResponseSchema:    resultSchema(),
	}

	res, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(buildGeminiPrompt(utterance, history)), config)
	if err != nil {
		return Result{}, fmt.Errorf("gemini extraction failed: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return Result{}, fmt.Errorf("gemini returned no candidates")
	}

	return decodeResult(res.Candidates[0].Content.Parts[0].Text)
}

// buildGeminiPrompt inlines recent history above the current utterance; the
// Models API is stateless, unlike a chat session.
func buildGeminiPrompt(utterance string, history []interview.Message) string {
	const historyLimit = 10

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Speaker, msg.Text)
	}
	b.WriteString("witness: ")
	b.WriteString(utterance)
	return b.String()
}

// resultSchema mirrors the Result shape, with the attribute objects derived
// from the interview schema.
func resultSchema() *genai.Schema {
	categoryProps := make(map[string]*genai.Schema, interview.CategoryCount())
	for _, category := range interview.Categories() {
		fieldProps := make(map[string]*genai.Schema)
		for _, field := range interview.RequiredFields(category) {
			fieldProps[field] = &genai.Schema{Type: genai.TypeString}
		}
		categoryProps[string(category)] = &genai.Schema{
			Type:       genai.TypeObject,
			Properties: fieldProps,
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reply": {Type: genai.TypeString},
			"attributes": {
				Type:       genai.TypeObject,
				Properties: categoryProps,
			},
		},
		PropertyOrdering: []string{"reply", "attributes"},
	}
}
