package sketch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// OpenAIClient renders sketches through the OpenAI images API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds the image client. baseURL may be empty for the
// default endpoint.
func NewOpenAIClient(key, baseURL, model string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// GenerateSketch implements Generator with one image generation call.
func (c *OpenAIClient) GenerateSketch(ctx context.Context, category interview.Category, fields map[string]string) (*interview.Artifact, error) {
	params := openai.ImageGenerateParams{
		Prompt:         sketchPrompt(category, fields),
		Model:          openai.ImageModel(c.model),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1024,
		N:              openai.Int(1),
	}

	response, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	if len(response.Data) == 0 || response.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("image request returned no data")
	}

	return &interview.Artifact{
		Category: category,
		MIME:     "image/png",
		Data:     response.Data[0].B64JSON,
	}, nil
}

// sketchPrompt turns one category's collected fields into an image prompt.
// Field order is sorted so identical fields always produce identical prompts.
func sketchPrompt(category interview.Category, fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name, value := range fields {
		if strings.TrimSpace(value) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("black and white forensic pencil sketch of a human face, front view, plain background")
	for _, name := range names {
		fmt.Fprintf(&b, ", %s %s %s", category, name, fields[name])
	}
	return b.String()
}
