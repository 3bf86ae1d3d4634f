package extract

import (
	"context"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// Result is what one utterance yields: a short conversational reply and the
// raw category→field→value attributes. Attributes keeps the decoded JSON
// shape untouched so the merge engine can skip malformed pieces itself.
type Result struct {
	Reply      string         `json:"reply"`
	Attributes map[string]any `json:"attributes"`
}

// Extractor turns one witness utterance into structured facial attributes.
// Implementations must tolerate history being empty and should treat the
// literal string "null" the same as a missing value.
type Extractor interface {
	Extract(ctx context.Context, utterance string, history []interview.Message) (Result, error)
	// Name identifies the implementation for logs and metrics.
	Name() string
}
