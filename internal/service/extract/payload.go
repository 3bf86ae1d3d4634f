package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// extractionInstruction is the shared system prompt for the remote
// extractors. The attribute list is rendered from the schema so the prompt
// can never drift from what the merge engine accepts.
func extractionInstruction() string {
	var b strings.Builder
	b.WriteString("You help a forensic artist interview a witness about a suspect's face. ")
	b.WriteString("From the witness's latest message, extract facial attributes into these categories and fields:\n")
	for _, category := range interview.Categories() {
		fmt.Fprintf(&b, "- %s: %s\n", category, strings.Join(interview.RequiredFields(category), ", "))
	}
	b.WriteString("Respond with strict JSON only, shaped as ")
	b.WriteString(`{"reply": "<one short, warm sentence acknowledging what you understood>", "attributes": {"<category>": {"<field>": "<value>"}}}. `)
	b.WriteString("Only include attributes the witness actually mentioned; use null for anything unknown. Never guess.")
	return b.String()
}

// decodeResult parses a model response into a Result, tolerating the
// markdown code fences chat models like to wrap JSON in.
func decodeResult(raw string) (Result, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var result Result
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return Result{}, fmt.Errorf("malformed extraction response: %w", err)
	}
	return result, nil
}
