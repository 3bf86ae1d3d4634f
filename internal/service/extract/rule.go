package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// RuleExtractor is the deterministic fallback: plain phrase matching over a
// fixed facial-feature vocabulary. It needs no credentials and no network,
// which also makes it the workhorse for tests and the offline CLI.
type RuleExtractor struct{}

// NewRuleExtractor returns the keyword-based extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Name implements Extractor.
func (e *RuleExtractor) Name() string { return "rule" }

// aliases are the nouns a value must be anchored to before it is believed.
// "round" alone is ambiguous; "round face" or "eyes are round" is not.
var aliases = map[interview.Category][]string{
	interview.Face:  {"face"},
	interview.Eyes:  {"eyes", "eye"},
	interview.Nose:  {"nose"},
	interview.Mouth: {"mouth", "lips"},
	interview.Ears:  {"ears", "ear"},
	interview.Hair:  {"hair"},
}

// vocab maps category → field → accepted values.
var vocab = map[interview.Category]map[string][]string{
	interview.Face: {
		"shape": {"round", "oval", "square", "long", "heart-shaped", "angular", "narrow", "chubby"},
	},
	interview.Eyes: {
		"shape": {"almond", "round", "narrow", "hooded", "deep-set", "wide-set", "droopy"},
		"color": {"brown", "blue", "green", "hazel", "gray", "grey", "black", "dark"},
	},
	interview.Nose: {
		"shape": {"straight", "hooked", "flat", "pointed", "wide", "button", "crooked", "aquiline"},
	},
	interview.Mouth: {
		"shape": {"thin", "full", "wide", "small", "downturned", "upturned"},
	},
	interview.Ears: {
		"shape": {"small", "large", "protruding", "pointed", "pierced"},
	},
	interview.Hair: {
		"style": {"short", "long", "curly", "straight", "wavy", "bald", "shaved", "ponytail", "braided", "receding"},
		"color": {"black", "brown", "blonde", "blond", "red", "gray", "grey", "white", "auburn", "dark"},
	},
}

// standalone values are unambiguous without an anchor noun.
var standalone = map[string]struct {
	category interview.Category
	field    string
	value    string
}{
	"bald":     {interview.Hair, "style", "bald"},
	"ponytail": {interview.Hair, "style", "ponytail"},
}

// Extract matches "<value> <noun>" and "<noun> is/are/was/were <value>"
// forms against the vocabulary. History is ignored; every utterance stands
// on its own.
func (e *RuleExtractor) Extract(_ context.Context, utterance string, _ []interview.Message) (Result, error) {
	normalized := strings.ToLower(utterance)

	attrs := make(map[string]any)
	var captured []string

	set := func(category interview.Category, field, value string) {
		fields, ok := attrs[string(category)].(map[string]any)
		if !ok {
			fields = make(map[string]any)
			attrs[string(category)] = fields
		}
		if _, exists := fields[field]; exists {
			return
		}
		fields[field] = value
		captured = append(captured, value+" "+string(category))
	}

	for _, category := range interview.Categories() {
		for field, values := range vocab[category] {
			for _, value := range values {
				if matchesAnchored(normalized, value, aliases[category]) {
					set(category, field, canonicalValue(value))
					break
				}
			}
		}
	}

	for word, entry := range standalone {
		if strings.Contains(normalized, word) {
			set(entry.category, entry.field, entry.value)
		}
	}

	return Result{Reply: ackFor(captured), Attributes: attrs}, nil
}

func matchesAnchored(text, value string, nouns []string) bool {
	for _, noun := range nouns {
		if strings.Contains(text, value+" "+noun) {
			return true
		}
		for _, verb := range []string{" is ", " are ", " was ", " were "} {
			if strings.Contains(text, noun+verb+value) {
				return true
			}
		}
	}
	return false
}

// canonicalValue folds spelling variants so the collected fields stay
// consistent across turns.
func canonicalValue(value string) string {
	switch value {
	case "grey":
		return "gray"
	case "blond":
		return "blonde"
	default:
		return value
	}
}

func ackFor(captured []string) string {
	if len(captured) == 0 {
		return "I couldn't pick out any facial details from that."
	}
	return fmt.Sprintf("Got it, noted %s.", strings.Join(captured, ", "))
}
