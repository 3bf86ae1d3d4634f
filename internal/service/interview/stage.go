package interview

import (
	"sort"
	"strings"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// IsComplete reports whether every required field of a category holds a
// non-empty value. Extra fields play no part in the decision.
func IsComplete(category interview.Category, fields map[string]string) bool {
	for _, name := range interview.RequiredFields(category) {
		if strings.TrimSpace(fields[name]) == "" {
			return false
		}
	}
	return true
}

// Advance moves the cursor past every consecutively completed category,
// stopping at the first incomplete one or at the end. Calling it again with
// no intervening merge changes nothing.
func Advance(sess *interview.Session) {
	order := interview.Categories()
	for sess.ActiveIndex < len(order) && IsComplete(order[sess.ActiveIndex], sess.Collected[order[sess.ActiveIndex]]) {
		sess.ActiveIndex++
	}
}

// NextPrompt returns the question for the active category. ok is false once
// the interview has finished and there is nothing left to ask.
func NextPrompt(sess *interview.Session) (prompt string, ok bool) {
	if sess.Done() {
		return "", false
	}
	return interview.Prompt(sess.Active()), true
}

// Summarize renders the collected description, one line per category in
// interview order. Categories with nothing captured yet show up as pending.
// The output is display text only and is never parsed back.
func Summarize(sess *interview.Session) string {
	var b strings.Builder
	for i, category := range interview.Categories() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(category))
		b.WriteString(": ")

		fields := sess.Collected[category]
		names := make([]string, 0, len(fields))
		for name, value := range fields {
			if strings.TrimSpace(value) != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			b.WriteString("(pending)")
			continue
		}
		sort.Strings(names)
		for j, name := range names {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString("=")
			b.WriteString(fields[name])
		}
	}
	return b.String()
}
