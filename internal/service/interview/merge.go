package interview

import (
	"strings"

	"github.com/arunvijo/Smart-Forensic-AI/internal/model/interview"
)

// Merge folds a raw extraction payload into the session's collected fields.
// It is the only mutation path for Collected and deliberately monotonic: a
// field is only ever set or replaced by another non-empty value, never
// cleared. Unknown categories, payloads that are not objects, and non-string
// or empty values are skipped. The cursor is never touched here.
func Merge(sess *interview.Session, attrs map[string]any) {
	if sess == nil || len(attrs) == 0 {
		return
	}

	for rawCategory, rawFields := range attrs {
		category := interview.Category(strings.ToLower(strings.TrimSpace(rawCategory)))
		if !interview.Known(category) {
			continue
		}

		fields, ok := rawFields.(map[string]any)
		if !ok {
			continue
		}

		for name, rawValue := range fields {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			value, ok := rawValue.(string)
			if !ok {
				// null, numbers, nested objects: nothing usable.
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" || strings.EqualFold(value, "null") {
				continue
			}

			sess.Collected[category][name] = value
		}
	}
}
