package render

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// FieldErrors groups gate failures by field id, keeping gate order.
func FieldErrors(errs []submission.FieldError) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		if fe.FieldID == "" || fe.Message == "" {
			continue
		}
		out[fe.FieldID] = append(out[fe.FieldID], fe.Message)
	}
	return out
}

// MapErrorPayload normalises an error payload keyed by paths such as
// "answers.email", "/answers/email" or "answers[email]" into field ids.
// Keys that are empty after normalisation land under the empty key and are
// meant to be shown as form-level errors.
func MapErrorPayload(payload map[string][]string) map[string][]string {
	if len(payload) == 0 {
		return nil
	}
	out := make(map[string][]string, len(payload))
	for key, messages := range payload {
		id := normalizeErrorKey(key)
		for _, message := range messages {
			message = strings.TrimSpace(message)
			if message == "" {
				continue
			}
			out[id] = append(out[id], message)
		}
	}
	return out
}

func normalizeErrorKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "#")
	key = strings.Trim(key, "/")
	key = strings.ReplaceAll(key, "/", ".")
	key = strings.ReplaceAll(key, "[", ".")
	key = strings.ReplaceAll(key, "]", "")
	key = strings.Trim(key, ".")
	if rest, ok := strings.CutPrefix(key, "answers."); ok {
		key = rest
	} else if key == "answers" {
		key = ""
	}
	return key
}
