package remote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// failureMessage derives the operator-facing message for a non-2xx response.
// Order: "message", "error", a generic note when only field errors exist, the
// JSON re-encoding of the body, then the status-only text.
func failureMessage(status int, body any, fields map[string][]string) string {
	switch typed := body.(type) {
	case nil:
		return StatusMessage(status)
	case string:
		if msg := sanitizeMessage(typed); msg != "" {
			return msg
		}
		return StatusMessage(status)
	case map[string]any:
		if msg := stringEntry(typed, "message"); msg != "" {
			return msg
		}
		if msg := stringEntry(typed, "error"); msg != "" {
			return msg
		}
		if len(fields) > 0 {
			return ValidationFailedMessage
		}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return StatusMessage(status)
	}
	if msg := sanitizeMessage(string(encoded)); msg != "" && msg != "{}" && msg != "[]" {
		return msg
	}
	return StatusMessage(status)
}

func stringEntry(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return sanitizeMessage(v)
	case map[string]any:
		// {"error": {"message": "..."}} style envelopes
		return stringEntry(v, "message")
	default:
		return ""
	}
}

// fieldErrors reads the "errors" entry of an error body. Two shapes are
// accepted: an object keyed by field ({"phone": "bad"} or {"phone": ["bad"]})
// and a list of {"field"|"path": ..., "message": ...} objects.
func fieldErrors(body any) map[string][]string {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string][]string)
	switch errs := obj["errors"].(type) {
	case map[string]any:
		keys := make([]string, 0, len(errs))
		for key := range errs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			out[key] = append(out[key], messagesOf(errs[key])...)
		}
	case []any:
		for _, item := range errs {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := stringEntry(entry, "field")
			if key == "" {
				key = stringEntry(entry, "path")
			}
			msg := stringEntry(entry, "message")
			if msg == "" {
				continue
			}
			out[key] = append(out[key], msg)
		}
	}

	for key, msgs := range out {
		if len(msgs) == 0 {
			delete(out, key)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func messagesOf(value any) []string {
	switch v := value.(type) {
	case string:
		if msg := sanitizeMessage(v); msg != "" {
			return []string{msg}
		}
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, messagesOf(item)...)
		}
		return out
	case map[string]any:
		if msg := stringEntry(v, "message"); msg != "" {
			return []string{msg}
		}
	case nil:
	default:
		if msg := sanitizeMessage(fmt.Sprint(v)); msg != "" {
			return []string{msg}
		}
	}
	return nil
}

func trimBody(raw []byte) []byte {
	return []byte(strings.TrimSpace(string(raw)))
}
