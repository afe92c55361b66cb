package formstate

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formadmin/pkg/model"
)

// ServerErrors splits a server error payload into field-level messages keyed
// by spec field names and form-level messages.
type ServerErrors struct {
	Fields model.FieldErrors
	Form   []string
}

// MapServerErrors normalises a field-keyed server payload onto the spec's
// field names. Keys may be plain names, dotted paths with wrapper segments
// ("body.username") or JSON pointers ("/data/username"). Keys that match no
// field are kept as form-level messages so nothing is dropped.
func MapServerErrors(spec model.FormSpec, payload map[string][]string) ServerErrors {
	var out ServerErrors
	if len(payload) == 0 {
		return out
	}

	fields := make(map[string]string, len(spec.Fields))
	for _, field := range spec.Fields {
		fields[strings.ToLower(field.Name)] = field.Name
	}

	collected := make(map[string][]string)
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		name, ok := mapErrorPath(rawPath, fields)
		if !ok {
			out.Form = append(out.Form, normalized...)
			continue
		}
		collected[name] = append(collected[name], normalized...)
	}

	if len(collected) > 0 {
		out.Fields = make(model.FieldErrors, len(collected))
		for name, messages := range collected {
			out.Fields[name] = strings.Join(normalizeMessages(messages), " ")
		}
	}
	out.Form = normalizeMessages(out.Form)
	return out
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, fields map[string]string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}

	segments := dropWrapperSegments(stripNumericSegments(parsePathSegments(trimmed)))
	if len(segments) == 0 {
		return "", false
	}

	// flat forms: the first remaining segment names the field, anything
	// deeper refines it.
	name, ok := fields[strings.ToLower(segments[0])]
	return name, ok
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 1 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
