package model

import (
	"sort"
	"strings"
)

// FieldKind is the input kind of a form field. It decides which built-in
// check the validator applies on top of required-ness.
type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindNumber FieldKind = "number"
	FieldKindURL    FieldKind = "url"
	FieldKindDate   FieldKind = "date"
	FieldKindTime   FieldKind = "time"
	FieldKindEnum   FieldKind = "enum"
	FieldKindPhone  FieldKind = "phone"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents an extra constraint applied to a field after the
// kind check passes. Numeric bounds and length limits encode their threshold
// in Params["value"]; pattern rules keep the expression in Params["pattern"].
// Params["message"] overrides the message reported when the rule fails.
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Field describes one editable input.
type Field struct {
	Name        string           `json:"name" yaml:"name"`
	Kind        FieldKind        `json:"kind" yaml:"kind"`
	Required    bool             `json:"required" yaml:"required"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default     string           `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Secret      bool             `json:"secret,omitempty" yaml:"secret,omitempty"`
	Multiline   bool             `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty" yaml:"validations,omitempty"`

	// RequiredMessage and InvalidMessage replace the generic messages.
	RequiredMessage string `json:"requiredMessage,omitempty" yaml:"requiredMessage,omitempty"`
	InvalidMessage  string `json:"invalidMessage,omitempty" yaml:"invalidMessage,omitempty"`
}

// DisplayLabel falls back to the field name when no label is set.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// FormSpec is the immutable, ordered field list for one record kind.
type FormSpec struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field looks a descriptor up by name.
func (s FormSpec) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Has reports whether the spec declares name.
func (s FormSpec) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// Names returns field names in declaration order.
func (s FormSpec) Names() []string {
	out := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		out = append(out, field.Name)
	}
	return out
}

// InitialValues returns the values a fresh or reset form starts with.
func (s FormSpec) InitialValues() Values {
	out := make(Values, len(s.Fields))
	for _, field := range s.Fields {
		out[field.Name] = field.Default
	}
	return out
}

// Values maps field names to raw input.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Trimmed returns a copy with surrounding whitespace removed from every value.
func (v Values) Trimmed() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = strings.TrimSpace(value)
	}
	return out
}

// FieldErrors maps field names to a single error message. A field without an
// entry is valid.
type FieldErrors map[string]string

// Empty reports whether no field carries an error.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}

// Fields returns the names carrying errors, sorted.
func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// First returns the first error following the spec's field order. Errors for
// names the spec does not declare are considered last, in name order.
func (e FieldErrors) First(spec FormSpec) (string, string, bool) {
	for _, field := range spec.Fields {
		if msg, ok := e[field.Name]; ok {
			return field.Name, msg, true
		}
	}
	for _, name := range e.Fields() {
		return name, e[name], true
	}
	return "", "", false
}
