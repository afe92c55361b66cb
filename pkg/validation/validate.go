// Package validation implements the field validator shared by live (blur) and
// submit-time checks. Validate is pure: the same spec and values always yield
// an equal FieldErrors map.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formadmin/pkg/model"
)

const (
	// DefaultRequiredMessage is reported for blank required fields without an
	// override.
	DefaultRequiredMessage = "field is required."

	msgInvalidURL     = "Enter a valid http(s) URL."
	msgInvalidPhone   = "Enter a valid phone number."
	msgInvalidNumber  = "Enter a valid number."
	msgNegativeNumber = "Enter a valid non-negative number."
	msgInvalidEnum    = "Choose one of: %s."
	msgPattern        = "Value has an invalid format."
)

const (
	tagHTTPURL = "http_url"
	tagPhone   = "phone"
	tagNumeric = "numeric"
	tagOneOf   = "oneof"
	tagGTE     = "gte"
	tagLTE     = "lte"
	tagMin     = "min"
	tagMax     = "max"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,25}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tagPhone, err))
	}
	return v
}

// Validate checks every field of spec independently and returns the complete
// error mapping. Fields missing from values are treated as blank.
func Validate(spec model.FormSpec, values model.Values) model.FieldErrors {
	errs := make(model.FieldErrors)
	for _, field := range spec.Fields {
		if msg := ValidateField(field, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

// ValidateField returns the error message for a single value, or "" when the
// value is acceptable.
func ValidateField(field model.Field, raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		if field.Required {
			return requiredMessage(field)
		}
		return ""
	}

	if msg := checkKind(field, value); msg != "" {
		return msg
	}

	for _, rule := range field.Validations {
		if msg := checkRule(field, rule, value); msg != "" {
			return msg
		}
	}
	return ""
}

// IsHTTPURL reports whether value is an absolute http or https URL with a
// host.
func IsHTTPURL(value string) bool {
	return failedTag(strings.TrimSpace(value), tagHTTPURL) == ""
}

// IsPhone reports whether value looks like a phone number: an optional leading
// plus followed by 7-25 digits, spaces, hyphens or parentheses.
func IsPhone(value string) bool {
	return failedTag(strings.TrimSpace(value), tagPhone) == ""
}

// ParseNumber parses a finite decimal number.
func ParseNumber(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if failedTag(value, tagNumeric) != "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// failedTag runs a single validator tag against value and returns the tag
// that failed, or "" when value passes.
func failedTag(value any, tag string) string {
	err := validate.Var(value, tag)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return tag
}

func requiredMessage(field model.Field) string {
	if msg := strings.TrimSpace(field.RequiredMessage); msg != "" {
		return msg
	}
	return DefaultRequiredMessage
}

func invalidMessage(field model.Field, fallback string) string {
	if msg := strings.TrimSpace(field.InvalidMessage); msg != "" {
		return msg
	}
	return fallback
}

func checkKind(field model.Field, value string) string {
	switch field.Kind {
	case model.FieldKindURL:
		if failedTag(value, tagHTTPURL) != "" {
			return invalidMessage(field, msgInvalidURL)
		}
	case model.FieldKindPhone:
		if failedTag(value, tagPhone) != "" {
			return invalidMessage(field, msgInvalidPhone)
		}
	case model.FieldKindNumber:
		n, ok := ParseNumber(value)
		if !ok {
			return invalidMessage(field, msgInvalidNumber)
		}
		if lower, ok := ruleFloat(field, model.ValidationRuleMin); ok {
			if failedTag(n, bound(tagGTE, lower)) != "" {
				if lower == 0 {
					return invalidMessage(field, msgNegativeNumber)
				}
				return invalidMessage(field, fmt.Sprintf("%s must be at least %v.", field.DisplayLabel(), lower))
			}
		}
	case model.FieldKindEnum:
		if !isOption(field.Options, value) {
			return invalidMessage(field, fmt.Sprintf(msgInvalidEnum, strings.Join(field.Options, ", ")))
		}
	}
	// text, date and time rely on required-ness and extra rules only.
	return ""
}

func checkRule(field model.Field, rule model.ValidationRule, value string) string {
	custom := strings.TrimSpace(rule.Params["message"])
	fail := func(fallback string) string {
		if custom != "" {
			return custom
		}
		return fallback
	}

	switch rule.Kind {
	case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
		limit, ok := parseInt(rule.Params["value"])
		if !ok || limit < 0 {
			return ""
		}
		tag := tagMin
		if rule.Kind == model.ValidationRuleMaxLength {
			tag = tagMax
		}
		switch failedTag(value, tag+"="+strconv.Itoa(limit)) {
		case tagMin:
			return fail(fmt.Sprintf("%s must be at least %d characters.", field.DisplayLabel(), limit))
		case tagMax:
			return fail(fmt.Sprintf("%s must be at most %d characters.", field.DisplayLabel(), limit))
		}
	case model.ValidationRulePattern:
		expr := rule.Params["pattern"]
		if expr == "" {
			return ""
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return ""
		}
		if !re.MatchString(value) {
			return fail(msgPattern)
		}
	case model.ValidationRuleMin, model.ValidationRuleMax:
		// only applies when the value is a number at all.
		n, ok := ParseNumber(value)
		if !ok {
			return ""
		}
		limit, ok := parseFloat(rule.Params["value"])
		if !ok {
			return ""
		}
		tag := tagGTE
		if rule.Kind == model.ValidationRuleMax {
			tag = tagLTE
		}
		switch failedTag(n, bound(tag, limit)) {
		case tagGTE:
			return fail(fmt.Sprintf("%s must be at least %v.", field.DisplayLabel(), limit))
		case tagLTE:
			return fail(fmt.Sprintf("%s must be at most %v.", field.DisplayLabel(), limit))
		}
	}
	return ""
}

// isOption checks value against options with the oneof tag. Options the tag
// syntax cannot carry (empty, quotes, separators or their hex escapes) are
// matched directly.
func isOption(options []string, value string) bool {
	if len(options) == 0 {
		return false
	}
	quoted := make([]string, 0, len(options))
	for _, opt := range options {
		if opt == "" || strings.ContainsAny(opt, "',|") || strings.Contains(opt, "0x2C") || strings.Contains(opt, "0x7C") {
			return slices.Contains(options, value)
		}
		quoted = append(quoted, "'"+opt+"'")
	}
	return failedTag(value, tagOneOf+"="+strings.Join(quoted, " ")) == ""
}

func bound(tag string, limit float64) string {
	return tag + "=" + strconv.FormatFloat(limit, 'f', -1, 64)
}

func ruleFloat(field model.Field, kind string) (float64, bool) {
	for _, rule := range field.Validations {
		if rule.Kind == kind {
			return parseFloat(rule.Params["value"])
		}
	}
	return 0, false
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
