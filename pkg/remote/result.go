package remote

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failed call.
type ErrorKind string

const (
	// KindHTTPStatus: a response arrived with a non-2xx status.
	KindHTTPStatus ErrorKind = "http_status"
	// KindNetwork: no response was obtained (DNS, refused, timeout, cancel).
	KindNetwork ErrorKind = "network"
	// KindParse: a body that had to be JSON was not.
	KindParse ErrorKind = "parse"
)

const (
	// NetworkErrorMessage is shown for every transport-level failure.
	NetworkErrorMessage = "Network error. Please try again."
	// ParseErrorMessage is shown when a required JSON body is malformed.
	ParseErrorMessage = "Received a malformed response from the server."
	// ValidationFailedMessage is used when an error body only carries
	// field errors.
	ValidationFailedMessage = "Validation failed on server."
)

// Failure describes why a call did not succeed. Message is always safe to
// show to the operator.
type Failure struct {
	Kind    ErrorKind
	Status  int
	Message string
	// Fields holds field-keyed messages from an error body's "errors" entry.
	Fields map[string][]string
	// Cause is the underlying transport or decode error, for logs only.
	Cause error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.Kind == KindHTTPStatus {
		return fmt.Sprintf("remote: status %d: %s", f.Status, f.Message)
	}
	return fmt.Sprintf("remote: %s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Cause
}

// StatusMessage is the fallback text for an HTTP failure without a usable
// body.
func StatusMessage(status int) string {
	return fmt.Sprintf("Server responded with status %d", status)
}

// Result is the outcome of one call: either Ok with an optional decoded body,
// or Err with a Failure. It is a value, never an error, so callers branch on
// OK() instead of handling exceptions.
type Result struct {
	Status  int
	Body    any
	Failure *Failure
}

// Ok builds a successful result.
func Ok(status int, body any) Result {
	return Result{Status: status, Body: body}
}

// Err builds a failed result.
func Err(f Failure) Result {
	return Result{Status: f.Status, Failure: &f}
}

// OK reports success.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Message returns the failure message, or the body's "message" entry on
// success ("" when absent).
func (r Result) Message() string {
	if r.Failure != nil {
		return r.Failure.Message
	}
	return BodyMessage(r.Body)
}

// MessageOr returns Message, or fallback when it is empty.
func (r Result) MessageOr(fallback string) string {
	if msg := strings.TrimSpace(r.Message()); msg != "" {
		return msg
	}
	return fallback
}

// Items returns the body as a list. A single object is not a list; callers
// that accept one wrap it themselves.
func (r Result) Items() []any {
	items, _ := r.Body.([]any)
	return items
}

// BodyMessage extracts a "message" string from a decoded JSON object.
func BodyMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := obj["message"].(string)
	return sanitizeMessage(msg)
}
