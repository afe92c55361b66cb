// Package formstate holds the mutable state of one form instance: current
// values, per-field errors, the submission status and the last server-level
// message. A Store is owned by exactly one form; nothing here is shared
// across forms.
package formstate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/validation"
)

// ErrUnknownField is returned when a field name is not part of the spec.
var ErrUnknownField = errors.New("formstate: unknown field")

// Snapshot is a point-in-time copy of the store, safe to hand to renderers.
type Snapshot struct {
	Form          string            `json:"form"`
	Values        model.Values      `json:"values"`
	Errors        model.FieldErrors `json:"errors,omitempty"`
	Status        Status            `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	ServerMessage string            `json:"serverMessage,omitempty"`
}

// Store tracks values and errors for one form. Methods are safe for
// concurrent use so a renderer may read while a submission is in flight.
type Store struct {
	mu sync.RWMutex

	spec          model.FormSpec
	initial       model.Values
	values        model.Values
	errors        model.FieldErrors
	status        Status
	reason        string
	serverMessage string
}

// New creates a store seeded with the spec's initial values.
func New(spec model.FormSpec) *Store {
	initial := spec.InitialValues()
	return &Store{
		spec:    spec,
		initial: initial,
		values:  initial.Clone(),
		errors:  make(model.FieldErrors),
		status:  StatusIdle,
	}
}

// NewWithValues creates a store and overlays prefill on top of the initial
// values. Reset still returns to the spec's initial values. Names the spec
// does not declare are ignored.
func NewWithValues(spec model.FormSpec, prefill model.Values) *Store {
	s := New(spec)
	for name, value := range prefill {
		if spec.Has(name) {
			s.values[name] = value
		}
	}
	return s
}

// Spec returns the form spec backing the store.
func (s *Store) Spec() model.FormSpec {
	return s.spec
}

// SetField overwrites one value, clears that field's error and any stale
// server message. A terminal status falls back to idle on the next edit.
func (s *Store) SetField(name, value string) error {
	if !s.spec.Has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[name] = value
	delete(s.errors, name)
	s.serverMessage = ""
	if s.status.Terminal() {
		s.status = StatusIdle
		s.reason = ""
	}
	return nil
}

// BlurField runs a full validation pass but only updates the blurred field's
// entry; other fields keep whatever error state they had. It returns the
// field's resulting message ("" when valid).
func (s *Store) BlurField(name string) (string, error) {
	if !s.spec.Has(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	errs := validation.Validate(s.spec, s.values)
	msg, invalid := errs[name]
	if invalid {
		s.errors[name] = msg
	} else {
		delete(s.errors, name)
	}
	return msg, nil
}

// Reset restores the initial values and clears errors and the server
// message. The status returns to idle.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = s.initial.Clone()
	s.errors = make(model.FieldErrors)
	s.serverMessage = ""
	s.status = StatusIdle
	s.reason = ""
}

// LoadServerErrors replaces the field errors wholesale with a server-provided
// mapping. The server is authoritative on conflict.
func (s *Store) LoadServerErrors(errs model.FieldErrors) {
	s.ReplaceErrors(errs)
}

// ReplaceErrors swaps the whole error map, as done after a submit-time
// validation pass.
func (s *Store) ReplaceErrors(errs model.FieldErrors) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if errs == nil {
		s.errors = make(model.FieldErrors)
		return
	}
	s.errors = errs.Clone()
}

// SetStatus moves the store to status. Failed reasons are cleared unless the
// new status is StatusFailed; use Fail to record one.
func (s *Store) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	if status != StatusFailed {
		s.reason = ""
	}
}

// Fail moves the store to StatusFailed and records reason as both the failure
// reason and the server message.
func (s *Store) Fail(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusFailed
	s.reason = reason
	s.serverMessage = reason
}

// SetServerMessage records a form-level message.
func (s *Store) SetServerMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverMessage = msg
}

// Values returns a copy of the current values.
func (s *Store) Values() model.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Value returns the current value of one field.
func (s *Store) Value(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name]
}

// Errors returns a copy of the current field errors.
func (s *Store) Errors() model.FieldErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors.Clone()
}

// ErrorFor returns the error attached to one field.
func (s *Store) ErrorFor(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors[name]
}

// Status reports the current submission status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Reason returns the failure reason when the status is StatusFailed.
func (s *Store) Reason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// ServerMessage returns the last form-level message.
func (s *Store) ServerMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverMessage
}

// Snapshot copies the full state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Form:          s.spec.Name,
		Values:        s.values.Clone(),
		Errors:        s.errors.Clone(),
		Status:        s.status,
		Reason:        s.reason,
		ServerMessage: s.serverMessage,
	}
}
