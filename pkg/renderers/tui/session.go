package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formadmin/pkg/formstate"
	"github.com/goliatone/go-formadmin/pkg/model"
)

const secretKeepHelp = "Leave blank to keep the current value."

// Session collects field values for a form store on a terminal. Every answer
// goes through the store, so the messages shown are the ones the submit path
// would report.
type Session struct {
	driver      PromptDriver
	theme       Theme
	maxAttempts int
	skipFilled  bool
}

// New constructs a Session with the survey driver unless one is injected.
func New(options ...Option) (*Session, error) {
	s := &Session{
		theme: DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	return s, nil
}

// Fill prompts for each field of the store in spec order. With
// WithSkipFilled, fields that already hold a valid value are left alone.
func (s *Session) Fill(ctx context.Context, store *formstate.Store) error {
	return s.fill(ctx, store, s.skipFilled)
}

// Edit prompts for every field of the store, offering the current value as
// the default, regardless of WithSkipFilled.
func (s *Session) Edit(ctx context.Context, store *formstate.Store) error {
	return s.fill(ctx, store, false)
}

func (s *Session) fill(ctx context.Context, store *formstate.Store, skipFilled bool) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if store == nil {
		return errors.New("tui: form store is nil")
	}
	for _, field := range store.Spec().Fields {
		if skipFilled && store.Value(field.Name) != "" && store.ErrorFor(field.Name) == "" {
			continue
		}
		if err := s.promptField(ctx, store, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, store *formstate.Store, field model.Field) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if msg := store.ErrorFor(field.Name); msg != "" && attempt == 1 {
			s.error(ctx, msg)
		}

		answer, err := s.ask(ctx, field, store.Value(field.Name))
		if err != nil {
			return err
		}
		if err := store.SetField(field.Name, answer); err != nil {
			return err
		}
		msg, err := store.BlurField(field.Name)
		if err != nil {
			return err
		}
		if msg == "" {
			return nil
		}
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return fmt.Errorf("%w: %s: %s", ErrTooManyAttempts, field.Name, msg)
		}
		s.error(ctx, msg)
	}
}

func (s *Session) ask(ctx context.Context, field model.Field, current string) (string, error) {
	label := displayLabel(field)
	help := field.Placeholder
	switch {
	case field.Kind == model.FieldKindEnum && len(field.Options) > 0:
		defaultIdx := indexOf(field.Options, current)
		if defaultIdx < 0 {
			defaultIdx = indexOf(field.Options, field.Default)
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: defaultIdx,
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx], nil
	case field.Secret:
		if current != "" {
			help = secretKeepHelp
		}
		answer, err := s.driver.Password(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return "", err
		}
		if answer == "" {
			return current, nil
		}
		return answer, nil
	case field.Multiline:
		return s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
	default:
		return s.driver.Input(ctx, InputConfig{
			Message:     label,
			Default:     current,
			Help:        help,
			Placeholder: field.Placeholder,
		})
	}
}

func (s *Session) error(ctx context.Context, msg string) {
	_ = s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
}

func displayLabel(field model.Field) string {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	return strings.TrimSpace(label)
}
