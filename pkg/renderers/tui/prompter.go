package tui

import (
	"context"

	"github.com/goliatone/go-formadmin/pkg/submission"
)

// Prompter returns the confirmation and notification capability backed by
// the session's driver. Confirmations default to "no".
func (s *Session) Prompter() submission.Prompter {
	return sessionPrompter{session: s}
}

type sessionPrompter struct {
	session *Session
}

func (p sessionPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	return p.session.driver.Confirm(ctx, ConfirmConfig{Message: message})
}

func (p sessionPrompter) Notify(ctx context.Context, message string) error {
	return p.session.driver.Info(ctx, p.session.theme.InfoPrefix+message)
}
