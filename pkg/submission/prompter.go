package submission

import "context"

// Prompter is the dialog capability the controller needs from its UI:
// a yes/no confirmation and a one-way notification.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Notify(ctx context.Context, message string) error
}

// declinePrompter refuses every confirmation and drops notifications. It is
// the default so a controller without a UI never issues destructive requests.
type declinePrompter struct{}

func (declinePrompter) Confirm(context.Context, string) (bool, error) { return false, nil }
func (declinePrompter) Notify(context.Context, string) error          { return nil }

// AutoConfirm wraps p so confirmations are accepted without asking.
// Notifications still reach p.
func AutoConfirm(p Prompter) Prompter {
	if p == nil {
		p = declinePrompter{}
	}
	return autoConfirm{next: p}
}

type autoConfirm struct {
	next Prompter
}

func (autoConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

func (a autoConfirm) Notify(ctx context.Context, message string) error {
	return a.next.Notify(ctx, message)
}
