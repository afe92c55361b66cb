package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formadmin/pkg/formstate"
	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/renderers/tui"
	"github.com/goliatone/go-formadmin/pkg/submission"
)

var (
	errInvalidInput     = errors.New("invalid input")
	errSubmissionFailed = errors.New("submission failed")
)

const retryPrompt = "Edit the form and submit again?"

type mutateFlags struct {
	sets    []string
	yes     bool
	noInput bool
}

func (f *mutateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "field value as name=value, repeatable")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "accept confirmations without asking")
	cmd.Flags().BoolVar(&f.noInput, "no-input", false, "never prompt; use --set values only")
}

func newAddCmd(a *app) *cobra.Command {
	targets := map[string]string{
		"user":         records.FormAddUser,
		"mentor":       records.FormAddMentor,
		"question":     records.FormAddQuestion,
		"job":          records.FormAddJob,
		"announcement": records.FormAddAnnouncement,
	}
	flags := &mutateFlags{}
	cmd := &cobra.Command{
		Use:       "add <user|mentor|question|job|announcement>",
		Short:     "Create a record",
		Args:      cobra.ExactArgs(1),
		ValidArgs: sortedKeys(targets),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			form, ok := targets[args[0]]
			if !ok {
				return fmt.Errorf("cannot add %q, expected one of %s", args[0], strings.Join(sortedKeys(targets), ", "))
			}
			return a.submit(cmd, form, flags, nil)
		}),
	}
	flags.bind(cmd)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	flags := &mutateFlags{}
	cmd := &cobra.Command{
		Use:       "update user-details",
		Short:     "Update a user's profile",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"user-details"},
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if args[0] != "user-details" {
				return fmt.Errorf("cannot update %q, expected user-details", args[0])
			}
			return a.submit(cmd, records.FormUpdateUserDetails, flags, nil)
		}),
	}
	flags.bind(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	targets := map[string]string{
		"job":          records.FormDeleteJob,
		"announcement": records.FormDeleteAnnouncement,
	}
	flags := &mutateFlags{}
	cmd := &cobra.Command{
		Use:       "delete <job|announcement> [id]",
		Short:     "Delete a record by id",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: sortedKeys(targets),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			form, ok := targets[args[0]]
			if !ok {
				return fmt.Errorf("cannot delete %q, expected one of %s", args[0], strings.Join(sortedKeys(targets), ", "))
			}
			var prefill model.Values
			if len(args) == 2 {
				prefill = model.Values{"id": args[1]}
			}
			return a.submit(cmd, form, flags, prefill)
		}),
	}
	flags.bind(cmd)
	return cmd
}

// submit drives one form through the controller. Interactive sessions prompt
// for missing or invalid fields and may retry after a failure; --no-input
// runs a single attempt on the given values.
func (a *app) submit(cmd *cobra.Command, formName string, flags *mutateFlags, prefill model.Values) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	def, err := a.catalogue.Lookup(formName)
	if err != nil {
		return err
	}
	values, err := parseSets(flags.sets)
	if err != nil {
		return err
	}
	for name, value := range prefill {
		values[name] = value
	}
	for name := range values {
		if !def.Spec.Has(name) {
			return fmt.Errorf("form %s has no field %q (fields: %s)", def.Name, name, strings.Join(def.Spec.Names(), ", "))
		}
	}
	store := formstate.NewWithValues(def.Spec, values)

	var (
		session  *tui.Session
		prompter submission.Prompter
	)
	if flags.noInput {
		prompter = writerPrompter{w: out}
	} else {
		session, err = a.session(tui.WithSkipFilled(true))
		if err != nil {
			return err
		}
		prompter = session.Prompter()
	}
	if flags.yes {
		prompter = submission.AutoConfirm(prompter)
	}

	ctrl, err := submission.New(def, a.sender,
		submission.WithPrompter(prompter),
		submission.WithRecorder(a.recorder),
		submission.WithStore(store),
	)
	if err != nil {
		return err
	}

	editAll := false
	for {
		if session != nil {
			fill := session.Fill
			if editAll {
				fill = session.Edit
			}
			if err := fill(ctx, store); err != nil {
				return err
			}
		}
		attempt, err := ctrl.Submit(ctx)
		if err != nil {
			return err
		}

		switch attempt.Outcome {
		case submission.OutcomeSucceeded:
			return nil
		case submission.OutcomeDeclined:
			_, err := fmt.Fprintln(out, "Cancelled.")
			return err
		case submission.OutcomeInvalid:
			editAll = false
			if session != nil {
				continue
			}
			if err := a.views.RenderSummary(out, def, store.Snapshot()); err != nil {
				return err
			}
			return errInvalidInput
		default:
			if session != nil && !flags.yes && a.retry(ctx, session) {
				// without field errors nothing would be re-prompted.
				editAll = store.Errors().Empty()
				continue
			}
			if err := a.views.RenderSummary(out, def, store.Snapshot()); err != nil {
				return err
			}
			return errSubmissionFailed
		}
	}
}

func (a *app) retry(ctx context.Context, session *tui.Session) bool {
	ok, err := session.Prompter().Confirm(ctx, retryPrompt)
	return err == nil && ok
}

// writerPrompter serves --no-input runs: notifications are printed and
// confirmations are declined.
type writerPrompter struct {
	w io.Writer
}

func (p writerPrompter) Confirm(_ context.Context, message string) (bool, error) {
	_, err := fmt.Fprintf(p.w, "%s (pass --yes to confirm)\n", message)
	return false, err
}

func (p writerPrompter) Notify(_ context.Context, message string) error {
	_, err := fmt.Fprintln(p.w, message)
	return err
}

func parseSets(sets []string) (model.Values, error) {
	values := model.Values{}
	for _, raw := range sets {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--set %q: expected name=value", raw)
		}
		values[name] = value
	}
	return values, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
