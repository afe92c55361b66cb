package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formadmin/internal/logging"
	"github.com/goliatone/go-formadmin/pkg/formstate"
	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/remote"
	"github.com/goliatone/go-formadmin/pkg/validation"
)

// ErrSubmissionInFlight is returned when Submit is called while an earlier
// call on the same controller has not finished.
var ErrSubmissionInFlight = errors.New("submission: a submission is already in flight")

// PrepareFailedMessage is surfaced when validated values cannot be turned
// into a request. The underlying error is only logged.
const PrepareFailedMessage = "Could not prepare the request. Check the values and try again."

// Attempt summarises one Submit call.
type Attempt struct {
	Status  formstate.Status
	Outcome Outcome
	// Message is the text surfaced to the operator, if any.
	Message string
	// Result is set once a request was sent.
	Result *remote.Result
}

// Option customises a Controller.
type Option func(*Controller)

// WithPrompter injects the confirmation and notification capability.
func WithPrompter(p Prompter) Option {
	return func(c *Controller) {
		if p != nil {
			c.prompter = p
		}
	}
}

// WithRecorder registers a Recorder notified after every Submit.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithStore binds the controller to an existing store, for example one
// prefilled from command line flags.
func WithStore(store *formstate.Store) Option {
	return func(c *Controller) {
		if store != nil {
			c.store = store
		}
	}
}

// Controller owns the submission lifecycle of one form instance.
type Controller struct {
	def      Definition
	store    *formstate.Store
	sender   remote.Sender
	prompter Prompter
	recorder Recorder
	inFlight atomic.Bool
	now      func() time.Time
}

// New constructs a Controller for def that sends through sender. Without
// WithStore a fresh store is created from def.Spec.
func New(def Definition, sender remote.Sender, options ...Option) (*Controller, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, errors.New("submission: sender is required")
	}
	c := &Controller{
		def:      def,
		sender:   sender,
		prompter: declinePrompter{},
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.store == nil {
		c.store = formstate.New(def.Spec)
	}
	if c.store.Spec().Name != def.Spec.Name {
		return nil, fmt.Errorf("submission: store belongs to form %q, not %q", c.store.Spec().Name, def.Spec.Name)
	}
	return c, nil
}

// Definition returns the form definition.
func (c *Controller) Definition() Definition {
	return c.def
}

// Store returns the form state the controller updates.
func (c *Controller) Store() *formstate.Store {
	return c.store
}

// CanSubmit reports whether the submit control should be enabled.
func (c *Controller) CanSubmit() bool {
	return !c.inFlight.Load()
}

// Submit runs one submission attempt. It only returns an error when the
// attempt was rejected because another one is in flight; every other
// outcome, including network and server failures, is reflected in the store
// and the returned Attempt.
func (c *Controller) Submit(ctx context.Context) (Attempt, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := c.now()
	if !c.inFlight.CompareAndSwap(false, true) {
		c.recorder.ObserveSubmission(c.def.Name, OutcomeRejected, 0)
		logging.Log(ctx).Warn(ctx, "submission rejected", zap.String("form", c.def.Name))
		return Attempt{Status: c.store.Status(), Outcome: OutcomeRejected}, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	if _, ok := logging.GetRequestID(ctx); !ok {
		ctx = logging.NewRequestIDContext(ctx, logging.GenerateRequestID())
	}
	log := logging.Log(ctx).With(zap.String("form", c.def.Name))

	attempt := c.run(ctx, log)
	c.recorder.ObserveSubmission(c.def.Name, attempt.Outcome, c.now().Sub(started))
	log.Info(ctx, "submission finished",
		zap.String("outcome", string(attempt.Outcome)),
		zap.Stringer("status", attempt.Status))
	return attempt, nil
}

func (c *Controller) run(ctx context.Context, log *logging.Logger) Attempt {
	c.transition(ctx, log, formstate.StatusValidating)
	values := c.store.Values().Trimmed()
	errs := validation.Validate(c.def.Spec, values)
	c.store.ReplaceErrors(errs)
	if !errs.Empty() {
		return c.abortInvalid(ctx, log, errs)
	}

	if c.def.ConfirmMessage != nil {
		ok, err := c.prompter.Confirm(ctx, c.def.ConfirmMessage(values))
		if err != nil {
			log.Warn(ctx, "confirmation failed", zap.Error(err))
		}
		if err != nil || !ok {
			c.transition(ctx, log, formstate.StatusIdle)
			return Attempt{Status: formstate.StatusIdle, Outcome: OutcomeDeclined}
		}
	}

	req, err := c.request(values)
	if err != nil {
		// values passed validation but do not fit the wire schema
		log.Error(ctx, "build submission request", zap.Error(err))
		return c.fail(ctx, PrepareFailedMessage, nil)
	}

	c.transition(ctx, log, formstate.StatusSubmitting)
	res := c.sender.Send(ctx, req)
	if !res.OK() {
		return c.fail(ctx, res.Failure.Message, &res)
	}

	msg := c.def.successMessage(values, res)
	if c.def.Flow.ResetsOnSuccess() {
		c.store.Reset()
	}
	c.store.SetStatus(formstate.StatusSucceeded)
	c.store.SetServerMessage(msg)
	c.notify(ctx, msg)
	return Attempt{Status: formstate.StatusSucceeded, Outcome: OutcomeSucceeded, Message: msg, Result: &res}
}

func (c *Controller) abortInvalid(ctx context.Context, log *logging.Logger, errs model.FieldErrors) Attempt {
	c.transition(ctx, log, formstate.StatusIdle)
	attempt := Attempt{Status: formstate.StatusIdle, Outcome: OutcomeInvalid}
	// delete forms carry a single id field; its message doubles as the banner
	if c.def.Flow == FlowDelete {
		if _, msg, ok := errs.First(c.def.Spec); ok {
			c.store.SetServerMessage(msg)
			c.notify(ctx, msg)
			attempt.Message = msg
		}
	}
	log.Debug(ctx, "submission blocked by validation", zap.Strings("fields", errs.Fields()))
	return attempt
}

func (c *Controller) request(values model.Values) (remote.Request, error) {
	url, err := c.def.Endpoint(values)
	if err != nil {
		return remote.Request{}, fmt.Errorf("submission: resolve endpoint: %w", err)
	}
	var payload any
	if c.def.Serialize != nil {
		payload, err = c.def.Serialize(values)
		if err != nil {
			return remote.Request{}, fmt.Errorf("submission: serialize %s: %w", c.def.Name, err)
		}
	}
	return remote.Request{Method: c.def.RequestMethod(), URL: url, Payload: payload}, nil
}

// fail moves the store to failed. Field errors carried by the response
// replace the local ones; keys matching no field join the banner message.
func (c *Controller) fail(ctx context.Context, message string, res *remote.Result) Attempt {
	reason := strings.TrimSpace(message)
	if res != nil && res.Failure != nil && len(res.Failure.Fields) > 0 {
		mapped := formstate.MapServerErrors(c.def.Spec, res.Failure.Fields)
		if !mapped.Fields.Empty() {
			c.store.LoadServerErrors(mapped.Fields)
		}
		if len(mapped.Form) > 0 {
			reason = strings.Join(formstate.MergeFormErrors([]string{reason}, mapped.Form...), " ")
		}
	}
	if reason == "" {
		reason = remote.NetworkErrorMessage
	}
	c.store.Fail(reason)
	c.notify(ctx, c.def.FailurePrefix+reason)
	return Attempt{Status: formstate.StatusFailed, Outcome: OutcomeFailed, Message: reason, Result: res}
}

func (c *Controller) transition(ctx context.Context, log *logging.Logger, status formstate.Status) {
	c.store.SetStatus(status)
	log.Debug(ctx, "submission state", zap.Stringer("status", status))
}

func (c *Controller) notify(ctx context.Context, message string) {
	if err := c.prompter.Notify(ctx, message); err != nil {
		logging.Log(ctx).Warn(ctx, "notify failed", zap.Error(err))
	}
}
