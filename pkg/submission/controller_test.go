package submission_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formadmin/pkg/formstate"
	"github.com/goliatone/go-formadmin/pkg/model"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/remote"
	"github.com/goliatone/go-formadmin/pkg/submission"
)

type fakeSender struct {
	mu       sync.Mutex
	requests []remote.Request
	result   remote.Result
	started  chan struct{}
	release  chan struct{}
}

func (s *fakeSender) Send(ctx context.Context, req remote.Request) remote.Result {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.result
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fakePrompter struct {
	confirm    bool
	confirmErr error
	confirms   []string
	notices    []string
}

func (p *fakePrompter) Confirm(_ context.Context, msg string) (bool, error) {
	p.confirms = append(p.confirms, msg)
	return p.confirm, p.confirmErr
}

func (p *fakePrompter) Notify(_ context.Context, msg string) error {
	p.notices = append(p.notices, msg)
	return nil
}

type recordedOutcome struct {
	Form    string
	Outcome submission.Outcome
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (r *fakeRecorder) ObserveSubmission(form string, outcome submission.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{Form: form, Outcome: outcome})
}

func definition(t *testing.T, name string) submission.Definition {
	t.Helper()
	endpoints := remote.DefaultEndpoints()
	for _, kind := range remote.Kinds() {
		if err := endpoints.Set(kind, "https://api.test"); err != nil {
			t.Fatalf("set endpoint: %v", err)
		}
	}
	def, err := records.NewCatalogue(endpoints).Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return def
}

func fill(t *testing.T, store *formstate.Store, values model.Values) {
	t.Helper()
	for name, value := range values {
		if err := store.SetField(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
}

func TestSubmit_AddQuestionEndToEnd(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusCreated, nil)}
	prompter := &fakePrompter{}
	recorder := &fakeRecorder{}
	ctrl, err := submission.New(definition(t, records.FormAddQuestion), sender,
		submission.WithPrompter(prompter), submission.WithRecorder(recorder))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	fill(t, ctrl.Store(), model.Values{"name": "Two Sum", "difficulty": "Easy", "link": "https://leetcode.com/two-sum"})

	attempt, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Status != formstate.StatusSucceeded || attempt.Outcome != submission.OutcomeSucceeded {
		t.Fatalf("unexpected attempt %+v", attempt)
	}

	if sender.count() != 1 {
		t.Fatalf("expected one request, got %d", sender.count())
	}
	req := sender.requests[0]
	if req.Method != http.MethodPost || req.URL != "https://api.test/add-coding-question" {
		t.Fatalf("unexpected request %s %s", req.Method, req.URL)
	}
	wantPayload := records.QuestionPayload{Name: "Two Sum", Difficulty: "Easy", Link: "https://leetcode.com/two-sum"}
	if diff := cmp.Diff(wantPayload, req.Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	store := ctrl.Store()
	if diff := cmp.Diff(model.Values{"name": "", "difficulty": "Easy", "link": ""}, store.Values()); diff != "" {
		t.Fatalf("form not reset (-want +got):\n%s", diff)
	}
	if !store.Errors().Empty() {
		t.Fatalf("expected no errors, got %v", store.Errors())
	}
	if store.Status() != formstate.StatusSucceeded {
		t.Fatalf("status = %s", store.Status())
	}
	if diff := cmp.Diff([]string{"Question added"}, prompter.notices); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]recordedOutcome{{Form: records.FormAddQuestion, Outcome: submission.OutcomeSucceeded}}, recorder.outcomes); diff != "" {
		t.Fatalf("recorded outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_ServerMessageOverridesDefault(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, map[string]any{"message": "Stored as Q-17"})}
	prompter := &fakePrompter{}
	ctrl, _ := submission.New(definition(t, records.FormAddQuestion), sender, submission.WithPrompter(prompter))
	fill(t, ctrl.Store(), model.Values{"name": "Two Sum", "link": "https://leetcode.com/two-sum"})

	attempt, _ := ctrl.Submit(context.Background())
	if attempt.Message != "Stored as Q-17" {
		t.Fatalf("message = %q", attempt.Message)
	}
}

func TestSubmit_ServerFailureKeepsValues(t *testing.T) {
	sender := &fakeSender{result: remote.Err(remote.Failure{Kind: remote.KindHTTPStatus, Status: 500, Message: "boom"})}
	prompter := &fakePrompter{}
	ctrl, _ := submission.New(definition(t, records.FormAddQuestion), sender, submission.WithPrompter(prompter))
	values := model.Values{"name": "Two Sum", "difficulty": "Hard", "link": "https://leetcode.com/two-sum"}
	fill(t, ctrl.Store(), values)

	attempt, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	store := ctrl.Store()
	if attempt.Status != formstate.StatusFailed || store.Status() != formstate.StatusFailed {
		t.Fatalf("status = %s / %s", attempt.Status, store.Status())
	}
	if store.ServerMessage() != "boom" || store.Reason() != "boom" {
		t.Fatalf("server message = %q, reason = %q", store.ServerMessage(), store.Reason())
	}
	if diff := cmp.Diff(values, store.Values()); diff != "" {
		t.Fatalf("values changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Failed to add question: boom"}, prompter.notices); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_NetworkFailureUsesGenericMessage(t *testing.T) {
	sender := &fakeSender{result: remote.Err(remote.Failure{
		Kind:    remote.KindNetwork,
		Message: remote.NetworkErrorMessage,
		Cause:   errors.New("dial tcp: connection refused"),
	})}
	ctrl, _ := submission.New(definition(t, records.FormAddQuestion), sender)
	fill(t, ctrl.Store(), model.Values{"name": "Two Sum", "link": "https://leetcode.com/two-sum"})

	attempt, _ := ctrl.Submit(context.Background())
	if attempt.Status != formstate.StatusFailed || ctrl.Store().ServerMessage() != remote.NetworkErrorMessage {
		t.Fatalf("unexpected state %+v / %q", attempt, ctrl.Store().ServerMessage())
	}
}

func TestSubmit_ServerFieldErrorsReplaceLocalErrors(t *testing.T) {
	sender := &fakeSender{result: remote.Err(remote.Failure{
		Kind:    remote.KindHTTPStatus,
		Status:  422,
		Message: remote.ValidationFailedMessage,
		Fields: map[string][]string{
			"body.phone": {"Phone already registered"},
			"__all__":    {"Profile locked"},
		},
	})}
	ctrl, _ := submission.New(definition(t, records.FormUpdateUserDetails), sender)
	values := model.Values{
		"username":        "alice",
		"full_name":       "Alice A",
		"address":         "Street 1",
		"phone":           "+91 9652530489",
		"photo":           "https://img.test/a.png",
		"highest_study":   "BTech",
		"college":         "IIT",
		"graduation_year": "2024",
		"expertise":       "Go",
	}
	fill(t, ctrl.Store(), values)

	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	store := ctrl.Store()
	if diff := cmp.Diff(model.FieldErrors{"phone": "Phone already registered"}, store.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := store.ServerMessage(); got != "Validation failed on server. Profile locked" {
		t.Fatalf("server message = %q", got)
	}
}

func TestSubmit_UpdateFlowKeepsValues(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, nil)}
	ctrl, _ := submission.New(definition(t, records.FormUpdateUserDetails), sender)
	values := model.Values{
		"username":        "alice",
		"full_name":       "Alice A",
		"address":         "Street 1",
		"phone":           "9652530489",
		"photo":           "https://img.test/a.png",
		"highest_study":   "BTech",
		"college":         "IIT",
		"graduation_year": "2024",
		"expertise":       "Go",
	}
	fill(t, ctrl.Store(), values)

	attempt, _ := ctrl.Submit(context.Background())
	if attempt.Message != "Updated successfully." {
		t.Fatalf("message = %q", attempt.Message)
	}
	if diff := cmp.Diff(values, ctrl.Store().Values()); diff != "" {
		t.Fatalf("update flow cleared values (-want +got):\n%s", diff)
	}
}

func TestSubmit_InvalidNeverSends(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, nil)}
	recorder := &fakeRecorder{}
	ctrl, _ := submission.New(definition(t, records.FormAddQuestion), sender, submission.WithRecorder(recorder))
	fill(t, ctrl.Store(), model.Values{"name": "   ", "link": "not-a-url"})

	attempt, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Status != formstate.StatusIdle || ctrl.Store().Status() != formstate.StatusIdle {
		t.Fatalf("status = %s", ctrl.Store().Status())
	}
	if sender.count() != 0 {
		t.Fatalf("invalid form reached the network")
	}
	want := model.FieldErrors{"name": "Question name is required.", "link": "Enter a valid http(s) URL."}
	if diff := cmp.Diff(want, ctrl.Store().Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if recorder.outcomes[0].Outcome != submission.OutcomeInvalid {
		t.Fatalf("outcome = %s", recorder.outcomes[0].Outcome)
	}
}

func TestSubmit_DeleteJobEmptyID(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, nil)}
	prompter := &fakePrompter{confirm: true}
	ctrl, _ := submission.New(definition(t, records.FormDeleteJob), sender, submission.WithPrompter(prompter))

	attempt, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Status != formstate.StatusIdle {
		t.Fatalf("status = %s", attempt.Status)
	}
	if len(prompter.confirms) != 0 {
		t.Fatalf("confirmation gate reached: %v", prompter.confirms)
	}
	if sender.count() != 0 {
		t.Fatalf("delete reached the network")
	}
	if got := ctrl.Store().ServerMessage(); got != "Please enter a job ID." {
		t.Fatalf("server message = %q", got)
	}
}

func TestSubmit_DeleteDeclined(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, nil)}
	prompter := &fakePrompter{confirm: false}
	ctrl, _ := submission.New(definition(t, records.FormDeleteJob), sender, submission.WithPrompter(prompter))
	fill(t, ctrl.Store(), model.Values{"id": "J-7"})

	attempt, _ := ctrl.Submit(context.Background())
	if attempt.Outcome != submission.OutcomeDeclined || attempt.Status != formstate.StatusIdle {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if diff := cmp.Diff([]string{`Permanently delete job with ID "J-7"?`}, prompter.confirms); diff != "" {
		t.Fatalf("confirm prompts mismatch (-want +got):\n%s", diff)
	}
	if sender.count() != 0 {
		t.Fatalf("declined delete reached the network")
	}
	if ctrl.Store().Value("id") != "J-7" {
		t.Fatalf("declined delete lost the id")
	}
}

func TestSubmit_DeleteConfirmed(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, nil)}
	prompter := &fakePrompter{confirm: true}
	ctrl, _ := submission.New(definition(t, records.FormDeleteAnnouncement), sender, submission.WithPrompter(prompter))
	fill(t, ctrl.Store(), model.Values{"id": "12"})

	attempt, _ := ctrl.Submit(context.Background())
	if attempt.Status != formstate.StatusSucceeded {
		t.Fatalf("status = %s", attempt.Status)
	}
	req := sender.requests[0]
	if req.Method != http.MethodDelete || req.URL != "https://api.test/delete-announcements/12" || req.Payload != nil {
		t.Fatalf("unexpected request %+v", req)
	}
	if attempt.Message != "Announcement with ID 12 deleted successfully." {
		t.Fatalf("message = %q", attempt.Message)
	}
	if ctrl.Store().Value("id") != "" {
		t.Fatalf("delete flow should reset the id")
	}
}

func TestSubmit_AutoConfirm(t *testing.T) {
	sender := &fakeSender{result: remote.Ok(http.StatusOK, nil)}
	prompter := &fakePrompter{confirm: false}
	ctrl, _ := submission.New(definition(t, records.FormDeleteJob), sender,
		submission.WithPrompter(submission.AutoConfirm(prompter)))
	fill(t, ctrl.Store(), model.Values{"id": "J-7"})

	attempt, _ := ctrl.Submit(context.Background())
	if attempt.Status != formstate.StatusSucceeded {
		t.Fatalf("status = %s", attempt.Status)
	}
	if len(prompter.confirms) != 0 {
		t.Fatalf("auto confirm still asked")
	}
	if diff := cmp.Diff([]string{"Deleted job J-7"}, prompter.notices); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_AtMostOneInFlight(t *testing.T) {
	sender := &fakeSender{
		result:  remote.Ok(http.StatusOK, nil),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	recorder := &fakeRecorder{}
	ctrl, _ := submission.New(definition(t, records.FormAddQuestion), sender, submission.WithRecorder(recorder))
	fill(t, ctrl.Store(), model.Values{"name": "Two Sum", "link": "https://leetcode.com/two-sum"})

	var firstErr atomic.Value
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := ctrl.Submit(context.Background()); err != nil {
			firstErr.Store(err)
		}
	}()

	<-sender.started
	if ctrl.CanSubmit() {
		t.Fatalf("submit control should be disabled while in flight")
	}
	if ctrl.Store().Status() != formstate.StatusSubmitting {
		t.Fatalf("status = %s, want submitting", ctrl.Store().Status())
	}

	attempt, err := ctrl.Submit(context.Background())
	if !errors.Is(err, submission.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	if attempt.Outcome != submission.OutcomeRejected {
		t.Fatalf("outcome = %s", attempt.Outcome)
	}

	close(sender.release)
	<-done
	if v := firstErr.Load(); v != nil {
		t.Fatalf("first submit failed: %v", v)
	}
	if sender.count() != 1 {
		t.Fatalf("expected exactly one request, got %d", sender.count())
	}
	if !ctrl.CanSubmit() {
		t.Fatalf("submit control should be enabled after completion")
	}
}

func TestSubmit_SerializeErrorStaysInLog(t *testing.T) {
	def := definition(t, records.FormAddQuestion)
	def.Serialize = func(model.Values) (any, error) {
		return nil, fmt.Errorf("%w: difficulty %q is not supported", records.ErrInvalidPayload, "Hard")
	}
	sender := &fakeSender{}
	prompter := &fakePrompter{}
	ctrl, err := submission.New(def, sender, submission.WithPrompter(prompter))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	fill(t, ctrl.Store(), model.Values{"name": "Two Sum", "difficulty": "Hard", "link": "https://leetcode.com/two-sum"})

	attempt, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.Outcome != submission.OutcomeFailed || attempt.Message != submission.PrepareFailedMessage {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if got := ctrl.Store().ServerMessage(); got != submission.PrepareFailedMessage {
		t.Fatalf("server message = %q", got)
	}
	if strings.Contains(ctrl.Store().ServerMessage(), "invalid payload") {
		t.Fatalf("internal error leaked into server message")
	}
	if sender.count() != 0 {
		t.Fatalf("expected no request, got %d", sender.count())
	}
	if diff := cmp.Diff([]string{"Failed to add question: " + submission.PrepareFailedMessage}, prompter.notices); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RequiresEndpointAndSender(t *testing.T) {
	if _, err := submission.New(submission.Definition{Name: "x"}, &fakeSender{}); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
	def := definition(t, records.FormAddJob)
	if _, err := submission.New(def, nil); err == nil {
		t.Fatalf("expected error for missing sender")
	}
	other := formstate.New(records.AddMentorSpec())
	if _, err := submission.New(def, &fakeSender{}, submission.WithStore(other)); err == nil {
		t.Fatalf("expected error for mismatched store")
	}
}
