package submission

import "time"

// Outcome labels how a Submit call ended.
type Outcome string

const (
	// OutcomeInvalid: local validation blocked the request.
	OutcomeInvalid Outcome = "invalid"
	// OutcomeDeclined: the operator declined confirmation.
	OutcomeDeclined Outcome = "declined"
	// OutcomeSucceeded: the server accepted the mutation.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed: the request failed or the server rejected it.
	OutcomeFailed Outcome = "failed"
	// OutcomeRejected: another submission was already in flight.
	OutcomeRejected Outcome = "rejected"
)

// Outcomes lists every outcome label.
func Outcomes() []Outcome {
	return []Outcome{OutcomeInvalid, OutcomeDeclined, OutcomeSucceeded, OutcomeFailed, OutcomeRejected}
}

// Recorder observes finished Submit calls, for metrics.
type Recorder interface {
	ObserveSubmission(form string, outcome Outcome, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSubmission(string, Outcome, time.Duration) {}
