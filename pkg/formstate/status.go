package formstate

// Status is the lifecycle state of one form's mutation attempt.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status ends a submission attempt.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Busy reports whether a submission is between submit intent and its outcome.
func (s Status) Busy() bool {
	return s == StatusValidating || s == StatusSubmitting
}

func (s Status) String() string {
	if s == "" {
		return string(StatusIdle)
	}
	return string(s)
}
