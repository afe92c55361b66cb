// Package submission drives one form through its mutation lifecycle:
//
//	idle -> validating -> submitting -> succeeded | failed
//
// A Controller re-validates trimmed values at submit time, asks for
// confirmation on destructive flows, sends exactly one request through a
// remote.Sender and folds the Result back into the form's formstate.Store.
// At most one submission per controller is in flight; a concurrent Submit is
// rejected with ErrSubmissionInFlight instead of racing.
package submission
