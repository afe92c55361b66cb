// Package metrics exposes submission counters and latencies through a
// Prometheus registry. A CLI run writes the registry to a node-exporter
// textfile on exit.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formadmin/pkg/submission"
)

const namespace = "formadmin"

// Recorder implements submission.Recorder.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var _ submission.Recorder = (*Recorder)(nil)

// New registers the collectors on a fresh registry.
func New() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"form", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from submit intent to a terminal outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"form"}),
	}
	for _, c := range []prometheus.Collector{r.submissions, r.duration} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return r, nil
}

// ObserveSubmission counts the outcome. Only attempts that reached the
// network contribute to the latency histogram.
func (r *Recorder) ObserveSubmission(form string, outcome submission.Outcome, elapsed time.Duration) {
	r.submissions.WithLabelValues(form, string(outcome)).Inc()
	if outcome == submission.OutcomeSucceeded || outcome == submission.OutcomeFailed {
		r.duration.WithLabelValues(form).Observe(elapsed.Seconds())
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
