package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transitions counts session state transitions by event.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_transitions_total",
		Help: "Quiz session transitions by event.",
	}, []string{"event"})

	// Answers counts accepted answer submissions.
	Answers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_answers_total",
		Help: "Accepted answer submissions by correctness.",
	}, []string{"correct"})

	// RejectedAnswers counts submissions rejected before recording.
	RejectedAnswers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_answers_rejected_total",
		Help: "Rejected answer submissions by reason.",
	}, []string{"reason"})

	// NotifyFailures counts swallowed notification errors.
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quiz_notify_failures_total",
		Help: "Notification broadcasts that failed or were dropped.",
	})

	// ResponseTime observes answer response times in milliseconds.
	ResponseTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_answer_response_ms",
		Help:    "Answer response time in milliseconds.",
		Buckets: []float64{500, 1000, 2000, 5000, 10000, 20000, 30000, 60000},
	})
)
