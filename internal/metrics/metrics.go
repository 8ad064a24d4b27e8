package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Intake metrics
	QuestionsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maven_questions_submitted_total",
			Help: "Total questions accepted at intake",
		},
	)

	ExpertMailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maven_expert_mails_sent_total",
			Help: "Total question mails dispatched to experts",
		},
	)

	ExpertSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maven_expert_send_failures_total",
			Help: "Total failed question dispatches",
		},
	)

	// Correlator metrics
	AnswersDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maven_answers_delivered_total",
			Help: "Total answers delivered to requesters",
		},
		[]string{"channel"}, // "chat" or "mail"
	)

	RepliesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maven_replies_rejected_total",
			Help: "Total inbound messages dropped during correlation",
		},
		[]string{"reason"},
	)

	MarkReadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maven_mark_read_failures_total",
			Help: "Total failures clearing the unread flag",
		},
	)

	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maven_poll_duration_seconds",
			Help:    "Reply poll cycle duration",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// Reminder metrics
	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maven_reminders_sent_total",
			Help: "Total follow-up mails sent to experts",
		},
	)
)
