// Package metrics exposes Prometheus collectors for the idea lifecycle.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideabox_http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Ideas
	IdeasCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_ideas_created_total",
			Help: "Ideas submitted, by category",
		},
		[]string{"category"},
	)
	VotesCast = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_votes_cast_total",
			Help: "Accepted votes, by direction",
		},
		[]string{"direction"}, // for|against
	)
	VotesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_votes_rejected_total",
			Help: "Rejected votes, by reason",
		},
		[]string{"reason"}, // already_voted|already_approved|not_found|invalid
	)
	CommentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_comments_total",
			Help: "Comment ledger operations",
		},
		[]string{"op"}, // add|delete
	)
	ModerationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_moderation_actions_total",
			Help: "Moderation actions that changed an idea",
		},
		[]string{"action"}, // approve|hide|unhide
	)

	// Accounts
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_login_attempts_total",
			Help: "Login attempts, by outcome",
		},
		[]string{"outcome"},
	)
	TempPasswordsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ideabox_temp_passwords_purged_total",
			Help: "Plain temporary passwords removed",
		},
	)

	initOnce sync.Once
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			IdeasCreated,
			VotesCast,
			VotesRejected,
			CommentsTotal,
			ModerationActions,
			LoginAttempts,
			TempPasswordsPurged,
		)
	})
}
