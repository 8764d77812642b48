// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_requests_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)
)

// Vote Metrics
var (
	// VotesCastTotal counts applied votes by ledger action (insert, delete, flip)
	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_cast_total",
			Help: "Votes applied to posts by action",
		},
		[]string{"action"},
	)

	VoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vote_errors_total",
			Help: "Rejected or failed votes by reason",
		},
		[]string{"reason"},
	)
)

// Assistant Metrics
var (
	ChatMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Messages sent to the chatbot",
		},
	)

	ModerationFlaggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_flagged_total",
			Help: "User content rejected by moderation, by content kind",
		},
		[]string{"kind"},
	)
)

// WebSocket Metrics
var (
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Currently connected WebSocket clients",
		},
	)

	WebSocketBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_broadcasts_total",
			Help: "Messages broadcast to WebSocket clients by type",
		},
		[]string{"type"},
	)

	WebSocketSlowClientsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_clients_dropped_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)
)
