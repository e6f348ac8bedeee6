// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Order ledger metrics ──────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders created with a bound payment intent.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// ConfirmationsReceivedTotal counts payment confirmations accepted on the
// processor channel, before dedup.
var ConfirmationsReceivedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_confirmations_received_total",
		Help:      "Total number of payment capture confirmations accepted for processing.",
	},
)

// ConfirmationsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new confirmation, processed)
var ConfirmationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_confirmations_dedup_total",
		Help:      "Total number of confirmation deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ConfirmationProcessingDuration measures how long one confirmation takes
// from dequeue to persistence.
var ConfirmationProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_confirmation_duration_seconds",
		Help:      "Duration of confirmation processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Fulfillment metrics ───────────────────────────────────────────────────────

// DeliveriesSubmittedTotal counts deliveries submitted by sellers.
var DeliveriesSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_submitted_total",
		Help:      "Total number of deliveries submitted.",
	},
)

// DeliveriesAcceptedTotal counts buyer acceptances (order completions).
var DeliveriesAcceptedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_accepted_total",
		Help:      "Total number of deliveries accepted by buyers.",
	},
)

// ── Review metrics ────────────────────────────────────────────────────────────

// ReviewsCreatedTotal counts reviews written.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

// ── Conversation metrics ──────────────────────────────────────────────────────

// MessagesPostedTotal counts messages posted into threads.
var MessagesPostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_posted_total",
		Help:      "Total number of conversation messages posted.",
	},
)
