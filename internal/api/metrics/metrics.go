// Package metrics defines all custom Prometheus metrics for the barbershop
// API. It is the single source of truth for metric names, labels, and help
// strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "barbershop"

// HaircutsRegisteredTotal counts registered haircuts.
// Label:
//   - type: "paid" or "free"
var HaircutsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "haircuts_registered_total",
		Help:      "Total number of haircuts registered, by visit type.",
	},
	[]string{"type"},
)

// FreeHaircutsEarnedTotal counts free haircuts earned by reaching the
// redemption threshold.
var FreeHaircutsEarnedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "free_haircuts_earned_total",
		Help:      "Total number of free haircuts earned through accrual.",
	},
)

// FreeHaircutsRedeemedTotal counts free haircuts actually consumed.
var FreeHaircutsRedeemedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "free_haircuts_redeemed_total",
		Help:      "Total number of free haircuts redeemed.",
	},
)

// RegisterHaircutDuration observes the end-to-end latency of registering a
// haircut, retries included.
var RegisterHaircutDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "register_haircut_duration_seconds",
		Help:      "Time taken to register a haircut.",
		Buckets:   prometheus.DefBuckets,
	},
)

// LedgerConflictsTotal counts optimistic-concurrency conflicts hit while
// committing a visit. A non-zero rate means concurrent registrations for the
// same customer are being retried.
var LedgerConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_version_conflicts_total",
		Help:      "Total number of loyalty ledger version conflicts during commit.",
	},
)
