// Package metrics registers the client's counters with the default
// prometheus registry. The CLI serves no metrics endpoint of its own; a
// process embedding the client and review packages exposes them through
// its own promhttp handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	intellirefer = "intellirefer_client"

	// API client metrics
	apiRequestsTotal = "api_requests_total"

	// Optimistic reconciliation metrics
	rollbacksTotal = "optimistic_rollbacks_total"
	commitsTotal   = "optimistic_commits_total"

	// Labels
	operationLabel = "operation"
	resultLabel    = "result"
	actionLabel    = "action"
)

var apiRequestLabels = []string{
	operationLabel,
	resultLabel,
}

var reconcileLabels = []string{
	actionLabel,
}

/**
* Metrics definition
**/
var apiRequestsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: intellirefer,
		Name:      apiRequestsTotal,
		Help:      "number of API requests issued, by operation and result",
	},
	apiRequestLabels,
)

var rollbacksTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: intellirefer,
		Name:      rollbacksTotal,
		Help:      "number of optimistic mutations rolled back after a failed commit",
	},
	reconcileLabels,
)

var commitsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: intellirefer,
		Name:      commitsTotal,
		Help:      "number of optimistic mutations confirmed by the server",
	},
	reconcileLabels,
)

func IncreaseApiRequestsTotalMetric(operation string, result string) {
	labels := prometheus.Labels{
		operationLabel: operation,
		resultLabel:    result,
	}
	apiRequestsTotalMetric.With(labels).Inc()
}

func IncreaseRollbacksTotalMetric(action string) {
	labels := prometheus.Labels{
		actionLabel: action,
	}
	rollbacksTotalMetric.With(labels).Inc()
}

func IncreaseCommitsTotalMetric(action string) {
	labels := prometheus.Labels{
		actionLabel: action,
	}
	commitsTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(apiRequestsTotalMetric)
	prometheus.MustRegister(rollbacksTotalMetric)
	prometheus.MustRegister(commitsTotalMetric)
}
