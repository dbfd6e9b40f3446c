// Package metrics defines the Prometheus metrics emitted by the API client.
// It is the single source of truth for metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boxclient"

// APIRequestsTotal counts API calls by endpoint and outcome.
// Labels:
//   - endpoint: the request path (fixed set, no ids appear in paths)
//   - outcome: "ok", "error" (non-2xx) or "transport" (no response)
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of API requests issued by the client.",
	},
	[]string{"endpoint", "outcome"},
)

// APIRequestDuration measures wall time per API call.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of API requests from build to decode.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// SubmissionsTotal counts box-selection submissions by result.
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of box selection submissions attempted.",
	},
	[]string{"result"},
)
