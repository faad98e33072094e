// Package metrics provides Prometheus metrics for the Odoo CRM MCP server.
// It tracks tool calls, Odoo XML-RPC round trips, authentication failures and HTTP transport traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "odoo_crm_mcp"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures request latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing requests
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// ToolErrors counts structured error results returned to callers by error code
	ToolErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "tool_errors_total",
		Help:      "Structured tool error results by tool and error code",
	}, []string{"tool", "error_code"})

	// OdooRPCLatency measures XML-RPC latency by endpoint and method
	OdooRPCLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "odoo_rpc_latency_seconds",
		Help:      "Odoo XML-RPC call latency by endpoint and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	// OdooRPCRequestsTotal counts XML-RPC calls
	OdooRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "odoo_rpc_requests_total",
		Help:      "Total Odoo XML-RPC calls by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	// OdooRPCErrors counts XML-RPC failures by error kind
	OdooRPCErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "odoo_rpc_errors_total",
		Help:      "Odoo XML-RPC errors by endpoint, method and error kind",
	}, []string{"endpoint", "method", "error_kind"})

	// RateLimitRejections counts HTTP requests rejected due to rate limiting
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected due to rate limiting",
	})

	// RateLimitWaits counts calls that had to wait for the XML-RPC semaphore
	RateLimitWaits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rate_limit_waits_total",
		Help:      "Calls that waited for the XML-RPC concurrency semaphore",
	})

	// AuthFailures counts authentication failures
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_failures_total",
		Help:      "Authentication failure count by reason",
	}, []string{"reason"})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})

	// HTTPRequestsTotal counts HTTP transport requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method and status",
	}, []string{"method", "status"})

	// HTTPRequestDuration measures HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distribution",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path"})

	// LeadWrites counts lead write operations by type
	LeadWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "lead_writes_total",
		Help:      "Lead write operations by type and status",
	}, []string{"operation", "status"})

	// LeadsReturned tracks how many leads read operations return
	LeadsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "leads_returned",
		Help:      "Number of lead records returned per read",
		Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
	}, []string{"operation"})
)

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordRequest records a completed request with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	RequestsTotal.WithLabelValues(tool, statusLabel(success)).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordToolError records a structured error result returned by a tool
func RecordToolError(tool, errorCode string) {
	ToolErrors.WithLabelValues(tool, errorCode).Inc()
}

// RecordRPCCall records an Odoo XML-RPC call
func RecordRPCCall(endpoint, method string, duration float64, success bool, errorKind string) {
	OdooRPCRequestsTotal.WithLabelValues(endpoint, method, statusLabel(success)).Inc()
	OdooRPCLatency.WithLabelValues(endpoint, method).Observe(duration)
	if errorKind != "" {
		OdooRPCErrors.WithLabelValues(endpoint, method, errorKind).Inc()
	}
}

// RecordLeadWrite records a lead write operation
func RecordLeadWrite(operation string, success bool) {
	LeadWrites.WithLabelValues(operation, statusLabel(success)).Inc()
}
