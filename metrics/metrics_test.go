package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordRequest(t *testing.T) {
	tests := []struct {
		name       string
		tool       string
		duration   float64
		success    bool
		wantStatus string
	}{
		{
			name:       "successful request",
			tool:       "test_tool",
			duration:   0.5,
			success:    true,
			wantStatus: "success",
		},
		{
			name:       "failed request",
			tool:       "test_tool",
			duration:   1.0,
			success:    false,
			wantStatus: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordRequest(tt.tool, tt.duration, tt.success)

			counter, err := RequestsTotal.GetMetricWithLabelValues(tt.tool, tt.wantStatus)
			if err != nil {
				t.Fatalf("failed to get metric: %v", err)
			}

			if getCounterValue(t, counter) < 1 {
				t.Error("expected counter to be incremented")
			}
		})
	}
}

func TestRecordRPCCall(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		method    string
		duration  float64
		success   bool
		errorKind string
	}{
		{
			name:     "successful authenticate",
			endpoint: "common",
			method:   "authenticate",
			duration: 0.1,
			success:  true,
		},
		{
			name:      "failed execute_kw with fault",
			endpoint:  "object",
			method:    "create",
			duration:  0.5,
			success:   false,
			errorKind: "remote_fault",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordRPCCall(tt.endpoint, tt.method, tt.duration, tt.success, tt.errorKind)

			status := "success"
			if !tt.success {
				status = "error"
			}
			counter, err := OdooRPCRequestsTotal.GetMetricWithLabelValues(tt.endpoint, tt.method, status)
			if err != nil {
				t.Fatalf("failed to get metric: %v", err)
			}
			if getCounterValue(t, counter) < 1 {
				t.Error("expected counter to be incremented")
			}

			if tt.errorKind != "" {
				errCounter, err := OdooRPCErrors.GetMetricWithLabelValues(tt.endpoint, tt.method, tt.errorKind)
				if err != nil {
					t.Fatalf("failed to get error metric: %v", err)
				}
				if getCounterValue(t, errCounter) < 1 {
					t.Error("expected error counter to be incremented")
				}
			}
		})
	}
}

func TestRecordLeadWrite(t *testing.T) {
	counter, err := LeadWrites.GetMetricWithLabelValues("create", "success")
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	before := getCounterValue(t, counter)

	RecordLeadWrite("create", true)

	if getCounterValue(t, counter) != before+1 {
		t.Error("expected lead write counter to increment by one")
	}
}

func TestRecordToolError(t *testing.T) {
	RecordToolError("get_lead_by_id", "not_found")

	counter, err := ToolErrors.GetMetricWithLabelValues("get_lead_by_id", "not_found")
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	if getCounterValue(t, counter) < 1 {
		t.Error("expected tool error counter to be incremented")
	}
}

func TestMetricsRegistered(t *testing.T) {
	metrics := []prometheus.Collector{
		RequestsTotal,
		RequestDuration,
		RequestInFlight,
		ToolErrors,
		OdooRPCLatency,
		OdooRPCRequestsTotal,
		OdooRPCErrors,
		RateLimitRejections,
		RateLimitWaits,
		AuthFailures,
		PanicsRecovered,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LeadWrites,
		LeadsReturned,
	}

	for i, m := range metrics {
		if m == nil {
			t.Errorf("metric at index %d is nil", i)
		}
	}
}

func TestNamespace(t *testing.T) {
	if Namespace != "odoo_crm_mcp" {
		t.Errorf("expected namespace 'odoo_crm_mcp', got '%s'", Namespace)
	}
}

// Helper to get counter value
func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}
