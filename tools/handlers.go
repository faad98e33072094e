package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/crm"
	"github.com/olgasafonova/odoo-crm-mcp-server/metrics"
	"github.com/olgasafonova/odoo-crm-mcp-server/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	adapter *crm.Adapter
	logger  *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(adapter *crm.Adapter, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		adapter: adapter,
		logger:  logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	for _, spec := range AllTools {
		h.registerByName(server, spec)
	}
	h.logger.Info("Registered all tools", "count", len(AllTools))
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) {
	tool := h.buildTool(spec)

	switch spec.Method {
	case "ListLeads":
		register(h, server, tool, spec, h.adapter.ListLeadsMCP)
	case "GetLeadByID":
		register(h, server, tool, spec, h.adapter.GetLeadByIDMCP)
	case "CreateLead":
		register(h, server, tool, spec, h.adapter.CreateLeadsMCP)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
	}
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
		// The MCP default for non-read-only tools is destructive, so state it explicitly.
		DestructiveHint: ptr(spec.Destructive),
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Title:       spec.Title,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the adapter method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (res *mcp.CallToolResult, out Result, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				h.handlePanic(spec.Name, rec)
				err = fmt.Errorf("%s failed: internal error", spec.Name)
			}
		}()

		requestID := uuid.NewString()

		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		tracing.AddToolAttributes(span, spec.Name, spec.Category)
		span.SetAttributes(
			attribute.Bool("mcp.tool.readonly", spec.ReadOnly),
			attribute.String("mcp.request_id", requestID),
			attribute.String("odoo.model", spec.Model),
		)

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			var zero Result
			return nil, zero, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, requestID, duration, args, result)
		return nil, result, nil
	})
}

// handlePanic records a panic recovered in a tool handler.
func (h *HandlerRegistry) handlePanic(toolName string, rec any) {
	metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
	h.logger.Error("Panic recovered",
		"tool", toolName,
		"panic", rec,
		"stack", string(debug.Stack()))
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, requestID string, duration float64, args, result any) {
	attrs := []any{"tool", spec.Name, "request_id", requestID, "duration_ms", int64(duration * 1000)}

	switch a := args.(type) {
	case crm.ListLeadsArgs:
		// No args to log
	case crm.GetLeadByIDArgs:
		attrs = append(attrs, "lead_id", a.LeadID)
	case crm.CreateLeadArgs:
		attrs = append(attrs, "name", a.Name)
	}

	switch r := result.(type) {
	case crm.ListLeadsResult:
		attrs = append(attrs, "count", r.Count)
		if r.ErrorCode != "" {
			attrs = append(attrs, "error_code", r.ErrorCode)
		}
	case crm.GetLeadResult:
		attrs = append(attrs, "found", r.ID != nil)
		if r.ErrorCode != "" {
			attrs = append(attrs, "error_code", r.ErrorCode)
		}
	case crm.CreateLeadResult:
		attrs = append(attrs, "code", r.Code)
		if r.LeadID != 0 {
			attrs = append(attrs, "lead_id", r.LeadID)
		}
		if r.ErrorCode != "" {
			attrs = append(attrs, "error_code", r.ErrorCode)
		}
	}

	h.logger.Info("Tool executed", attrs...)
}
