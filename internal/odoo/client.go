// Package odoo provides an XML-RPC client for the Odoo external API.
// Authentication goes through /xmlrpc/2/common and model methods through
// execute_kw on /xmlrpc/2/object.
package odoo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/rpc"
	"regexp"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
	"github.com/olgasafonova/odoo-crm-mcp-server/internal/config"
	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
	"github.com/olgasafonova/odoo-crm-mcp-server/metrics"
	"github.com/olgasafonova/odoo-crm-mcp-server/tracing"
	"go.opentelemetry.io/otel/codes"
)

const (
	// EndpointCommon serves authenticate and version
	EndpointCommon = "common"

	// EndpointObject serves execute_kw
	EndpointObject = "object"
)

var faultPattern = regexp.MustCompile(`(?s)^Fault\(-?\d+\): (.*)$`)

// Record is one Odoo record as returned by search_read or passed to create
type Record = map[string]any

// Domain is an Odoo search domain: a list of [field, operator, value] conditions
type Domain = []any

// Eq builds a [field, "=", value] domain condition
func Eq(field string, value any) []any {
	return []any{field, "=", value}
}

// Client talks to one Odoo database with one set of credentials.
// It holds no session: every call opens a fresh XML-RPC channel and the uid
// returned by Authenticate is only meaningful to the caller that asked for it.
type Client struct {
	baseURL   string
	database  string
	username  string
	password  string
	userAgent string
	timeout   time.Duration

	transport http.RoundTripper
	logger    *slog.Logger
	semaphore chan struct{}
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithTransport sets a custom HTTP round tripper
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates an Odoo XML-RPC client from cfg
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = config.DefaultMaxConcurrent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		database:  cfg.Database,
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		transport: newHTTPTransport(),
		logger:    slog.Default(),
		semaphore: make(chan struct{}, maxConcurrent),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Timeout returns the per-operation time budget callers should apply
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Authenticate logs in and returns the uid. Odoo answers false for bad
// credentials; that becomes an UnauthenticatedError and uid 0.
func (c *Client) Authenticate(ctx context.Context) (int64, error) {
	var reply any
	args := []any{c.database, c.username, c.password, map[string]any{}}
	if err := c.call(ctx, EndpointCommon, "authenticate", "", args, &reply); err != nil {
		return 0, err
	}

	uid, ok := AsInt64(reply)
	if !ok || uid <= 0 {
		metrics.AuthFailures.WithLabelValues("rejected").Inc()
		c.logger.Warn("Odoo authentication failed",
			"database", c.database,
			"user", c.username)
		return 0, &apierrors.UnauthenticatedError{Database: c.database, Username: c.username}
	}
	return uid, nil
}

// SearchRead runs search_read on model with domain, returning only fields
func (c *Client) SearchRead(ctx context.Context, uid int64, model string, domain Domain, fields []string) ([]Record, error) {
	if domain == nil {
		domain = Domain{}
	}
	kwargs := map[string]any{"fields": fields}

	var reply []any
	if err := c.executeKW(ctx, uid, model, "search_read", []any{domain}, kwargs, &reply); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(reply))
	for i, item := range reply {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, &apierrors.TransportError{
				Endpoint: EndpointObject,
				Method:   "search_read",
				Err:      fmt.Errorf("unexpected record type %T at index %d", item, i),
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Create runs create on model and returns the new record id
func (c *Client) Create(ctx context.Context, uid int64, model string, values Record) (int64, error) {
	var reply any
	if err := c.executeKW(ctx, uid, model, "create", []any{values}, nil, &reply); err != nil {
		return 0, err
	}

	id, ok := AsInt64(reply)
	if !ok {
		return 0, &apierrors.TransportError{
			Endpoint: EndpointObject,
			Method:   "create",
			Err:      fmt.Errorf("unexpected create result %T", reply),
		}
	}
	return id, nil
}

// executeKW calls execute_kw(db, uid, password, model, method, args[, kwargs])
func (c *Client) executeKW(ctx context.Context, uid int64, model, method string, args []any, kwargs map[string]any, reply any) error {
	params := []any{c.database, uid, c.password, model, method, args}
	if kwargs != nil {
		params = append(params, kwargs)
	}
	return c.call(ctx, EndpointObject, method, model, params, reply)
}

// call performs one XML-RPC round trip on a fresh channel with semaphore, tracing and metrics.
// For execute_kw the XML-RPC method is always "execute_kw"; method names the model method.
func (c *Client) call(ctx context.Context, endpoint, method, model string, params []any, reply any) error {
	if err := c.acquireSlot(ctx); err != nil {
		return &apierrors.TransportError{Endpoint: endpoint, Method: method, Err: err}
	}
	defer c.releaseSlot()

	ctx, span := tracing.StartSpan(ctx, "odoo."+endpoint+"."+method)
	defer span.End()
	tracing.AddOdooAttributes(span, endpoint, method, model)

	rpcMethod := method
	if endpoint == EndpointObject {
		rpcMethod = "execute_kw"
	}

	start := time.Now()
	err := c.roundTrip(ctx, endpoint, rpcMethod, params, reply)
	duration := time.Since(start).Seconds()

	if err != nil {
		err = c.classify(ctx, endpoint, method, err)
		kind := string(apierrors.KindOf(err))
		metrics.RecordRPCCall(endpoint, method, duration, false, kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		c.logger.Debug("Odoo call failed",
			"endpoint", endpoint,
			"method", method,
			"model", model,
			"error_kind", kind,
			"error", err)
		return err
	}

	metrics.RecordRPCCall(endpoint, method, duration, true, "")
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) roundTrip(ctx context.Context, endpoint, rpcMethod string, params []any, reply any) error {
	rt := &contextTransport{ctx: ctx, base: c.transport, userAgent: c.userAgent}
	rpcClient, err := xmlrpc.NewClient(c.baseURL+"/xmlrpc/2/"+endpoint, rt)
	if err != nil {
		return err
	}
	defer func() { _ = rpcClient.Close() }()

	return rpcClient.Call(rpcMethod, params, reply)
}

// acquireSlot blocks until a request slot is available or context is canceled
func (c *Client) acquireSlot(ctx context.Context) error {
	select {
	case c.semaphore <- struct{}{}:
		return nil
	default:
	}

	metrics.RateLimitWaits.Inc()
	select {
	case c.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context canceled while waiting for request slot: %w", ctx.Err())
	}
}

func (c *Client) releaseSlot() {
	<-c.semaphore
}

// classify maps codec and transport errors onto the error taxonomy.
// XML-RPC faults are remote rejections; Odoo's AccessDenied fault means the
// credentials stopped working between authenticate and execute_kw.
func (c *Client) classify(ctx context.Context, endpoint, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &apierrors.TransportError{Endpoint: endpoint, Method: method, Err: ctxErr}
	}

	fault, ok := faultString(err)
	if !ok {
		return &apierrors.TransportError{Endpoint: endpoint, Method: method, Err: err}
	}

	if isAccessDenied(fault) {
		metrics.AuthFailures.WithLabelValues("access_denied").Inc()
		return &apierrors.UnauthenticatedError{Database: c.database, Username: c.username, Reason: summarizeFault(fault)}
	}
	return &apierrors.RemoteFaultError{Method: method, Fault: summarizeFault(fault)}
}

// faultString extracts the faultString of an XML-RPC fault. The codec reports
// faults through net/rpc as ServerError("Fault(code): message"); other server
// errors (bad HTTP status, undecodable fault) are not faults.
func faultString(err error) (string, bool) {
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		return "", false
	}
	m := faultPattern.FindStringSubmatch(string(serverErr))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func isAccessDenied(fault string) bool {
	lower := strings.ToLower(fault)
	return strings.Contains(lower, "accessdenied") || strings.Contains(lower, "access denied")
}

// summarizeFault keeps fault messages short. Odoo sends plain messages for
// user-facing errors and a full server traceback for everything else; for the
// latter the exception line is the last one.
func summarizeFault(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	line := strings.TrimSpace(lines[0])
	if strings.HasPrefix(line, "Traceback") {
		for i := len(lines) - 1; i >= 0; i-- {
			if l := strings.TrimSpace(lines[i]); l != "" {
				line = l
				break
			}
		}
	}
	const maxLen = 500
	if len(line) > maxLen {
		return line[:maxLen] + "..."
	}
	return line
}
