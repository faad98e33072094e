package odoo

import (
	"context"
	"time"

	apierrors "github.com/olgasafonova/odoo-crm-mcp-server/internal/errors"
)

// Backend is the remote CRM capability the adapter depends on.
// *Client is the XML-RPC implementation; tests substitute an in-memory double.
type Backend interface {
	Authenticate(ctx context.Context) (int64, error)
	SearchRead(ctx context.Context, uid int64, model string, domain Domain, fields []string) ([]Record, error)
	Create(ctx context.Context, uid int64, model string, values Record) (int64, error)
}

var _ Backend = (*Client)(nil)

// Do authenticates against b and runs fn with the fresh uid.
// A zero uid is treated as failed authentication and fn is never called.
// When timeout is positive it bounds both round trips together.
func Do[T any](ctx context.Context, b Backend, timeout time.Duration, fn func(ctx context.Context, uid int64) (T, error)) (T, error) {
	var zero T

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	uid, err := b.Authenticate(ctx)
	if err != nil {
		return zero, err
	}
	if uid <= 0 {
		return zero, &apierrors.UnauthenticatedError{}
	}

	return fn(ctx, uid)
}
