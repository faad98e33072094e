package odoo

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// contextTransport binds every outgoing request to one operation's context.
// The XML-RPC codec builds its own requests without a context, so cancellation
// and deadlines are attached here.
type contextTransport struct {
	ctx       context.Context
	base      http.RoundTripper
	userAgent string
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.WithContext(t.ctx)
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// newHTTPTransport creates the shared transport for XML-RPC traffic, instrumented with otelhttp
func newHTTPTransport() http.RoundTripper {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return otelhttp.NewTransport(transport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "odoo.http " + r.URL.Path
		}),
	)
}
