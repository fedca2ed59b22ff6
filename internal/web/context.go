package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/dxcodes/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for the audit trail.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // Already processed by middleware.TrustedRealIP
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

// clientIP returns the client address without its port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
