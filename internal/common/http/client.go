// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

type requestIDKey struct{}

// WithRequestID stores id so outbound calls made with ctx carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewClient returns the client shared by the model SDKs. Every outbound
// request is tagged with the inbound request ID when one is present.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &requestIDTransport{next: http.DefaultTransport},
	}
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if id := RequestIDFrom(req.Context()); id != "" && req.Header.Get("X-Request-ID") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-ID", id)
	}
	return t.next.RoundTrip(req)
}
