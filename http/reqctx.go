package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID back to the client.
const RequestIDHeader = "X-Request-Id"

// RequestContext is the per-request scratch space shared by the filters and
// the handler of a single request. It is only reachable through that
// request's context and is never shared between requests.
type RequestContext struct {
	ID uuid.UUID

	credentials *Credentials
	failure     error
	catching    bool
}

func newRequestContext() *RequestContext {
	return &RequestContext{ID: uuid.New()}
}

// Fail records err as the outcome of the request.
func (rc *RequestContext) Fail(err error) {
	rc.failure = err
}

// Failure returns the error recorded by Fail, if any.
func (rc *RequestContext) Failure() error {
	return rc.failure
}

func (rc *RequestContext) reset() {
	rc.credentials = nil
	rc.failure = nil
	rc.catching = false
}

type requestContextKey struct{}

// WithRequestContext returns a copy of ctx carrying rc.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the RequestContext attached to ctx, or nil when
// the request did not pass through InitRequestContext.
func RequestContextFrom(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}

// InitRequestContext attaches a fresh RequestContext to every request and
// clears it once the rest of the chain has returned, panics included.
func InitRequestContext() Filter {
	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		rc := newRequestContext()
		defer rc.reset()

		w.Header().Set(RequestIDHeader, rc.ID.String())
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}

// ensureRequestContext returns the request's RequestContext, attaching a new
// one when the request bypassed InitRequestContext. The returned release
// func must be called once the request is done.
func ensureRequestContext(r *http.Request) (*http.Request, *RequestContext, func()) {
	if rc := RequestContextFrom(r.Context()); rc != nil {
		return r, rc, func() {}
	}
	rc := newRequestContext()
	return r.WithContext(WithRequestContext(r.Context(), rc)), rc, rc.reset
}
