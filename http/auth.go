package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// UserDirectory decides whether a user and password pair is valid.
type UserDirectory interface {
	IsValidUser(ctx context.Context, username, password string) (bool, error)
}

const (
	reasonMissing   = "missing"
	reasonMalformed = "malformed"
	reasonInvalid   = "invalid"
	reasonLookup    = "lookup_error"
)

// BasicAuth only lets requests through whose basic auth credentials dir
// accepts. Every rejection is the same 401 with a WWW-Authenticate challenge
// for realm and an empty body; the next handler is not called.
//
// Credentials are bound on the request's RequestContext so the handler can
// read them with CredentialsFrom. When the request carries no
// RequestContext, one is attached for the duration of the call.
func BasicAuth(realm string, dir UserDirectory) Filter {
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	reject := func(w http.ResponseWriter, r *http.Request, reason string) {
		AuthRejectionsTotal.WithLabelValues(reason).Inc()
		slog.Warn("authentication failed",
			"reason", reason,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		w.Header().Set("WWW-Authenticate", challenge)
		w.WriteHeader(http.StatusUnauthorized)
	}

	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		r, _, release := ensureRequestContext(r)
		defer release()

		creds, err := BindCredentials(r)
		if err != nil {
			reason := reasonMalformed
			if errors.Is(err, ErrAuthHeaderMissing) {
				reason = reasonMissing
			}
			reject(w, r, reason)
			return
		}

		ok, err := dir.IsValidUser(r.Context(), creds.User, creds.Password)
		if err != nil {
			slog.Error("user lookup failed", "user", creds.User, "error", err)
			reject(w, r, reasonLookup)
			return
		}
		if !ok {
			reject(w, r, reasonInvalid)
			return
		}

		slog.Debug("authentication succeeded", "user", creds.User, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
