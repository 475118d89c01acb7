package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sagarc03/quizhall"
)

// BindingError reports a request that could not be bound to the input a
// handler expects. Cause is shown to the client.
type BindingError struct {
	Cause string
	Err   error
}

func (e *BindingError) Error() string {
	if e.Cause == "" {
		return "binding failed"
	}
	return "binding failed: " + e.Cause
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// HandlerFunc is a handler that may fail. A returned error is recorded on
// the RequestContext and answered by CatchBindingFailure. Outside such a
// pipeline the error is answered directly.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}

	if rc := RequestContextFrom(r.Context()); rc != nil && rc.catching {
		rc.Fail(err)
		return
	}
	writeFailure(w, r, err)
}

// CatchBindingFailure answers failures recorded by handlers further down the
// chain: a *BindingError becomes 400 {"message": cause}, anything else a
// plain 500.
func CatchBindingFailure() Filter {
	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		r, rc, release := ensureRequestContext(r)
		defer release()

		rc.catching = true
		next.ServeHTTP(w, r)

		if err := rc.Failure(); err != nil {
			writeFailure(w, r, err)
		}
	})
}

func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var bindErr *BindingError
	if errors.As(err, &bindErr) {
		FailuresTotal.WithLabelValues("binding").Inc()
		slog.Debug("request binding failed", "path", r.URL.Path, "cause", bindErr.Cause)
		WriteError(w, http.StatusBadRequest, bindErr.Cause)
		return
	}

	FailuresTotal.WithLabelValues("internal").Inc()
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// respondError answers domain errors with the matching status. Errors it
// does not know are returned for CatchBindingFailure.
func respondError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, quizhall.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, quizhall.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, "already exists")
	case errors.Is(err, quizhall.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, quizhall.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, inputCause(err))
	default:
		return err
	}
	return nil
}

// inputCause returns the message of the error that wraps
// quizhall.ErrInvalidInput directly, without the callers' prefixes.
func inputCause(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if errors.Unwrap(e) == quizhall.ErrInvalidInput {
			return strings.TrimSuffix(e.Error(), ": "+quizhall.ErrInvalidInput.Error())
		}
	}
	return quizhall.ErrInvalidInput.Error()
}
