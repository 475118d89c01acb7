package http

import "net/http"

// Filter intercepts a request before it reaches next. A filter may answer
// the request itself and not call next at all.
type Filter interface {
	Handle(w http.ResponseWriter, r *http.Request, next http.Handler)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(w http.ResponseWriter, r *http.Request, next http.Handler)

func (f FilterFunc) Handle(w http.ResponseWriter, r *http.Request, next http.Handler) {
	f(w, r, next)
}

// Chain wraps h with filters. The first filter is the outermost and sees
// the request first.
func Chain(h http.Handler, filters ...Filter) http.Handler {
	for i := len(filters) - 1; i >= 0; i-- {
		h = wrap(filters[i], h)
	}
	return h
}

// Middleware turns a filter into chi style middleware.
func Middleware(f Filter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return wrap(f, next)
	}
}

func wrap(f Filter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.Handle(w, r, next)
	})
}
