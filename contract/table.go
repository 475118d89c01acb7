package contract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Description is a rendered API description of one group.
type Description struct {
	JSON []byte
	YAML []byte
}

// Endpoint identifies a mounted route.
type Endpoint struct {
	Group  string
	Method string
	Path   string
}

// Table is the composed routing table. It is immutable once Compose returns.
// Each group gets its own router; routers are tried in the order the groups
// were given, the documentation router last, and the first match serves.
type Table struct {
	routers      []*chi.Mux
	groups       []string
	endpoints    []Endpoint
	descriptions map[string]Description
}

// Compose mounts every group's routes and the documentation routes on a
// single table. It fails with ErrRouteConflict when two routes share a
// method and path, including the documentation routes and docs.Reserved.
func Compose(groups []Group, docs Docs) (*Table, error) {
	docs = docs.withDefaults()

	reg := &registry{owners: make(map[string]string)}
	seen := make(map[string]bool, len(groups))
	t := &Table{
		descriptions: make(map[string]Description, len(groups)),
	}

	for _, g := range groups {
		if err := validateGroup(g, seen); err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
		for _, route := range g.Routes {
			if err := reg.claim(g.Name, route.Method, route.Path); err != nil {
				return nil, fmt.Errorf("compose: %w", err)
			}
			t.endpoints = append(t.endpoints, Endpoint{Group: g.Name, Method: route.Method, Path: route.Path})
		}
		t.groups = append(t.groups, g.Name)
	}

	for _, p := range docs.Reserved {
		if err := reg.claim("reserved", http.MethodGet, p); err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
	}

	docPaths := []string{docs.Path}
	for _, name := range t.groups {
		docPaths = append(docPaths, docs.descriptionPath(name, "json"), docs.descriptionPath(name, "yaml"))
	}
	for _, p := range docPaths {
		if err := reg.claim("docs", http.MethodGet, p); err != nil {
			return nil, fmt.Errorf("compose: %w", err)
		}
	}

	for _, g := range groups {
		desc, err := describe(g)
		if err != nil {
			return nil, fmt.Errorf("compose: describe %s: %w", g.Name, err)
		}
		t.descriptions[g.Name] = desc
	}

	page, err := renderPage(docs, t.groups)
	if err != nil {
		return nil, fmt.Errorf("compose: render docs page: %w", err)
	}

	for _, g := range groups {
		mux := chi.NewRouter()
		for _, route := range g.Routes {
			h := route.Handler
			if g.Filter != nil {
				h = g.Filter(h)
			}
			mux.Method(route.Method, route.Path, h)
		}
		t.routers = append(t.routers, mux)
	}

	docsMux := chi.NewRouter()
	docsMux.Get(docs.Path, serveBytes("text/html; charset=utf-8", page))
	for _, name := range t.groups {
		desc := t.descriptions[name]
		docsMux.Get(docs.descriptionPath(name, "json"), serveBytes("application/json", desc.JSON))
		docsMux.Get(docs.descriptionPath(name, "yaml"), serveBytes("application/yaml", desc.YAML))
	}
	t.routers = append(t.routers, docsMux)

	return t, nil
}

func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := routePath(r)

	for _, mux := range t.routers {
		if mux.Match(chi.NewRouteContext(), r.Method, path) {
			mux.ServeHTTP(w, r)
			return
		}
	}

	for _, mux := range t.routers {
		for _, m := range methods {
			if mux.Match(chi.NewRouteContext(), m, path) {
				writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
		}
	}

	writeMessage(w, http.StatusNotFound, "not found")
}

// routePath is the path chi routes on, relative to any router the table is
// mounted under.
func routePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// Description returns the rendered description of the named group.
func (t *Table) Description(name string) (Description, bool) {
	d, ok := t.descriptions[name]
	return d, ok
}

// Groups returns the group names in the order they were composed.
func (t *Table) Groups() []string {
	return append([]string(nil), t.groups...)
}

// Endpoints returns every mounted group route, documentation routes excluded.
func (t *Table) Endpoints() []Endpoint {
	return append([]Endpoint(nil), t.endpoints...)
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			slog.Debug("failed to write response", "path", r.URL.Path, "error", err)
		}
	}
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
