package contract

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrRouteConflict is returned by Compose when two routes share a
	// method and path.
	ErrRouteConflict = errors.New("route conflict")
	// ErrInvalidRoute is returned by Compose for routes or groups it cannot mount.
	ErrInvalidRoute = errors.New("invalid route")
)

// Param documents a path or query parameter. Path parameters found in a
// route's path are documented as strings unless declared here.
type Param struct {
	Name        string
	In          string // "path" or "query"
	Description string
	Type        string // JSON schema type, "string" when empty
	Format      string
	Required    bool
}

// Route binds a method and path to a handler, along with what is needed to
// describe it.
type Route struct {
	Method      string
	Path        string
	ID          string
	Summary     string
	Description string
	Tags        []string
	Params      []Param

	// Request and Response are zero values of the body types; nil means no
	// body. Their schemas are inferred from the Go types.
	Request  any
	Response any

	// Status is the success status, 200 when zero.
	Status int
	// Errors lists statuses answered with the JSON error envelope.
	Errors []int

	Handler http.Handler
}

// Group is a set of routes described by a single API description.
type Group struct {
	// Name is used as the description path: /spec/<name>.json.
	Name        string
	Title       string
	Version     string
	Description string

	// Security names the HTTP auth scheme the filter enforces, e.g. "basic".
	// It only affects the description.
	Security string

	// Filter wraps each of the group's routes. The group's description is
	// served without it.
	Filter func(http.Handler) http.Handler

	Routes []Route
}

// Docs configures the documentation routes.
type Docs struct {
	// Path of the documentation page, "/spec" when empty. Descriptions are
	// served below it.
	Path  string
	Title string

	// Reserved lists GET paths served outside the table, such as /metrics.
	// A group route on one of them is a conflict.
	Reserved []string
}

func (d Docs) withDefaults() Docs {
	if d.Path == "" {
		d.Path = "/spec"
	}
	d.Path = "/" + strings.Trim(d.Path, "/")
	if d.Title == "" {
		d.Title = "API documentation"
	}
	return d
}

func (d Docs) descriptionPath(name, ext string) string {
	return d.Path + "/" + name + "." + ext
}

var (
	groupNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	pathParamRegex = regexp.MustCompile(`\{([^}:]+)(:[^}]*)?\}`)
)

var methods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// normalizePath makes paths that differ only in parameter names compare
// equal, so /quiz/{id} and /quiz/{quizID} conflict.
func normalizePath(path string) string {
	return pathParamRegex.ReplaceAllString(path, "{}")
}

// pathParams returns the parameter names in path, in order.
func pathParams(path string) []string {
	matches := pathParamRegex.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

type registry struct {
	owners map[string]string
}

func (r *registry) claim(owner, method, path string) error {
	key := method + " " + normalizePath(path)
	if prev, ok := r.owners[key]; ok {
		return fmt.Errorf("%s %s in %s overlaps %s: %w", method, path, owner, prev, ErrRouteConflict)
	}
	r.owners[key] = owner
	return nil
}

func validateGroup(g Group, seen map[string]bool) error {
	if !groupNameRegex.MatchString(g.Name) {
		return fmt.Errorf("group name %q must match %s: %w", g.Name, groupNameRegex, ErrInvalidRoute)
	}
	if seen[g.Name] {
		return fmt.Errorf("group %s declared twice: %w", g.Name, ErrRouteConflict)
	}
	seen[g.Name] = true

	for _, route := range g.Routes {
		if !slices.Contains(methods, route.Method) {
			return fmt.Errorf("group %s: method %q: %w", g.Name, route.Method, ErrInvalidRoute)
		}
		if !strings.HasPrefix(route.Path, "/") {
			return fmt.Errorf("group %s: path %q must start with /: %w", g.Name, route.Path, ErrInvalidRoute)
		}
		if route.Handler == nil {
			return fmt.Errorf("group %s: %s %s has no handler: %w", g.Name, route.Method, route.Path, ErrInvalidRoute)
		}
	}
	return nil
}
