package contract_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sagarc03/quizhall/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type widget struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" jsonschema:"display name"`
	CreatedAt time.Time `json:"created_at"`
}

type createWidget struct {
	Name string `json:"name"`
}

func ok(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func widgetGroup() contract.Group {
	return contract.Group{
		Name:    "widget",
		Title:   "Widgets",
		Version: "1.0",
		Routes: []contract.Route{
			{
				Method:   http.MethodPost,
				Path:     "/widget",
				ID:       "createWidget",
				Request:  createWidget{},
				Response: widget{},
				Status:   http.StatusCreated,
				Errors:   []int{http.StatusBadRequest},
				Handler:  ok("created"),
			},
			{
				Method:   http.MethodGet,
				Path:     "/widget/{id}",
				Response: widget{},
				Errors:   []int{http.StatusNotFound},
				Handler:  ok("widget"),
			},
		},
	}
}

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestCompose_Conflicts(t *testing.T) {
	tests := []struct {
		name   string
		groups []contract.Group
	}{
		{
			name: "same route in two groups",
			groups: []contract.Group{
				widgetGroup(),
				{Name: "other", Routes: []contract.Route{
					{Method: http.MethodPost, Path: "/widget", Handler: ok("")},
				}},
			},
		},
		{
			name: "parameter names differ",
			groups: []contract.Group{
				widgetGroup(),
				{Name: "other", Routes: []contract.Route{
					{Method: http.MethodGet, Path: "/widget/{widgetID}", Handler: ok("")},
				}},
			},
		},
		{
			name: "same route twice in one group",
			groups: []contract.Group{
				{Name: "dup", Routes: []contract.Route{
					{Method: http.MethodGet, Path: "/a", Handler: ok("")},
					{Method: http.MethodGet, Path: "/a", Handler: ok("")},
				}},
			},
		},
		{
			name: "collides with docs page",
			groups: []contract.Group{
				{Name: "docs", Routes: []contract.Route{
					{Method: http.MethodGet, Path: "/spec", Handler: ok("")},
				}},
			},
		},
		{
			name: "collides with a description",
			groups: []contract.Group{
				widgetGroup(),
				{Name: "sneaky", Routes: []contract.Route{
					{Method: http.MethodGet, Path: "/spec/widget.json", Handler: ok("")},
				}},
			},
		},
		{
			name:   "group declared twice",
			groups: []contract.Group{widgetGroup(), widgetGroup()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contract.Compose(tt.groups, contract.Docs{})
			assert.ErrorIs(t, err, contract.ErrRouteConflict)
		})
	}
}

func TestCompose_NoConflictForDifferentMethods(t *testing.T) {
	group := contract.Group{Name: "w", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/w/{id}", Handler: ok("get")},
		{Method: http.MethodDelete, Path: "/w/{id}", Handler: ok("delete")},
	}}

	table, err := contract.Compose([]contract.Group{group}, contract.Docs{})
	require.NoError(t, err)
	assert.Len(t, table.Endpoints(), 2)
}

func TestCompose_InvalidRoutes(t *testing.T) {
	tests := []struct {
		name  string
		group contract.Group
	}{
		{"bad group name", contract.Group{Name: "Bad Name"}},
		{"bad method", contract.Group{Name: "g", Routes: []contract.Route{{Method: "FETCH", Path: "/x", Handler: ok("")}}}},
		{"relative path", contract.Group{Name: "g", Routes: []contract.Route{{Method: http.MethodGet, Path: "x", Handler: ok("")}}}},
		{"no handler", contract.Group{Name: "g", Routes: []contract.Route{{Method: http.MethodGet, Path: "/x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contract.Compose([]contract.Group{tt.group}, contract.Docs{})
			assert.ErrorIs(t, err, contract.ErrInvalidRoute)
		})
	}
}

func TestTable_Dispatch(t *testing.T) {
	secured := contract.Group{
		Name:     "secret",
		Security: "basic",
		Filter:   denyAll,
		Routes: []contract.Route{
			{Method: http.MethodGet, Path: "/secret", Handler: ok("secret")},
		},
	}

	table, err := contract.Compose([]contract.Group{widgetGroup(), secured}, contract.Docs{})
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"route", http.MethodGet, "/widget/" + uuid.NewString(), http.StatusOK, "widget"},
		{"filtered route", http.MethodGet, "/secret", http.StatusUnauthorized, ""},
		{"description outside filter", http.MethodGet, "/spec/secret.json", http.StatusOK, ""},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound, `{"message":"not found"}` + "\n"},
		{"wrong method", http.MethodPut, "/widget", http.StatusMethodNotAllowed, `{"message":"method not allowed"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			table.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCompose_ReservedPaths(t *testing.T) {
	group := contract.Group{Name: "stats", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/metrics", Handler: ok("")},
	}}

	_, err := contract.Compose([]contract.Group{group}, contract.Docs{Reserved: []string{"/metrics"}})
	assert.ErrorIs(t, err, contract.ErrRouteConflict)

	_, err = contract.Compose([]contract.Group{group}, contract.Docs{})
	assert.NoError(t, err)
}

func TestTable_DispatchOrder(t *testing.T) {
	param := contract.Group{Name: "param", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/a/{id}", Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("param:" + chi.URLParam(r, "id")))
		})},
	}}
	static := contract.Group{Name: "static", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/a/x", Handler: ok("static")},
		{Method: http.MethodPost, Path: "/b", Handler: ok("b")},
	}}
	files := contract.Group{Name: "files", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/spec/{file}", Handler: ok("file")},
	}}

	tests := []struct {
		name       string
		groups     []contract.Group
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"first group wins", []contract.Group{param, static}, http.MethodGet, "/a/x", http.StatusOK, "param:x"},
		{"order reversed", []contract.Group{static, param}, http.MethodGet, "/a/x", http.StatusOK, "static"},
		{"falls through to later group", []contract.Group{param, static}, http.MethodPost, "/b", http.StatusOK, "b"},
		{"method only in later group", []contract.Group{param, static}, http.MethodGet, "/b", http.StatusMethodNotAllowed, `{"message":"method not allowed"}` + "\n"},
		{"docs tried last", []contract.Group{files}, http.MethodGet, "/spec/files.json", http.StatusOK, "file"},
		{"docs page still served", []contract.Group{files}, http.MethodGet, "/spec", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := contract.Compose(tt.groups, contract.Docs{})
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			table.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestTable_MountedUnderRouter(t *testing.T) {
	group := contract.Group{Name: "param", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/a/{id}", Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(chi.URLParam(r, "id")))
		})},
	}}
	table, err := contract.Compose([]contract.Group{group}, contract.Docs{})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("metrics")) })
	r.Mount("/", table)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTable_DescriptionsAreStable(t *testing.T) {
	table, err := contract.Compose([]contract.Group{widgetGroup()}, contract.Docs{})
	require.NoError(t, err)

	fetch := func(path string) []byte {
		rec := httptest.NewRecorder()
		table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.Bytes()
	}

	assert.Equal(t, fetch("/spec/widget.json"), fetch("/spec/widget.json"))
	assert.Equal(t, fetch("/spec/widget.yaml"), fetch("/spec/widget.yaml"))

	desc, ok := table.Description("widget")
	require.True(t, ok)
	assert.Equal(t, desc.JSON, fetch("/spec/widget.json"))

	again, err := contract.Compose([]contract.Group{widgetGroup()}, contract.Docs{})
	require.NoError(t, err)
	other, _ := again.Description("widget")
	assert.Equal(t, desc.JSON, other.JSON, "rendering must be deterministic")
}

func TestDescription_Content(t *testing.T) {
	secured := widgetGroup()
	secured.Security = "basic"

	table, err := contract.Compose([]contract.Group{secured}, contract.Docs{})
	require.NoError(t, err)

	desc, _ := table.Description("widget")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(desc.JSON, &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])

	paths := doc["paths"].(map[string]any)
	require.Contains(t, paths, "/widget")
	require.Contains(t, paths, "/widget/{id}")

	create := paths["/widget"].(map[string]any)["post"].(map[string]any)
	assert.Equal(t, "createWidget", create["operationId"])
	responses := create["responses"].(map[string]any)
	assert.Contains(t, responses, "201")
	assert.Contains(t, responses, "400")
	assert.Contains(t, responses, "401", "secured groups document the challenge")

	get := paths["/widget/{id}"].(map[string]any)["get"].(map[string]any)
	params := get["parameters"].([]any)
	require.Len(t, params, 1)
	assert.Equal(t, "id", params[0].(map[string]any)["name"])
	assert.Equal(t, true, params[0].(map[string]any)["required"])

	schema := get["responses"].(map[string]any)["200"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	props := schema["properties"].(map[string]any)
	assert.Equal(t, "uuid", props["id"].(map[string]any)["format"])
	assert.Equal(t, "display name", props["name"].(map[string]any)["description"])

	schemes := doc["components"].(map[string]any)["securitySchemes"].(map[string]any)
	assert.Contains(t, schemes, "basicAuth")

	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(desc.YAML, &fromYAML))
	assert.Equal(t, "3.1.0", fromYAML["openapi"], "version stays a string")
	assert.Contains(t, fromYAML["paths"], "/widget/{id}")
	assert.Contains(t, fromYAML["paths"].(map[string]any)["/widget"].(map[string]any)["post"].(map[string]any)["responses"], "201")
}

func TestDocsPage(t *testing.T) {
	other := contract.Group{Name: "gadget", Routes: []contract.Route{
		{Method: http.MethodGet, Path: "/gadget", Handler: ok("")},
	}}

	table, err := contract.Compose([]contract.Group{widgetGroup(), other}, contract.Docs{Title: "Things"})
	require.NoError(t, err)
	assert.Equal(t, []string{"widget", "gadget"}, table.Groups())

	rec := httptest.NewRecorder()
	table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/spec", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Things</title>")
	assert.Contains(t, body, `href="/spec/widget.json"`)
	assert.Contains(t, body, `href="/spec/gadget.json"`)
}

func TestDocs_CustomPath(t *testing.T) {
	table, err := contract.Compose([]contract.Group{widgetGroup()}, contract.Docs{Path: "docs/"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	table.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/widget.yaml", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
}
