package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const openAPIVersion = "3.1.0"

const errorSchemaRef = "#/components/schemas/Error"

type document struct {
	OpenAPI    string                          `json:"openapi"`
	Info       info                            `json:"info"`
	Paths      map[string]map[string]operation `json:"paths"`
	Components components                      `json:"components"`
	Security   []map[string][]string           `json:"security,omitempty"`
}

type info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type operation struct {
	OperationID string              `json:"operationId,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []parameter         `json:"parameters,omitempty"`
	RequestBody *requestBody        `json:"requestBody,omitempty"`
	Responses   map[string]response `json:"responses"`
}

type parameter struct {
	Name        string             `json:"name"`
	In          string             `json:"in"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Schema      *jsonschema.Schema `json:"schema"`
}

type requestBody struct {
	Required bool                 `json:"required"`
	Content  map[string]mediaType `json:"content"`
}

type response struct {
	Description string               `json:"description"`
	Content     map[string]mediaType `json:"content,omitempty"`
}

type mediaType struct {
	Schema *jsonschema.Schema `json:"schema"`
}

type securityScheme struct {
	Type   string `json:"type"`
	Scheme string `json:"scheme"`
}

type components struct {
	Schemas         map[string]*jsonschema.Schema `json:"schemas"`
	SecuritySchemes map[string]securityScheme     `json:"securitySchemes,omitempty"`
}

var schemaOptions = &jsonschema.ForOptions{
	TypeSchemas: map[reflect.Type]*jsonschema.Schema{
		reflect.TypeFor[uuid.UUID](): {Type: "string", Format: "uuid"},
	},
}

func schemaFor(v any) (*jsonschema.Schema, error) {
	return jsonschema.ForType(reflect.TypeOf(v), schemaOptions)
}

func jsonContent(s *jsonschema.Schema) map[string]mediaType {
	return map[string]mediaType{"application/json": {Schema: s}}
}

// describe renders the OpenAPI description of g as JSON and YAML.
func describe(g Group) (Description, error) {
	doc := document{
		OpenAPI: openAPIVersion,
		Info: info{
			Title:       g.Title,
			Version:     g.Version,
			Description: g.Description,
		},
		Paths: make(map[string]map[string]operation),
		Components: components{
			Schemas: map[string]*jsonschema.Schema{
				"Error": {
					Type:       "object",
					Properties: map[string]*jsonschema.Schema{"message": {Type: "string"}},
					Required:   []string{"message"},
				},
			},
		},
	}
	if doc.Info.Title == "" {
		doc.Info.Title = g.Name
	}
	if doc.Info.Version == "" {
		doc.Info.Version = "1.0"
	}

	if g.Security != "" {
		name := g.Security + "Auth"
		doc.Components.SecuritySchemes = map[string]securityScheme{
			name: {Type: "http", Scheme: g.Security},
		}
		doc.Security = []map[string][]string{{name: {}}}
	}

	for _, route := range g.Routes {
		op, err := describeRoute(route, g.Security != "")
		if err != nil {
			return Description{}, fmt.Errorf("%s %s: %w", route.Method, route.Path, err)
		}
		item, ok := doc.Paths[route.Path]
		if !ok {
			item = make(map[string]operation)
			doc.Paths[route.Path] = item
		}
		item[strings.ToLower(route.Method)] = op
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Description{}, fmt.Errorf("marshal json: %w", err)
	}

	yamlBytes, err := toYAML(jsonBytes)
	if err != nil {
		return Description{}, fmt.Errorf("marshal yaml: %w", err)
	}

	return Description{JSON: jsonBytes, YAML: yamlBytes}, nil
}

func describeRoute(route Route, secured bool) (operation, error) {
	op := operation{
		OperationID: route.ID,
		Summary:     route.Summary,
		Description: route.Description,
		Tags:        route.Tags,
		Responses:   make(map[string]response),
	}

	declared := make(map[string]bool, len(route.Params))
	for _, p := range route.Params {
		declared[p.In+":"+p.Name] = true
		op.Parameters = append(op.Parameters, describeParam(p))
	}
	for _, name := range pathParams(route.Path) {
		if !declared["path:"+name] {
			op.Parameters = append(op.Parameters, describeParam(Param{Name: name, In: "path"}))
		}
	}

	if route.Request != nil {
		s, err := schemaFor(route.Request)
		if err != nil {
			return operation{}, fmt.Errorf("request schema: %w", err)
		}
		op.RequestBody = &requestBody{Required: true, Content: jsonContent(s)}
	}

	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	success := response{Description: http.StatusText(status)}
	if route.Response != nil {
		s, err := schemaFor(route.Response)
		if err != nil {
			return operation{}, fmt.Errorf("response schema: %w", err)
		}
		success.Content = jsonContent(s)
	}
	op.Responses[strconv.Itoa(status)] = success

	for _, code := range route.Errors {
		op.Responses[strconv.Itoa(code)] = response{
			Description: http.StatusText(code),
			Content:     jsonContent(&jsonschema.Schema{Ref: errorSchemaRef}),
		}
	}
	if secured {
		op.Responses[strconv.Itoa(http.StatusUnauthorized)] = response{
			Description: "missing or invalid credentials",
		}
	}

	return op, nil
}

func describeParam(p Param) parameter {
	typ := p.Type
	if typ == "" {
		typ = "string"
	}
	return parameter{
		Name:        p.Name,
		In:          p.In,
		Description: p.Description,
		Required:    p.Required || p.In == "path",
		Schema:      &jsonschema.Schema{Type: typ, Format: p.Format},
	}
}

// toYAML re-encodes a JSON document as block style YAML, keeping key order.
func toYAML(jsonBytes []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(jsonBytes, &node); err != nil {
		return nil, err
	}
	plainStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plainStyle drops the flow and quoting styles the JSON parser recorded.
// The encoder still quotes scalars that would otherwise change type.
func plainStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		plainStyle(child)
	}
}
