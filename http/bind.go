package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sagarc03/quizhall"
)

const (
	// MaxBodyBytes caps the size of JSON request bodies.
	MaxBodyBytes = 1 << 20

	// DefaultListLimit and MaxListLimit bound the page size of list endpoints.
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// DecodeJSON reads a single JSON value from the request body into dst and
// validates it. Every problem with the input is reported as a *BindingError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return &BindingError{Cause: "request body is required"}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return &BindingError{Cause: decodeCause(err), Err: err}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &BindingError{Cause: "request body must contain a single JSON value"}
	}

	return Validate(dst)
}

func decodeCause(err error) string {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is truncated JSON"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return fmt.Sprintf("request body must be %s", jsonKind(typeErr.Type))
		}
		return fmt.Sprintf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "malformed JSON"
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

// Validate runs the struct's validate tags and, when it has one, its own
// Validate method.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &BindingError{Cause: fieldMessage(fieldErrs[0]), Err: err}
		}
		return fmt.Errorf("validate: %w", err)
	}

	if self, ok := v.(interface{ Validate() error }); ok {
		if err := self.Validate(); err != nil {
			return &BindingError{Cause: inputCause(err), Err: err}
		}
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "alphanum":
		return field + " must contain only letters and digits"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

// PathUUID parses the named chi URL parameter as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &BindingError{Cause: fmt.Sprintf("%s must be a UUID", name), Err: err}
	}
	return id, nil
}

// ListQueryFrom reads limit and offset from the query string. A missing
// limit means 100; larger than 1000 is capped.
func ListQueryFrom(r *http.Request) (quizhall.ListQuery, error) {
	q := quizhall.ListQuery{Limit: DefaultListLimit}
	values := r.URL.Query()

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return quizhall.ListQuery{}, &BindingError{Cause: "limit must be a positive integer", Err: err}
		}
		q.Limit = min(MaxListLimit, limit)
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return quizhall.ListQuery{}, &BindingError{Cause: "offset must be a non-negative integer", Err: err}
		}
		q.Offset = offset
	}

	return q, nil
}
