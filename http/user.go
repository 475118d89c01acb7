package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/contract"
)

// UserService is what the user routes need from the domain.
type UserService interface {
	Create(ctx context.Context, in quizhall.CreateUser) (quizhall.User, error)
	Get(ctx context.Context, id uuid.UUID) (quizhall.User, error)
	List(ctx context.Context, q quizhall.ListQuery) (quizhall.ListResult[quizhall.User], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler serves the unauthenticated user API.
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

var listParams = []contract.Param{
	{Name: "limit", In: "query", Type: "integer", Description: "page size, 100 by default, at most 1000"},
	{Name: "offset", In: "query", Type: "integer", Description: "number of items to skip"},
}

var idParam = []contract.Param{
	{Name: "id", In: "path", Format: "uuid"},
}

// Group returns the user API as a route group named "user".
func (h *UserHandler) Group() contract.Group {
	return contract.Group{
		Name:        "user",
		Title:       "User API",
		Version:     "1.0",
		Description: "Register and manage quizhall users.",
		Routes: []contract.Route{
			{
				Method:   http.MethodPost,
				Path:     "/user",
				ID:       "createUser",
				Summary:  "Register a user",
				Tags:     []string{"user"},
				Request:  quizhall.CreateUser{},
				Response: quizhall.User{},
				Status:   http.StatusCreated,
				Errors:   []int{http.StatusBadRequest, http.StatusConflict},
				Handler:  HandlerFunc(h.handleCreate),
			},
			{
				Method:   http.MethodGet,
				Path:     "/user",
				ID:       "listUsers",
				Summary:  "List users",
				Tags:     []string{"user"},
				Params:   listParams,
				Response: quizhall.ListResult[quizhall.User]{},
				Errors:   []int{http.StatusBadRequest},
				Handler:  HandlerFunc(h.handleList),
			},
			{
				Method:   http.MethodGet,
				Path:     "/user/{id}",
				ID:       "getUser",
				Summary:  "Get a user",
				Tags:     []string{"user"},
				Params:   idParam,
				Response: quizhall.User{},
				Errors:   []int{http.StatusBadRequest, http.StatusNotFound},
				Handler:  HandlerFunc(h.handleGet),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/user/{id}",
				ID:      "deleteUser",
				Summary: "Delete a user",
				Tags:    []string{"user"},
				Params:  idParam,
				Status:  http.StatusNoContent,
				Errors:  []int{http.StatusBadRequest, http.StatusNotFound},
				Handler: HandlerFunc(h.handleDelete),
			},
		},
	}
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var in quizhall.CreateUser
	if err := DecodeJSON(w, r, &in); err != nil {
		return err
	}

	user, err := h.service.Create(r.Context(), in)
	if err != nil {
		return respondError(w, err)
	}

	_ = WriteJSON(w, http.StatusCreated, user)
	return nil
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) error {
	query, err := ListQueryFrom(r)
	if err != nil {
		return err
	}

	result, err := h.service.List(r.Context(), query)
	if err != nil {
		return respondError(w, err)
	}

	_ = WriteJSON(w, http.StatusOK, result)
	return nil
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) error {
	id, err := PathUUID(r, "id")
	if err != nil {
		return err
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		return respondError(w, err)
	}

	_ = WriteJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) error {
	id, err := PathUUID(r, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		return respondError(w, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
