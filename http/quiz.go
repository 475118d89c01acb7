package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/contract"
)

// QuizService is what the quiz routes need from the domain.
type QuizService interface {
	Create(ctx context.Context, author string, in quizhall.CreateQuiz) (quizhall.Quiz, error)
	Get(ctx context.Context, id uuid.UUID) (quizhall.Quiz, error)
	List(ctx context.Context, q quizhall.ListQuery) (quizhall.ListResult[quizhall.QuizView], error)
	Delete(ctx context.Context, requester string, id uuid.UUID) error
	Submit(ctx context.Context, username string, id uuid.UUID, sub quizhall.Submission) (quizhall.QuizResult, error)
}

// QuizHandler serves the quiz API. Its routes expect BasicAuth in front.
type QuizHandler struct {
	service QuizService
	auth    Filter
}

// NewQuizHandler creates a QuizHandler whose group is guarded by auth.
func NewQuizHandler(service QuizService, auth Filter) *QuizHandler {
	return &QuizHandler{service: service, auth: auth}
}

// Group returns the quiz API as a route group named "quiz".
func (h *QuizHandler) Group() contract.Group {
	return contract.Group{
		Name:        "quiz",
		Title:       "Quiz API",
		Version:     "1.0",
		Description: "Create quizzes and take them. Every route requires basic auth.",
		Security:    "basic",
		Filter:      Middleware(h.auth),
		Routes: []contract.Route{
			{
				Method:   http.MethodPost,
				Path:     "/quiz",
				ID:       "createQuiz",
				Summary:  "Create a quiz authored by the caller",
				Tags:     []string{"quiz"},
				Request:  quizhall.CreateQuiz{},
				Response: quizhall.Quiz{},
				Status:   http.StatusCreated,
				Errors:   []int{http.StatusBadRequest, http.StatusForbidden},
				Handler:  HandlerFunc(h.handleCreate),
			},
			{
				Method:   http.MethodGet,
				Path:     "/quiz",
				ID:       "listQuizzes",
				Summary:  "List quizzes",
				Tags:     []string{"quiz"},
				Params:   listParams,
				Response: quizhall.ListResult[quizhall.QuizView]{},
				Errors:   []int{http.StatusBadRequest},
				Handler:  HandlerFunc(h.handleList),
			},
			{
				Method:   http.MethodGet,
				Path:     "/quiz/{id}",
				ID:       "getQuiz",
				Summary:  "Get a quiz without its answers",
				Tags:     []string{"quiz"},
				Params:   idParam,
				Response: quizhall.QuizView{},
				Errors:   []int{http.StatusBadRequest, http.StatusNotFound},
				Handler:  HandlerFunc(h.handleGet),
			},
			{
				Method:  http.MethodDelete,
				Path:    "/quiz/{id}",
				ID:      "deleteQuiz",
				Summary: "Delete a quiz; only its author may",
				Tags:    []string{"quiz"},
				Params:  idParam,
				Status:  http.StatusNoContent,
				Errors:  []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
				Handler: HandlerFunc(h.handleDelete),
			},
			{
				Method:   http.MethodPost,
				Path:     "/quiz/{id}/answers",
				ID:       "submitAnswers",
				Summary:  "Answer a quiz and get the score",
				Tags:     []string{"quiz"},
				Params:   idParam,
				Request:  quizhall.Submission{},
				Response: quizhall.QuizResult{},
				Errors:   []int{http.StatusBadRequest, http.StatusNotFound},
				Handler:  HandlerFunc(h.handleSubmit),
			},
		},
	}
}

func (h *QuizHandler) handleCreate(w http.ResponseWriter, r *http.Request) error {
	creds, err := MustCredentials(r.Context())
	if err != nil {
		return err
	}

	var in quizhall.CreateQuiz
	if err := DecodeJSON(w, r, &in); err != nil {
		return err
	}

	quiz, err := h.service.Create(r.Context(), creds.User, in)
	if err != nil {
		return respondError(w, err)
	}

	_ = WriteJSON(w, http.StatusCreated, quiz)
	return nil
}

func (h *QuizHandler) handleList(w http.ResponseWriter, r *http.Request) error {
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

func (h *QuizHandler) handleGet(w http.ResponseWriter, r *http.Request) error {
	id, err := PathUUID(r, "id")
	if err != nil {
		return err
	}

	quiz, err := h.service.Get(r.Context(), id)
	if err != nil {
		return respondError(w, err)
	}

	_ = WriteJSON(w, http.StatusOK, quiz.View())
	return nil
}

func (h *QuizHandler) handleDelete(w http.ResponseWriter, r *http.Request) error {
	creds, err := MustCredentials(r.Context())
	if err != nil {
		return err
	}

	id, err := PathUUID(r, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(r.Context(), creds.User, id); err != nil {
		return respondError(w, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *QuizHandler) handleSubmit(w http.ResponseWriter, r *http.Request) error {
	creds, err := MustCredentials(r.Context())
	if err != nil {
		return err
	}

	id, err := PathUUID(r, "id")
	if err != nil {
		return err
	}

	var sub quizhall.Submission
	if err := DecodeJSON(w, r, &sub); err != nil {
		return err
	}

	result, err := h.service.Submit(r.Context(), creds.User, id, sub)
	if err != nil {
		return respondError(w, err)
	}

	_ = WriteJSON(w, http.StatusOK, result)
	return nil
}
