package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/quizhall"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize is the page size used when ListOptions.Limit is unset.
	DefaultPageSize = 100

	maxPageSize = 1000
)

// Client performs operations against a quizhall server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ListOptions configures a list operation.
type ListOptions struct {
	Limit  int
	Offset int
	All    bool // page through every result
}

func (o ListOptions) query() url.Values {
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, maxPageSize)

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	return q
}

// Signup registers a new user. It needs no credentials.
func (c *Client) Signup(ctx context.Context, in quizhall.CreateUser) (quizhall.User, error) {
	var user quizhall.User
	err := c.do(ctx, request{method: http.MethodPost, path: "/user", body: in, want: http.StatusCreated}, &user)
	if err != nil {
		return quizhall.User{}, fmt.Errorf("signup: %w", err)
	}
	return user, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (quizhall.User, error) {
	var user quizhall.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/" + id.String()}, &user); err != nil {
		return quizhall.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers lists users in creation order.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) ([]quizhall.User, error) {
	users, err := listAll[quizhall.User](ctx, c, "/user", false, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: "/user/" + id.String(), want: http.StatusNoContent}, nil)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CreateQuiz creates a quiz authored by the configured user.
func (c *Client) CreateQuiz(ctx context.Context, in quizhall.CreateQuiz) (quizhall.Quiz, error) {
	var quiz quizhall.Quiz
	err := c.do(ctx, request{method: http.MethodPost, path: "/quiz", auth: true, body: in, want: http.StatusCreated}, &quiz)
	if err != nil {
		return quizhall.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// GetQuiz fetches a quiz without its answers.
func (c *Client) GetQuiz(ctx context.Context, id uuid.UUID) (quizhall.QuizView, error) {
	var quiz quizhall.QuizView
	if err := c.do(ctx, request{method: http.MethodGet, path: "/quiz/" + id.String(), auth: true}, &quiz); err != nil {
		return quizhall.QuizView{}, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

// ListQuizzes lists quizzes in creation order.
func (c *Client) ListQuizzes(ctx context.Context, opts ListOptions) ([]quizhall.QuizView, error) {
	quizzes, err := listAll[quizhall.QuizView](ctx, c, "/quiz", true, opts)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// DeleteQuiz removes a quiz. Only its author may do so.
func (c *Client) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: "/quiz/" + id.String(), auth: true, want: http.StatusNoContent}, nil)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// Submit grades answers, one option index per question, for the quiz.
func (c *Client) Submit(ctx context.Context, id uuid.UUID, answers []int) (quizhall.QuizResult, error) {
	var result quizhall.QuizResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/quiz/" + id.String() + "/answers",
		auth:   true,
		body:   quizhall.Submission{Answers: answers},
	}, &result)
	if err != nil {
		return quizhall.QuizResult{}, fmt.Errorf("submit answers: %w", err)
	}
	return result, nil
}

// Ping checks that the server answers on its documentation page.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/spec"}, nil)
}

// listAll fetches one page, or every page when opts.All is set.
func listAll[T any](ctx context.Context, c *Client, path string, auth bool, opts ListOptions) ([]T, error) {
	var all []T
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var page quizhall.ListResult[T]
		err := c.do(ctx, request{method: http.MethodGet, path: path, query: opts.query(), auth: auth}, &page)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		limit, _ := strconv.Atoi(opts.query().Get("limit"))
		if !opts.All || len(page.Items) < limit {
			break
		}
		opts.Offset += len(page.Items)
	}

	if all == nil {
		all = []T{}
	}
	return all, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	auth   bool
	body   any
	want   int // expected status, 200 when zero
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.auth {
		if err := c.config.ValidateWithAuth(); err != nil {
			return err
		}
	}

	target := c.config.Endpoint + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader = http.NoBody
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if r.auth {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	want := r.want
	if want == 0 {
		want = http.StatusOK
	}
	if resp.StatusCode != want {
		return parseServerError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// parseServerError builds an APIError, lifting the message out of the
// {"message": ...} envelope when the body has one.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Message = envelope.Message
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + msg
}

// Is reports whether target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned when the server rejects the request body or parameters (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrUnauthorized is returned when the credentials are missing or wrong (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the caller may not act on the resource (403),
	// such as deleting someone else's quiz.
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}

	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrConflict is returned when a username is already taken (409).
	ErrConflict = &APIError{StatusCode: http.StatusConflict}
)
