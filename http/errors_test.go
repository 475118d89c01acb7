package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	quizhttp "github.com/sagarc03/quizhall/http"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func serveFailing(h quizhttp.HandlerFunc) *httptest.ResponseRecorder {
	handler := quizhttp.Chain(h, quizhttp.InitRequestContext(), quizhttp.CatchBindingFailure())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	return rec
}

func TestCatchBindingFailure(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantBody    string
		contentType string
	}{
		{
			name:        "binding error",
			err:         &quizhttp.BindingError{Cause: "username is required"},
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"message":"username is required"}` + "\n",
			contentType: "application/json",
		},
		{
			name:        "wrapped binding error",
			err:         errors.Join(errors.New("outer"), &quizhttp.BindingError{Cause: "limit must be a positive integer"}),
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"message":"limit must be a positive integer"}` + "\n",
			contentType: "application/json",
		},
		{
			name:        "binding error without cause",
			err:         &quizhttp.BindingError{},
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"message":""}` + "\n",
			contentType: "application/json",
		},
		{
			name:        "other error",
			err:         errors.New("database exploded"),
			wantStatus:  http.StatusInternalServerError,
			wantBody:    "Internal Server Error\n",
			contentType: "text/plain; charset=utf-8",
		},
		{
			name:        "credentials never bound",
			err:         quizhttp.ErrCredentialsUnbound,
			wantStatus:  http.StatusInternalServerError,
			wantBody:    "Internal Server Error\n",
			contentType: "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveFailing(func(w http.ResponseWriter, r *http.Request) error {
				return tt.err
			})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestCatchBindingFailure_Success(t *testing.T) {
	rec := serveFailing(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCatchBindingFailure_CountsFailures(t *testing.T) {
	before := testutil.ToFloat64(quizhttp.FailuresTotal.WithLabelValues("binding"))

	serveFailing(func(w http.ResponseWriter, r *http.Request) error {
		return &quizhttp.BindingError{Cause: "x"}
	})

	assert.Equal(t, before+1, testutil.ToFloat64(quizhttp.FailuresTotal.WithLabelValues("binding")))
}

func TestBindingFailure_MessageIsValidJSON(t *testing.T) {
	t.Run("quotes", func(t *testing.T) {
		rec := serveFailing(func(w http.ResponseWriter, r *http.Request) error {
			return &quizhttp.BindingError{Cause: `field "name" is "bad"`}
		})

		var body quizhttp.ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, `field "name" is "bad"`, body.Message)
	})

	rapid.Check(t, func(rt *rapid.T) {
		cause := rapid.String().Draw(rt, "cause")

		rec := serveFailing(func(w http.ResponseWriter, r *http.Request) error {
			return &quizhttp.BindingError{Cause: cause}
		})

		var body quizhttp.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			rt.Fatalf("body %q is not JSON: %v", rec.Body.String(), err)
		}
		if body.Message != cause {
			rt.Fatalf("message %q, want %q", body.Message, cause)
		}
	})
}

func TestHandlerFunc_OutsidePipeline(t *testing.T) {
	h := quizhttp.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return &quizhttp.BindingError{Cause: "bad"}
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"bad"}`, rec.Body.String())
}

func TestHandlerFunc_RequestContextWithoutCatcher(t *testing.T) {
	handler := quizhttp.Chain(
		quizhttp.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			return errors.New("boom")
		}),
		quizhttp.InitRequestContext(),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code, "failure must not be swallowed")
}

func TestBindingError(t *testing.T) {
	inner := errors.New("strconv failure")
	err := &quizhttp.BindingError{Cause: "limit must be a positive integer", Err: inner}

	assert.Equal(t, "binding failed: limit must be a positive integer", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "binding failed", (&quizhttp.BindingError{}).Error())
}
