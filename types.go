package quizhall

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser is the payload accepted when registering a user.
// Usernames are restricted to ASCII letters and digits so they can never
// contain the ':' separator used by basic auth.
type CreateUser struct {
	Username    string `json:"username" validate:"required,min=3,max=64,alphanum" jsonschema:"login name, letters and digits only"`
	Password    string `json:"password" validate:"required,min=8,max=72" jsonschema:"plain text password, hashed on arrival"`
	DisplayName string `json:"display_name,omitempty" validate:"max=128"`
}

// Question is a single multiple choice question. Answer is the index of the
// correct entry in Options.
type Question struct {
	Text    string   `json:"text" validate:"required,max=1000"`
	Options []string `json:"options" validate:"min=2,max=10,dive,required"`
	Answer  int      `json:"answer" validate:"min=0" jsonschema:"index of the correct option"`
}

type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateQuiz struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=2000"`
	Questions   []Question `json:"questions" validate:"required,min=1,max=100,dive"`
}

// QuestionView is a question as shown to someone taking the quiz.
type QuestionView struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizView is the public representation of a quiz, without answers.
type QuizView struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Author      string         `json:"author"`
	Questions   []QuestionView `json:"questions"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Submission carries one chosen option index per question, in order.
type Submission struct {
	Answers []int `json:"answers" validate:"required,dive,min=0"`
}

type QuizResult struct {
	QuizID   uuid.UUID `json:"quiz_id"`
	Username string    `json:"username"`
	Correct  int       `json:"correct"`
	Total    int       `json:"total"`
	Score    float64   `json:"score" jsonschema:"percentage of correct answers"`
}

type ListQuery struct {
	Limit  int
	Offset int
}

type ListResult[T any] struct {
	Items []T `json:"items"`
}

// View strips the answers from q.
func (q Quiz) View() QuizView {
	questions := make([]QuestionView, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionView{Text: question.Text, Options: question.Options}
	}

	return QuizView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Author:      q.Author,
		Questions:   questions,
		CreatedAt:   q.CreatedAt,
	}
}

// Grade scores answers against q. The number of answers must match the
// number of questions.
func (q Quiz) Grade(username string, answers []int) (QuizResult, error) {
	if len(answers) != len(q.Questions) {
		return QuizResult{}, fmt.Errorf("expected %d answers, got %d: %w",
			len(q.Questions), len(answers), ErrInvalidInput)
	}

	correct := 0
	for i, question := range q.Questions {
		if answers[i] == question.Answer {
			correct++
		}
	}

	result := QuizResult{
		QuizID:   q.ID,
		Username: username,
		Correct:  correct,
		Total:    len(q.Questions),
	}
	if result.Total > 0 {
		result.Score = float64(correct) * 100 / float64(result.Total)
	}

	return result, nil
}

// Validate checks invariants the struct tags cannot express.
func (c CreateQuiz) Validate() error {
	for i, question := range c.Questions {
		if question.Answer < 0 || question.Answer >= len(question.Options) {
			return fmt.Errorf("question %d: answer %d is not one of its %d options: %w",
				i, question.Answer, len(question.Options), ErrInvalidInput)
		}
	}
	return nil
}

// Tables holds configurable table names for users and quizzes.
type Tables struct {
	Users   string `mapstructure:"users"`
	Quizzes string `mapstructure:"quizzes"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set, valid and distinct.
func (t Tables) Validate() error {
	names := []struct {
		kind, name string
	}{
		{"users", t.Users},
		{"quizzes", t.Quizzes},
	}

	for _, n := range names {
		if n.name == "" {
			return fmt.Errorf("validate tables: %s table name cannot be empty", n.kind)
		}
		if !IsValidTableName(n.name) {
			return fmt.Errorf("validate tables: invalid %s table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", n.kind, n.name)
		}
	}

	if t.Users == t.Quizzes {
		return errors.New("validate tables: users and quizzes must use different tables")
	}

	return nil
}
