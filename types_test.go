package quizhall_test

import (
	"encoding/json"
	"testing"

	"github.com/sagarc03/quizhall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTableName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple", "users", true},
		{"underscore prefix", "_quizzes", true},
		{"digits", "quizzes_v2", true},
		{"uppercase", "Users", false},
		{"leading digit", "1users", false},
		{"dash", "quiz-table", false},
		{"injection", "users; DROP TABLE users", false},
		{"empty", "", false},
		{"too long", "a234567890123456789012345678901234567890123456789012345678901234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quizhall.IsValidTableName(tt.input))
		})
	}
}

func TestTables_Validate(t *testing.T) {
	assert.NoError(t, quizhall.Tables{Users: "users", Quizzes: "quizzes"}.Validate())
	assert.Error(t, quizhall.Tables{Users: "", Quizzes: "quizzes"}.Validate())
	assert.Error(t, quizhall.Tables{Users: "users", Quizzes: "Bad"}.Validate())
	assert.Error(t, quizhall.Tables{Users: "same", Quizzes: "same"}.Validate())
}

func TestQuiz_View_OmitsAnswers(t *testing.T) {
	quiz := sampleQuiz("alice")

	data, err := json.Marshal(quiz.View())
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"answer"`)
	assert.Contains(t, string(data), `"Paris"`)
	assert.Contains(t, string(data), `"author":"alice"`)
}

func TestQuiz_Grade(t *testing.T) {
	quiz := sampleQuiz("alice")

	result, err := quiz.Grade("bob", []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Correct)
	assert.InDelta(t, 100.0, result.Score, 0.001)

	result, err = quiz.Grade("bob", []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Correct)
	assert.InDelta(t, 0.0, result.Score, 0.001)

	_, err = quiz.Grade("bob", []int{0, 1, 2})
	assert.ErrorIs(t, err, quizhall.ErrInvalidInput)
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	data, err := json.Marshal(quizhall.User{Username: "alice", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
}
