package quizhall

import (
	"context"

	"github.com/google/uuid"
)

// UserRepo persists user records. Create returns ErrAlreadyExists when the
// username is taken; lookups return ErrNotFound for unknown users.
type UserRepo interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, q ListQuery) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuizRepo persists quizzes together with their questions.
type QuizRepo interface {
	Create(ctx context.Context, quiz Quiz) error
	Get(ctx context.Context, id uuid.UUID) (Quiz, error)
	List(ctx context.Context, q ListQuery) ([]Quiz, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
