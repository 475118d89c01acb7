package quizhall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages user accounts and acts as the user directory for
// basic auth.
type UserService struct {
	repo         UserRepo
	passwordCost int
}

// NewUserService creates a UserService. A zero passwordCost selects
// DefaultPasswordCost.
func NewUserService(repo UserRepo, passwordCost int) (*UserService, error) {
	if repo == nil {
		return nil, errors.New("new user service: repo is required")
	}
	if passwordCost == 0 {
		passwordCost = DefaultPasswordCost
	}
	if passwordCost < bcrypt.MinCost || passwordCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("new user service: password cost %d out of range [%d, %d]",
			passwordCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &UserService{repo: repo, passwordCost: passwordCost}, nil
}

// Create registers a new user. The username must not be taken.
func (s *UserService) Create(ctx context.Context, in CreateUser) (User, error) {
	_, err := s.repo.GetByUsername(ctx, in.Username)
	if err == nil {
		return User{}, fmt.Errorf("create user %s: %w", in.Username, ErrAlreadyExists)
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	hash, err := HashPassword(in.Password, s.passwordCost)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	user := User{
		ID:           uuid.New(),
		Username:     in.Username,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, q ListQuery) (ListResult[User], error) {
	users, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResult[User]{}, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []User{}
	}
	return ListResult[User]{Items: users}, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// IsValidUser reports whether password is correct for username. Unknown
// users are not an error; a failing lookup is.
func (s *UserService) IsValidUser(ctx context.Context, username, password string) (bool, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			CheckPassword(dummyHash(), password)
			return false, nil
		}
		return false, fmt.Errorf("validate user: %w", err)
	}

	return CheckPassword(user.PasswordHash, password), nil
}

// QuizService manages quizzes and grades submissions.
type QuizService struct {
	quizzes QuizRepo
	users   UserRepo
}

func NewQuizService(quizzes QuizRepo, users UserRepo) (*QuizService, error) {
	if quizzes == nil || users == nil {
		return nil, errors.New("new quiz service: quiz and user repos are required")
	}
	return &QuizService{quizzes: quizzes, users: users}, nil
}

// Create stores a new quiz owned by author, who must be a registered user.
func (s *QuizService) Create(ctx context.Context, author string, in CreateQuiz) (Quiz, error) {
	if err := in.Validate(); err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, author); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Quiz{}, fmt.Errorf("create quiz: author %s: %w", author, ErrForbidden)
		}
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}

	quiz := Quiz{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Author:      author,
		Questions:   in.Questions,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}

	return quiz, nil
}

func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (Quiz, error) {
	quiz, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return Quiz{}, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizService) List(ctx context.Context, q ListQuery) (ListResult[QuizView], error) {
	quizzes, err := s.quizzes.List(ctx, q)
	if err != nil {
		return ListResult[QuizView]{}, fmt.Errorf("list quizzes: %w", err)
	}

	views := make([]QuizView, len(quizzes))
	for i, quiz := range quizzes {
		views[i] = quiz.View()
	}
	return ListResult[QuizView]{Items: views}, nil
}

// Delete removes a quiz. Only its author may delete it.
func (s *QuizService) Delete(ctx context.Context, requester string, id uuid.UUID) error {
	quiz, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}

	if quiz.Author != requester {
		return fmt.Errorf("delete quiz %s: %w", id, ErrForbidden)
	}

	if err := s.quizzes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// Submit grades a submission by username for the quiz with the given id.
func (s *QuizService) Submit(ctx context.Context, username string, id uuid.UUID, sub Submission) (QuizResult, error) {
	quiz, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return QuizResult{}, fmt.Errorf("submit: %w", err)
	}

	result, err := quiz.Grade(username, sub.Answers)
	if err != nil {
		return QuizResult{}, fmt.Errorf("submit: grade: %w", err)
	}
	return result, nil
}
