// Package postgres implements the quizhall repositories using PostgreSQL
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/quizhall"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type userRepo struct {
	pool      *pgxpool.Pool
	tableName string
}

const userColumns = `id, username, display_name, password_hash, created_at`

func scanUser(row pgx.Row) (quizhall.User, error) {
	var u quizhall.User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (r *userRepo) Create(ctx context.Context, user quizhall.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)
	`, pgx.Identifier{r.tableName}.Sanitize(), userColumns)

	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.DisplayName, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create: %s: %w", user.Username, quizhall.ErrAlreadyExists)
		}
		return fmt.Errorf("create: %w", err)
	}

	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (quizhall.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (quizhall.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepo) getBy(ctx context.Context, column string, value any) (quizhall.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, pgx.Identifier{r.tableName}.Sanitize(), column)

	u, err := scanUser(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quizhall.User{}, quizhall.ErrNotFound
		}
		return quizhall.User{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *userRepo) List(ctx context.Context, q quizhall.ListQuery) ([]quizhall.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, userColumns, pgx.Identifier{r.tableName}.Sanitize())

	rows, err := r.pool.Query(ctx, query, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	users := make([]quizhall.User, 0, q.Limit)
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list: scan: %w", scanErr)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return users, nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pgx.Identifier{r.tableName}.Sanitize())
	return deleteRow(ctx, r.pool, query, id)
}

type quizRepo struct {
	pool      *pgxpool.Pool
	tableName string
}

const quizColumns = `id, title, description, author, questions, created_at`

func scanQuiz(row pgx.Row) (quizhall.Quiz, error) {
	var q quizhall.Quiz
	var questions []byte

	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Author, &questions, &q.CreatedAt); err != nil {
		return quizhall.Quiz{}, err
	}

	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return quizhall.Quiz{}, fmt.Errorf("decode questions: %w", err)
	}

	return q, nil
}

func (r *quizRepo) Create(ctx context.Context, quiz quizhall.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("create: encode questions: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pgx.Identifier{r.tableName}.Sanitize(), quizColumns)

	_, err = r.pool.Exec(ctx, query, quiz.ID, quiz.Title, quiz.Description, quiz.Author, questions, quiz.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create: %s: %w", quiz.ID, quizhall.ErrAlreadyExists)
		}
		return fmt.Errorf("create: %w", err)
	}

	return nil
}

func (r *quizRepo) Get(ctx context.Context, id uuid.UUID) (quizhall.Quiz, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
		quizColumns, pgx.Identifier{r.tableName}.Sanitize())

	q, err := scanQuiz(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quizhall.Quiz{}, quizhall.ErrNotFound
		}
		return quizhall.Quiz{}, fmt.Errorf("get: %w", err)
	}

	return q, nil
}

func (r *quizRepo) List(ctx context.Context, lq quizhall.ListQuery) ([]quizhall.Quiz, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, quizColumns, pgx.Identifier{r.tableName}.Sanitize())

	rows, err := r.pool.Query(ctx, query, lq.Limit, lq.Offset)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	quizzes := make([]quizhall.Quiz, 0, lq.Limit)
	for rows.Next() {
		q, scanErr := scanQuiz(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("list: scan: %w", scanErr)
		}
		quizzes = append(quizzes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return quizzes, nil
}

func (r *quizRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pgx.Identifier{r.tableName}.Sanitize())
	return deleteRow(ctx, r.pool, query, id)
}

func deleteRow(ctx context.Context, pool *pgxpool.Pool, query string, id uuid.UUID) error {
	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", quizhall.ErrNotFound)
	}

	return nil
}
