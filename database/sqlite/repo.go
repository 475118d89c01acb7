// Package sqlite implements the quizhall repositories using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sagarc03/quizhall"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

type userRepo struct {
	db        *sql.DB
	tableName string
}

const userColumns = `id, username, display_name, password_hash, created_at`

func scanUser(row rowScanner) (quizhall.User, error) {
	var u quizhall.User
	var idStr, createdAt string

	if err := row.Scan(&idStr, &u.Username, &u.DisplayName, &u.PasswordHash, &createdAt); err != nil {
		return quizhall.User{}, err
	}

	var err error
	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return quizhall.User{}, fmt.Errorf("parse uuid: %w", err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return quizhall.User{}, fmt.Errorf("parse created_at: %w", err)
	}

	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user quizhall.User) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?)`, r.tableName, userColumns)

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(), user.Username, user.DisplayName, user.PasswordHash, formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create: %s: %w", user.Username, quizhall.ErrAlreadyExists)
		}
		return fmt.Errorf("create: %w", err)
	}

	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (quizhall.User, error) {
	return r.getBy(ctx, "id", id.String())
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (quizhall.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepo) getBy(ctx context.Context, column, value string) (quizhall.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table and column names are constants or validated
		`SELECT %s FROM %s WHERE %s = ?`, userColumns, r.tableName, column)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quizhall.User{}, quizhall.ErrNotFound
		}
		return quizhall.User{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *userRepo) List(ctx context.Context, q quizhall.ListQuery) ([]quizhall.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s ORDER BY created_at, id LIMIT ? OFFSET ?`, userColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tableName) //nolint:gosec // table name is validated
	return deleteRow(ctx, r.db, query, id)
}

type quizRepo struct {
	db        *sql.DB
	tableName string
}

const quizColumns = `id, title, description, author, questions, created_at`

func scanQuiz(row rowScanner) (quizhall.Quiz, error) {
	var q quizhall.Quiz
	var idStr, questions, createdAt string

	if err := row.Scan(&idStr, &q.Title, &q.Description, &q.Author, &questions, &createdAt); err != nil {
		return quizhall.Quiz{}, err
	}

	var err error
	q.ID, err = uuid.Parse(idStr)
	if err != nil {
		return quizhall.Quiz{}, fmt.Errorf("parse uuid: %w", err)
	}

	if err = json.Unmarshal([]byte(questions), &q.Questions); err != nil {
		return quizhall.Quiz{}, fmt.Errorf("decode questions: %w", err)
	}

	q.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return quizhall.Quiz{}, fmt.Errorf("parse created_at: %w", err)
	}

	return q, nil
}

func (r *quizRepo) Create(ctx context.Context, quiz quizhall.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("create: encode questions: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`, r.tableName, quizColumns)

	_, err = r.db.ExecContext(ctx, query,
		quiz.ID.String(), quiz.Title, quiz.Description, quiz.Author, string(questions), formatTime(quiz.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create: %s: %w", quiz.ID, quizhall.ErrAlreadyExists)
		}
		return fmt.Errorf("create: %w", err)
	}

	return nil
}

func (r *quizRepo) Get(ctx context.Context, id uuid.UUID) (quizhall.Quiz, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE id = ?`, quizColumns, r.tableName)

	q, err := scanQuiz(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quizhall.Quiz{}, quizhall.ErrNotFound
		}
		return quizhall.Quiz{}, fmt.Errorf("get: %w", err)
	}

	return q, nil
}

func (r *quizRepo) List(ctx context.Context, lq quizhall.ListQuery) ([]quizhall.Quiz, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s ORDER BY created_at, id LIMIT ? OFFSET ?`, quizColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, lq.Limit, lq.Offset)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tableName) //nolint:gosec // table name is validated
	return deleteRow(ctx, r.db, query, id)
}

func deleteRow(ctx context.Context, db *sql.DB, query string, id uuid.UUID) error {
	result, err := db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", quizhall.ErrNotFound)
	}

	return nil
}
