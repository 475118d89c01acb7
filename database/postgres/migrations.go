package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/quizhall"
)

// Migrate creates every missing table. It is safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables quizhall.Tables) error {
	if err := createUsersTable(ctx, pool, tables.Users); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Users, err)
	}
	if err := createQuizzesTable(ctx, pool, tables.Quizzes); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Quizzes, err)
	}
	return nil
}

func createUsersTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`, quotedTable)

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func createQuizzesTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexList := pgx.Identifier{fmt.Sprintf("idx_%s_list", tableName)}.Sanitize()
	indexAuthor := pgx.Identifier{fmt.Sprintf("idx_%s_author", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			author TEXT NOT NULL,
			questions JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s ON %s (created_at, id);

		CREATE INDEX IF NOT EXISTS %s ON %s (author);
	`,
		quotedTable,
		indexList, quotedTable,
		indexAuthor, quotedTable,
	)

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create quizzes table: %w", err)
	}
	return nil
}

// DropTables removes the tables created by Migrate.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables quizhall.Tables) error {
	for _, name := range []string{tables.Quizzes, tables.Users} {
		sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{name}.Sanitize())
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	return nil
}
