package postgres

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/quizhall"
)

type column struct {
	dataType string
	nullable bool
}

var usersColumns = map[string]column{
	"id":            {"uuid", false},
	"username":      {"text", false},
	"display_name":  {"text", false},
	"password_hash": {"text", false},
	"created_at":    {"timestamp with time zone", false},
}

var quizzesColumns = map[string]column{
	"id":          {"uuid", false},
	"title":       {"text", false},
	"description": {"text", false},
	"author":      {"text", false},
	"questions":   {"jsonb", false},
	"created_at":  {"timestamp with time zone", false},
}

// ValidateSchema checks that both tables exist with the columns Migrate creates.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables quizhall.Tables) error {
	if err := validateTable(ctx, pool, tables.Users, usersColumns); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Users, err)
	}
	if err := validateTable(ctx, pool, tables.Quizzes, quizzesColumns); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Quizzes, err)
	}
	return nil
}

func validateTable(ctx context.Context, pool *pgxpool.Pool, table string, want map[string]column) error {
	if !quizhall.IsValidTableName(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
	`, table)
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	got := make(map[string]column)
	for rows.Next() {
		var name string
		var c column
		if err := rows.Scan(&name, &c.dataType, &c.nullable); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		c.dataType = strings.ToLower(c.dataType)
		got[name] = c
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read columns: %w", err)
	}

	if len(got) == 0 {
		return fmt.Errorf("table %s does not exist", table)
	}

	var problems []string
	for _, name := range slices.Sorted(maps.Keys(want)) {
		actual, ok := got[name]
		switch {
		case !ok:
			problems = append(problems, name+": missing")
		case actual != want[name]:
			problems = append(problems, fmt.Sprintf("%s: want %s nullable=%v, got %s nullable=%v",
				name, want[name].dataType, want[name].nullable, actual.dataType, actual.nullable))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("table %s does not match: %s", table, strings.Join(problems, "; "))
	}
	return nil
}
