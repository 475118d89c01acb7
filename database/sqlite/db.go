package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sagarc03/quizhall"
)

// column is the declared type and NOT NULL flag of a table column.
type column struct {
	dataType string
	notNull  bool
}

var usersColumns = map[string]column{
	"id":            {"text", true},
	"username":      {"text", true},
	"display_name":  {"text", true},
	"password_hash": {"text", true},
	"created_at":    {"text", true},
}

var quizzesColumns = map[string]column{
	"id":          {"text", true},
	"title":       {"text", true},
	"description": {"text", true},
	"author":      {"text", true},
	"questions":   {"text", true},
	"created_at":  {"text", true},
}

// ValidateSchema checks that both tables exist with the columns Migrate creates.
func ValidateSchema(ctx context.Context, db *sql.DB, tables quizhall.Tables) error {
	if err := validateTable(ctx, db, tables.Users, usersColumns); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Users, err)
	}
	if err := validateTable(ctx, db, tables.Quizzes, quizzesColumns); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Quizzes, err)
	}
	return nil
}

func validateTable(ctx context.Context, db *sql.DB, table string, want map[string]column) error {
	if !quizhall.IsValidTableName(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	got := make(map[string]column)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, dataType   string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		got[name] = column{dataType: strings.ToLower(dataType), notNull: notNull == 1 || pk == 1}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read columns: %w", err)
	}

	// PRAGMA table_info returns no rows for a missing table.
	if len(got) == 0 {
		return fmt.Errorf("table %s does not exist", table)
	}

	return compareColumns(table, want, got)
}

func compareColumns(table string, want, got map[string]column) error {
	var problems []string
	for _, name := range slices.Sorted(maps.Keys(want)) {
		actual, ok := got[name]
		switch {
		case !ok:
			problems = append(problems, name+": missing")
		case actual != want[name]:
			problems = append(problems, fmt.Sprintf("%s: want %s not null=%v, got %s not null=%v",
				name, want[name].dataType, want[name].notNull, actual.dataType, actual.notNull))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("table %s does not match: %s", table, strings.Join(problems, "; "))
	}
	return nil
}
