package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/database/sqlite"
	"github.com/stretchr/testify/require"
)

var testTables = quizhall.Tables{Users: "users", Quizzes: "quizzes"}

// setupTestRepos opens a fresh database file per test for isolation.
func setupTestRepos(t *testing.T) (quizhall.UserRepo, quizhall.QuizRepo) {
	t.Helper()

	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "quizhall.db")

	db, err := sqlite.Connect(ctx, dsn, testTables)
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	err = db.Migrate(ctx)
	require.NoError(t, err, "failed to migrate")

	return db.UserRepo(), db.QuizRepo()
}
