package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name string, createdAt time.Time) quizhall.User {
	return quizhall.User{
		ID:           uuid.New(),
		Username:     name,
		DisplayName:  "User " + name,
		PasswordHash: "$2a$04$hash-" + name,
		CreatedAt:    createdAt,
	}
}

func TestDatabase_MigrateValidate(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "schema.db")

	db, err := sqlite.Connect(ctx, dsn, testTables)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.Ping(ctx))
	assert.Error(t, db.Validate(ctx), "validate should fail before migration")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	assert.NoError(t, db.Validate(ctx))
}

func TestValidateSchema_Mismatch(t *testing.T) {
	ctx := context.Background()

	raw, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "drift.db"))
	require.NoError(t, err)
	defer func() { _ = raw.Close() }()

	_, err = raw.ExecContext(ctx, `CREATE TABLE users (id TEXT NOT NULL PRIMARY KEY, username INTEGER)`)
	require.NoError(t, err)

	err = sqlite.ValidateSchema(ctx, raw, testTables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display_name: missing")
	assert.Contains(t, err.Error(), "username: want text not null=true, got integer not null=false")

	err = sqlite.ValidateSchema(ctx, raw, quizhall.Tables{Users: "absent", Quizzes: "quizzes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table absent does not exist")
}

func TestDatabase_InMemory(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", testTables)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.Migrate(ctx))
	assert.NoError(t, db.Validate(ctx))
}

func TestUserRepo_CreateGet(t *testing.T) {
	users, _ := setupTestRepos(t)
	ctx := context.Background()

	user := newUser("alice", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, users.Create(ctx, user))

	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))

	got, err = users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	users, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, newUser("alice", time.Now())))

	err := users.Create(ctx, newUser("alice", time.Now()))
	assert.ErrorIs(t, err, quizhall.ErrAlreadyExists)
}

func TestUserRepo_NotFound(t *testing.T) {
	users, _ := setupTestRepos(t)
	ctx := context.Background()

	_, err := users.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, quizhall.ErrNotFound)

	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, quizhall.ErrNotFound)

	err = users.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, quizhall.ErrNotFound)
}

func TestUserRepo_ListDelete(t *testing.T) {
	users, _ := setupTestRepos(t)
	ctx := context.Background()

	base := time.Now().UTC()
	created := make([]quizhall.User, 0, 3)
	for i, name := range []string{"alice", "bob", "carol"} {
		u := newUser(name, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, users.Create(ctx, u))
		created = append(created, u)
	}

	all, err := users.List(ctx, quizhall.ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "carol", all[2].Username)

	page, err := users.List(ctx, quizhall.ListQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bob", page[0].Username)

	require.NoError(t, users.Delete(ctx, created[1].ID))

	all, err = users.List(ctx, quizhall.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQuizRepo_RoundTrip(t *testing.T) {
	_, quizzes := setupTestRepos(t)
	ctx := context.Background()

	quiz := quizhall.Quiz{
		ID:          uuid.New(),
		Title:       "Capitals",
		Description: `Say "hi"`,
		Author:      "alice",
		Questions: []quizhall.Question{
			{Text: "France?", Options: []string{"Paris", "Lyon"}, Answer: 0},
			{Text: "Italy?", Options: []string{"Milan", "Rome"}, Answer: 1},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, quizzes.Create(ctx, quiz))

	got, err := quizzes.Get(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, got.Title)
	assert.Equal(t, quiz.Description, got.Description)
	assert.Equal(t, quiz.Questions, got.Questions)
	assert.True(t, quiz.CreatedAt.Equal(got.CreatedAt))

	list, err := quizzes.List(ctx, quizhall.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, quizzes.Delete(ctx, quiz.ID))
	_, err = quizzes.Get(ctx, quiz.ID)
	assert.ErrorIs(t, err, quizhall.ErrNotFound)
}
