package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/quizhall/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "quizhall.db", cfg.Database.DSN)
	assert.Equal(t, "quizhall_users", cfg.Database.Tables.Users)
	assert.Equal(t, "quizhall_quizzes", cfg.Database.Tables.Quizzes)
	assert.Equal(t, "kfp-quiz", cfg.Auth.Realm)
	assert.Equal(t, 10, cfg.Auth.PasswordCost)
	assert.Equal(t, "/spec", cfg.Docs.Path)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
env: production
server:
  port: 9000
  metrics: false
database:
  type: postgres
  dsn: postgres://localhost/quiz
  tables:
    users: people
    quizzes: tests
auth:
  realm: school
  password_cost: 12
log:
  level: debug
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgres://localhost/quiz", cfg.Database.DSN)
	assert.Equal(t, "people", cfg.Database.Tables.Users)
	assert.Equal(t, "tests", cfg.Database.Tables.Quizzes)
	assert.Equal(t, "school", cfg.Auth.Realm)
	assert.Equal(t, 12, cfg.Auth.PasswordCost)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	base := writeConfig(t, "base.yaml", `
server:
  port: 8081
auth:
  realm: base
`)
	override := writeConfig(t, "override.yaml", `
server:
  port: 9001
`)

	cfg, err := config.Load([]string{base, override}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "base", cfg.Auth.Realm)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "server:\n  port: 99999\n"},
		{"unknown database", "database:\n  type: mysql\n"},
		{"bad table name", "database:\n  tables:\n    users: \"drop table\"\n"},
		{"same table twice", "database:\n  tables:\n    users: things\n    quizzes: things\n"},
		{"password cost too low", "auth:\n  password_cost: 2\n"},
		{"empty realm", "auth:\n  realm: \"\"\n"},
		{"docs path not absolute", "docs:\n  path: spec\n"},
		{"bad log level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tt.content)

			_, err := config.Load([]string{path}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_WithCORS(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
  allowed_methods:
    - GET
    - POST
  max_age: 600
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("QUIZHALL_SERVER_PORT", "9090")
	t.Setenv("QUIZHALL_DATABASE_TYPE", "postgres")
	t.Setenv("QUIZHALL_AUTH_REALM", "from-env")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "from-env", cfg.Auth.Realm)
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("QUIZHALL_SERVER_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("db-dsn", "", "")
	flags.String("realm", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "7000", "--db-dsn", "other.db"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port, "flags win over env")
	assert.Equal(t, "other.db", cfg.Database.DSN)
	assert.Equal(t, "kfp-quiz", cfg.Auth.Realm, "unset flags do not override")
}

func TestFromContext_Missing(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := config.Load([]string{filepath.Join("..", "examples", "config.yaml")}, nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "kfp-quiz", cfg.Auth.Realm)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 300, cfg.CORS.MaxAge)
}
