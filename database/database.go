package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/database/postgres"
	"github.com/sagarc03/quizhall/database/sqlite"
)

// Config holds the configuration for connecting to a storage backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// Tables names the users and quizzes tables
	Tables quizhall.Tables `mapstructure:"tables"`
}

// Database is a connected storage backend. Migrate creates missing tables,
// Validate checks that the existing tables have the expected columns.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	UserRepo() quizhall.UserRepo
	QuizRepo() quizhall.QuizRepo
	Close() error
}

// Connect opens the configured backend. It does not migrate; callers run
// Migrate and Validate before serving traffic.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		return sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
	case "postgres":
		return postgres.Connect(ctx, cfg.DSN, cfg.Tables)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open connects, migrates and validates in one step. It is what the server
// runs at startup so no request is dispatched before the schema is ready.
func Open(ctx context.Context, cfg Config) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate database schema: %w", err)
	}

	return db, nil
}
