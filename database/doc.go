// Package database provides a unified interface for connecting to the user
// and quiz storage backends.
//
// # Supported Backends
//
//   - PostgreSQL: pgx connection pool, questions stored as JSONB
//   - SQLite: modernc.org/sqlite, suitable for development and single-node deployments
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "quizhall.db",
//	    Tables: quizhall.Tables{Users: "users", Quizzes: "quizzes"},
//	}
//
//	db, err := database.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	users := db.UserRepo()
//	quizzes := db.QuizRepo()
//
// Open connects, creates missing tables and validates their columns. Use
// Connect when the steps need to run separately (for example the migrate
// command).
package database
