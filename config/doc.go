// Package config provides configuration loading and validation for quizhall.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (QUIZHALL_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with QUIZHALL_ prefix:
//   - server.port → QUIZHALL_SERVER_PORT
//   - database.dsn → QUIZHALL_DATABASE_DSN
//   - auth.realm → QUIZHALL_AUTH_REALM
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Database type must be sqlite or postgres
//   - Table names must be valid identifiers and distinct
//   - Password cost must be a valid bcrypt cost
//   - Log level must be debug, info, warn, or error
package config
