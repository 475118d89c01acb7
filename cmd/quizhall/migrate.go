package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall/config"
	"github.com/sagarc03/quizhall/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing database tables",
	Long: `Create the users and quizzes tables if they do not exist and check
that existing tables have the expected columns.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	slog.Info("database migration complete",
		"type", cfg.Database.Type,
		"users", cfg.Database.Tables.Users,
		"quizzes", cfg.Database.Tables.Quizzes,
	)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
	return err
}
