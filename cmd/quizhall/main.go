package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "quizhall",
	Short:   "Quiz server with documented user and quiz APIs",
	Long: `quizhall serves a user API and a basic auth protected quiz API,
each with its own OpenAPI description and a documentation page at /spec.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeat to merge (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: QUIZHALL_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: quizhall.db, env: QUIZHALL_DATABASE_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
