package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall/client"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	server     string
	username   string
	password   string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "quizhall-cli",
	Version: version,
	Short:   "Client for the quizhall quiz server",
	Long: `quizhall-cli - Client for the quizhall quiz server

User commands (signup, users) need no credentials. Quiz commands send the
configured username and password with HTTP basic auth.

Connection settings are resolved in this order, later wins:
  1. profile from the config file (--profile or QUIZHALL_PROFILE)
  2. QUIZHALL_ENDPOINT, QUIZHALL_USERNAME, QUIZHALL_PASSWORD
  3. --server, --username, --password`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/quizhall/client.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: QUIZHALL_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "server URL (default: http://localhost:8080, env: QUIZHALL_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "username (env: QUIZHALL_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "password (env: QUIZHALL_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(quizCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return client.DefaultConfigPath()
}

// buildConfig merges the profile, env vars and flags (flags take precedence).
func buildConfig() (*client.Config, error) {
	var configs []*client.Config

	name := profile
	if name == "" {
		name = client.ProfileFromEnv()
	}

	file, err := client.LoadConfigFile(getConfigPath())
	switch {
	case err == nil:
		p, profileErr := file.GetProfile(name)
		if profileErr != nil && (name != "" || !errors.Is(profileErr, client.ErrNoProfiles)) {
			return nil, profileErr
		}
		configs = append(configs, client.ConfigFromProfile(p))
	case cfgFile != "" || name != "":
		// Only an explicitly requested config or profile must exist.
		return nil, err
	}

	configs = append(configs,
		client.ConfigFromEnv(),
		&client.Config{Endpoint: server, Username: username, Password: password},
	)

	return client.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() client.Formatter {
	return client.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*client.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return client.New(cfg)
}
