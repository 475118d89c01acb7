package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/client"
	"github.com/sagarc03/quizhall/config"
	"github.com/sagarc03/quizhall/database"
	quizhttp "github.com/sagarc03/quizhall/http"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage registered users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Register a user",
	Long: `Register a user directly in the database.

The password is hashed with bcrypt using the configured cost.

Examples:
  quizhall user add alice --password 's3cret-pass'
  quizhall user add bob --password 'hunter22' --display-name "Bob"`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Long: `List registered users in creation order.

Examples:
  quizhall user list
  quizhall user list --limit 10 --offset 20`,
	Args: cobra.NoArgs,
	RunE: runUserList,
}

func init() {
	userAddCmd.Flags().String("password", "", "password for the new user (required)")
	userAddCmd.Flags().String("display-name", "", "display name shown instead of the username")
	_ = userAddCmd.MarkFlagRequired("password")

	userListCmd.Flags().IntP("limit", "l", quizhttp.DefaultListLimit, "max users to show (max: 1000)")
	userListCmd.Flags().Int("offset", 0, "number of users to skip")
	userListCmd.Flags().Bool("json", false, "output as JSON")

	userCmd.AddCommand(userAddCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}

func openUsers(cmd *cobra.Command) (*quizhall.UserService, func(), error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	users, err := quizhall.NewUserService(db.UserRepo(), cfg.Auth.PasswordCost)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return users, func() { _ = db.Close() }, nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")
	displayName, _ := cmd.Flags().GetString("display-name")

	in := quizhall.CreateUser{
		Username:    args[0],
		Password:    password,
		DisplayName: displayName,
	}
	if err := quizhttp.Validate(in); err != nil {
		return err
	}

	users, closeDB, err := openUsers(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := users.Create(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("add user %s: %w", in.Username, err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
	return err
}

func runUserList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	if limit <= 0 || limit > quizhttp.MaxListLimit {
		return fmt.Errorf("limit must be between 1 and %d", quizhttp.MaxListLimit)
	}
	if offset < 0 {
		return errors.New("offset must not be negative")
	}

	users, closeDB, err := openUsers(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	result, err := users.List(cmd.Context(), quizhall.ListQuery{Limit: limit, Offset: offset})
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return client.NewFormatter(jsonOutput, false).FormatUsers(cmd.OutOrStdout(), result.Items)
}
