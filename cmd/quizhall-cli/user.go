package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/client"
)

var signupDisplayName string

var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Register a new user",
	Long: `Register a new user on the server.

The password is taken from --password or QUIZHALL_PASSWORD and prompted
for when neither is set.

Examples:
  quizhall-cli signup alice
  quizhall-cli signup bob --password 'hunter22' --display-name Bob`,
	Args: cobra.ExactArgs(1),
	RunE: runSignup,
}

var (
	usersLimit  int
	usersOffset int
	usersAll    bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Long: `List registered users in creation order.

Examples:
  quizhall-cli users
  quizhall-cli users --limit 10 --offset 20
  quizhall-cli users --all --json`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteUser,
}

func init() {
	signupCmd.Flags().StringVar(&signupDisplayName, "display-name", "", "display name shown instead of the username")

	usersCmd.Flags().IntVarP(&usersLimit, "limit", "l", client.DefaultPageSize, "max results per page (max: 1000)")
	usersCmd.Flags().IntVar(&usersOffset, "offset", 0, "number of users to skip")
	usersCmd.Flags().BoolVar(&usersAll, "all", false, "fetch all pages")

	usersCmd.AddCommand(deleteUserCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	c, err := client.New(cfg)
	if err != nil {
		return err
	}

	pass := cfg.Password
	if pass == "" {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(s string) error {
				if len(s) < 8 {
					return errors.New("password must be at least 8 characters")
				}
				return nil
			},
		}
		if pass, err = prompt.Run(); err != nil {
			return handlePromptError(err)
		}
	}

	user, err := c.Signup(context.Background(), quizhall.CreateUser{
		Username:    args[0],
		Password:    pass,
		DisplayName: signupDisplayName,
	})
	if err != nil {
		return err
	}

	return getFormatter().FormatUser(cmd.OutOrStdout(), user)
}

func runUsers(cmd *cobra.Command, _ []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	users, err := c.ListUsers(context.Background(), client.ListOptions{
		Limit:  usersLimit,
		Offset: usersOffset,
		All:    usersAll,
	})
	if err != nil {
		return err
	}

	return getFormatter().FormatUsers(cmd.OutOrStdout(), users)
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return errors.New("id must be a UUID")
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	if err := c.DeleteUser(context.Background(), id); err != nil {
		return err
	}

	return getFormatter().FormatDeleted(cmd.OutOrStdout(), "user", id.String())
}
