package users

import (
	"fmt"

	"github.com/crucial707/userapi/cmd/cli/api"
	"github.com/crucial707/userapi/cmd/cli/auth"
	"github.com/crucial707/userapi/cmd/cli/config"
	"github.com/crucial707/userapi/cmd/cli/output"
	"github.com/spf13/cobra"
)

// User mirrors the API's public user representation.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// ==========================
// CLI Command Init
// ==========================

// InitUsers registers the users command on rootCmd and returns it so
// further subcommands can be attached.
func InitUsers(rootCmd *cobra.Command) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users and authentication",
		Long: `List and create users, or log in to the user API.
Login stores the session token locally for future commands.`,
	}

	usersCmd.AddCommand(listUsersCmd(), createUserCmd(), meCmd())
	auth.InitAuth(usersCmd)
	rootCmd.AddCommand(usersCmd)
	return usersCmd
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []User
			if err := api.Call("GET", "/api/users", "", nil, &list); err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}

			rows := make([][]interface{}, 0, len(list))
			for _, u := range list {
				rows = append(rows, []interface{}{u.ID, u.Name, u.Email, u.CreatedAt})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Created At"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON instead of a table")
	return cmd
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := auth.PromptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			var created User
			if err := api.Call("POST", "/api/users", "", map[string]string{
				"name":     name,
				"email":    email,
				"password": password,
			}, &created); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User created: %s (%s)\n", created.ID, created.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (2-50 characters)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters (prompted when omitted)")
	return cmd
}

// ==========================
// Current User
// ==========================
func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}

			var u User
			if err := api.Call("GET", "/api/users/me", token, nil, &u); err != nil {
				return err
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Created At"},
				[][]interface{}{{u.ID, u.Name, u.Email, u.CreatedAt}})
			return nil
		},
	}
}
