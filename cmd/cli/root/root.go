package root

import (
	"fmt"

	"github.com/crucial707/userapi/cmd/cli/api"
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "userctl",
	Short:         "User API CLI",
	Long:          "Command line interface for the user registration and login API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.AddCommand(healthCmd())
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Status    string `json:"status"`
				Timestamp string `json:"timestamp"`
			}
			if err := api.Call("GET", "/health", "", nil, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.Status, out.Timestamp)
			return nil
		},
	}
}
