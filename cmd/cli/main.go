package main

import (
	"fmt"
	"os"

	"github.com/crucial707/userapi/cmd/cli/root"
	"github.com/crucial707/userapi/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	users.InitUsers(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
