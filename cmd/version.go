// File: cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version, intended to be set at build time:
// go build -ldflags "-X github.com/avolkov-io/webclicker-cli/cmd.Version=1.0.0"
var Version = "0.1.0"

// newVersionCmd creates the `version` command, mirroring the --version
// flag for scripts that prefer a subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
