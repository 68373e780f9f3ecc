package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show dekorate CLI version information.

Displays:
  - dekorate version, commit, and build date
  - Go toolchain version
  - Docker Engine API version used by the docker build service`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Println(version.Get().String())
			return nil
		},
	}
}
