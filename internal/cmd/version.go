package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
	"github.com/wplizard/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *config.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show wplizard CLI version information.

Displays:
  - wplizard CLI version, commit, and build date
  - The composer binary used by the installers step, if any`,
		RunE: func(c *cobra.Command, _ []string) error {
			info := version.Get()
			composer := version.DetectComposer(c.Context())
			fmt.Fprintln(c.OutOrStdout(), version.FullVersionString(info, composer))
			return nil
		},
	}
}
