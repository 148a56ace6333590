package setup

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
	"github.com/wplizard/cli/internal/fsys"
)

// NewApplyCmd creates the setup apply command.
func NewApplyCmd(cfg *config.GlobalConfig) *cobra.Command {
	var runInstallersFlag bool

	c := &cobra.Command{
		Use:   "apply [directory]",
		Short: "Create the folders recorded by a lazy run",
		Long: `Read the configuration file a lazy wizard run left in the plugin root and
create the recorded folders. If any folder cannot be created, every folder
created by this command is removed again.

Examples:
  # Apply the configuration in the current directory
  wplizard setup apply

  # Apply and install PHP dependencies
  wplizard setup apply ./my-plugin --run-installers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			settings, err := cfg.Resolved()
			if err != nil {
				return Report(err)
			}

			var root string
			if len(args) == 1 {
				root = args[0]
			} else if root, err = os.Getwd(); err != nil {
				return Report(err)
			}

			return Report(Apply(c.Context(), Session{
				Root:          root,
				RunInstallers: runInstallersFlag,
				Settings:      settings,
				FS:            fsys.NewOS(),
				Out:           c.OutOrStdout(),
			}))
		},
	}

	c.Flags().BoolVarP(&runInstallersFlag, "run-installers", "r", false, "Run composer install after the folders are created")

	return c
}
