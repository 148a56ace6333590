// Package setup provides the `wplizard setup` command group.
package setup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/prompt"
)

// NewSetupCmd creates the setup command. Run directly it launches the
// wizard, in lazy mode, inside the given directory.
func NewSetupCmd(cfg *config.GlobalConfig) *cobra.Command {
	var skeletonFlag bool

	c := &cobra.Command{
		Use:   "setup <directory>",
		Short: "Launch the setup wizard in a directory",
		Long: `Launch the setup wizard within the directory provided, treating it as the
root of the plugin. The directory is created if it does not exist and must be
empty. The wizard runs in lazy mode: your choices are recorded in the
configuration file and the folders are created by 'wplizard setup apply'.

Examples:
  # Set up a plugin in ./my-plugin
  wplizard setup ./my-plugin

  # Only run the skeleton setup
  wplizard setup ./my-plugin --skeleton`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			settings, err := cfg.Resolved()
			if err != nil {
				return Report(err)
			}

			dir := args[0]
			fs := fsys.NewOS()
			output.Info(fmt.Sprintf("Running the setup wizard in %s...", dir))
			output.Debug("creating directory if it does not exist", "dir", dir)
			if err := fs.CreateDirectory(dir, true); err != nil {
				return Report(fmt.Errorf("creating %q: %w", dir, err))
			}
			if !skeletonFlag {
				output.Debug("no skin setup is available, running the skeleton setup")
			}

			return Report(Run(c.Context(), Session{
				Root:     dir,
				Lazy:     true,
				Settings: settings,
				Prompter: prompt.NewHuh(),
				FS:       fs,
				Out:      c.OutOrStdout(),
			}))
		},
	}

	c.Flags().BoolVarP(&skeletonFlag, "skeleton", "s", false, "Run the wizard in skeleton mode")

	c.AddCommand(NewInitCmd(cfg))
	c.AddCommand(NewApplyCmd(cfg))

	return c
}
