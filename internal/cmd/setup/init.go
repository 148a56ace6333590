package setup

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/prompt"
)

// NewInitCmd creates the setup init command.
func NewInitCmd(cfg *config.GlobalConfig) *cobra.Command {
	var (
		lazyFlag          bool
		backboneFlag      bool
		runInstallersFlag bool
	)

	c := &cobra.Command{
		Use:   "init",
		Short: "Launch the setup wizard in the current directory",
		Long: `Launch the setup wizard within the current directory, treating it as the
root of the plugin. The directory must be empty.

In lazy mode (the default) every step only records your choices and the
configuration file is written at the end. With --lazy=false each step is
applied as soon as it completes and rolled back if it fails.

Examples:
  # Run the wizard in lazy mode
  wplizard setup init

  # Create folders as you go
  wplizard setup init --lazy=false

  # Add the composer install step
  wplizard setup init --run-installers`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			settings, err := cfg.Resolved()
			if err != nil {
				return Report(err)
			}

			lazy := settings.Lazy
			if c.Flags().Changed("lazy") {
				lazy = lazyFlag
			}
			if backboneFlag {
				output.Info("Running setup wizard in backbone mode...")
			}

			root, err := os.Getwd()
			if err != nil {
				return Report(err)
			}

			return Report(Run(c.Context(), Session{
				Root:          root,
				Lazy:          lazy,
				RunInstallers: runInstallersFlag,
				Settings:      settings,
				Prompter:      prompt.NewHuh(),
				FS:            fsys.NewOS(),
				Out:           c.OutOrStdout(),
			}))
		},
	}

	c.Flags().BoolVarP(&lazyFlag, "lazy", "l", true, "Only record choices; create folders with 'setup apply' (env: WPLIZARD_LAZY)")
	c.Flags().BoolVarP(&backboneFlag, "backbone", "b", false, "Run the setup wizard in backbone mode")
	c.Flags().BoolVarP(&runInstallersFlag, "run-installers", "r", false, "Add a step that runs composer install in the plugin root")

	return c
}
