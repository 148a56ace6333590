package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *config.GlobalConfig) *cobra.Command {
	var forceFlag bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the wplizard CLI configuration.

Creates ~/.wplizard/config.yaml (or the file named by --config) holding the
built-in defaults:
  - baseDir      folder the plugin structure is created in
  - concurrency  how many sibling folders are created at once
  - lazy         whether 'setup init' defers folder creation
  - artifact     name of the configuration file a run writes

Examples:
  # Initialize configuration
  wplizard config init

  # Overwrite existing configuration
  wplizard config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigInit(c, cfg, fsys.NewOS(), forceFlag)
		},
	}

	c.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing configuration")

	return c
}

func runConfigInit(c *cobra.Command, cfg *config.GlobalConfig, fs *fsys.Service, force bool) error {
	path, err := configPath(cfg)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	exists := fs.Exists(path)
	if exists && !force {
		return &oerrors.ExitError{
			Code: oerrors.ExitValidationError,
			Err: &oerrors.DetailError{
				Type:     "validation failed",
				Message:  "configuration already exists",
				Location: path,
				Hint:     "Use --force to overwrite existing configuration.",
				Cause:    oerrors.ErrValidation,
			},
		}
	}

	if exists {
		output.Warn("overwriting existing configuration", "path", path)
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if err := fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	out := c.OutOrStdout()
	fmt.Fprintln(out, output.FormatCheckmark("Configuration initialized at "+output.StyleNoun.Render(filepath.Dir(path))))
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Created files:")
	fmt.Fprintln(out, "  "+path)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Validate with: wplizard config vet")
	return nil
}
