package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/fsys"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *config.GlobalConfig) *cobra.Command {
	var envFlag bool

	c := &cobra.Command{
		Use:   "vet",
		Short: "Validate the wplizard configuration file",
		Long: `Validate the wplizard configuration file.

The command validates the configuration file at ~/.wplizard/config.yaml by
default. Use --config flag to specify a different location. With --env the
WPLIZARD_* environment variables are applied over the file before validation.

Examples:
  # Validate the file alone
  wplizard config vet

  # Validate the file as overridden by the environment
  wplizard config vet --env`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, cfg, fsys.NewOS(), envFlag)
		},
	}

	c.Flags().BoolVar(&envFlag, "env", false, "Apply WPLIZARD_* environment variables before validating")

	return c
}

func runConfigVet(c *cobra.Command, cfg *config.GlobalConfig, fs *fsys.Service, withEnv bool) error {
	path, err := configPath(cfg)
	if err != nil {
		return fmt.Errorf("getting config file path: %w", err)
	}

	if !fs.Exists(path) {
		return oerrors.NewExitError(
			fmt.Errorf("config file not found: %s", path),
			oerrors.ExitNotFound,
		)
	}

	loader := config.NewFileLoader()
	if withEnv {
		loader = config.NewLoader()
	}
	if _, err := loader.LoadWithDefaults(path); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprintln(c.ErrOrStderr(), "Error: config validation failed")
			fmt.Fprintf(c.ErrOrStderr(), "  File: %s\n\n", path)
			for _, e := range verrs {
				fmt.Fprintf(c.ErrOrStderr(), "  %s: %s\n", e.Field, e.Message)
			}
			return &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
		}
		return oerrors.NewExitError(fmt.Errorf("reading config: %w", err), oerrors.ExitValidationError)
	}

	fmt.Fprintf(c.OutOrStdout(), "Config file is valid: %s\n", path)
	return nil
}
