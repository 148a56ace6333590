// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/wplizard/cli/internal/cmd/config"
	"github.com/wplizard/cli/internal/cmd/setup"
	"github.com/wplizard/cli/internal/config"
	"github.com/wplizard/cli/internal/output"
)

// NewRootCmd creates the root command for the wplizard CLI.
func NewRootCmd() *cobra.Command {
	cfg := &config.GlobalConfig{}

	var (
		baseDirFlag     string
		concurrencyFlag string
		timestampsFlag  bool
	)

	rootCmd := &cobra.Command{
		Use:   "wplizard",
		Short: "WordPress plugin scaffolding wizard",
		Long: `wplizard lays down a WordPress plugin's skeleton through an interactive wizard.

It provides commands to:
  - Pick the plugin's folder structure from a catalog or name it by hand
  - Record the choices in a configuration file
  - Create the recorded folders later, when running in lazy mode`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			flags := config.Flags{
				Config:      cfg.ConfigFlag,
				BaseDir:     baseDirFlag,
				Concurrency: concurrencyFlag,
			}
			if c.Flags().Changed("timestamps") {
				flags.Timestamps = &timestampsFlag
			}
			initializeGlobals(cfg, flags)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFlag, "config", "", "Path to config file (env: WPLIZARD_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Folder the plugin structure is created in, relative to the plugin root (env: WPLIZARD_BASE_DIR)")
	rootCmd.PersistentFlags().StringVar(&concurrencyFlag, "concurrency", "", "How many sibling folders are created at once (env: WPLIZARD_CONCURRENCY)")

	rootCmd.AddCommand(setup.NewSetupCmd(cfg))
	rootCmd.AddCommand(configcmd.NewConfigCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd(cfg))

	return rootCmd
}

// initializeGlobals resolves the configuration and sets up logging. A
// resolution failure is kept on cfg instead of failing here, so commands
// that do not need settings keep working.
func initializeGlobals(cfg *config.GlobalConfig, flags config.Flags) {
	logCfg := output.LogConfig{Verbose: cfg.Verbose, Timestamps: flags.Timestamps}

	settings, err := config.Resolve(flags)
	if err != nil {
		cfg.Settings = nil
		cfg.ResolveErr = err
		output.SetupLogging(logCfg)
		output.Debug("config resolution failed", "error", err)
		return
	}

	cfg.Settings = settings
	cfg.ResolveErr = nil

	// Resolve already applied flag > env > config > default.
	logCfg.Timestamps = output.BoolPtr(settings.Timestamps)
	output.SetupLogging(logCfg)

	if cfg.Verbose {
		output.Debug("initializing CLI",
			"config", settings.ConfigPath,
			"baseDir", settings.BaseDir,
			"concurrency", settings.Concurrency,
			"lazy", settings.Lazy,
		)
		config.LogResolvedValues(settings.Values)
	}
}
