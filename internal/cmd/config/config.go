// Package config provides CLI command implementations for the config command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/wplizard/cli/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *config.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the wplizard CLI.`,
	}

	c.AddCommand(NewConfigInitCmd(cfg))
	c.AddCommand(NewConfigVetCmd(cfg))

	return c
}

// configPath returns the --config value if given, otherwise the default location.
func configPath(cfg *config.GlobalConfig) (string, error) {
	res, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: cfg.ConfigFlag})
	if err != nil {
		return "", err
	}
	return config.ExpandPath(res.ConfigPath)
}
