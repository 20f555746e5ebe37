// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"interactive-choice/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dimColor is used for less important/secondary text in the CLI output
var dimColor = color.New(color.Faint)

var configInitForce bool

// configCmd is the parent command for all configuration-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage interactive-choice configuration",
	Long: `Provides subcommands to inspect and change the configuration file.
Flags given on the command line always override the file.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := currentConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := currentConfigPath()
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			dimColor.Fprintf(os.Stderr, "# %s does not exist, showing defaults\n", path)
		} else {
			dimColor.Fprintf(os.Stderr, "# %s\n", path)
		}

		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := currentConfigPath()
		if err != nil {
			return err
		}
		if _, statErr := os.Stat(path); statErr == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := saveCurrentConfig(config.Default()); err != nil {
			return err
		}
		successColor.Printf("Wrote default configuration to %s\n", identifierColor.Sprint(path))
		return nil
	},
}

var configSetHostCmd = &cobra.Command{
	Use:       "set-host <auto|tui|web>",
	Short:     "Set the default front end",
	Example:   "  choice config set-host web",
	Args:      cobra.ExactArgs(1),
	ValidArgs: hostNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		cfg.Host = strings.ToLower(args[0])
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := saveCurrentConfig(cfg); err != nil {
			return err
		}
		successColor.Printf("Default host set to: %s\n", identifierColor.Sprint(cfg.Host))
		return nil
	},
}

// currentConfigPath is --config when given, otherwise the default location.
func currentConfigPath() (string, error) {
	if configPathFlag != "" {
		return config.ResolvePath(configPathFlag)
	}
	return config.DefaultConfigPath()
}

// saveCurrentConfig writes cfg to --config when given, otherwise to the
// default location.
func saveCurrentConfig(cfg config.Config) error {
	if configPathFlag != "" {
		path, err := config.ResolvePath(configPathFlag)
		if err != nil {
			return err
		}
		return config.SaveTo(path, cfg)
	}
	return config.SaveConfig(cfg)
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetHostCmd)
}
