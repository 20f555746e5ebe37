// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"interactive-choice/cmd/tui"
	"interactive-choice/internal/app"
	"interactive-choice/internal/config"
	"interactive-choice/internal/logger"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X interactive-choice/cmd/cli.version=...".
var version = "dev"

var (
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
)

var (
	configPathFlag string
	inputFlag      string
	hostFlag       string
	portFlag       int
	noBrowserFlag  bool
	debugFlag      bool

	// appConfig is loaded once per invocation by PersistentPreRunE.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "choice",
	Short: "Ask the user to pick one of several choices",
	Long: `Shows a question with a list of choices and prints the user's answer to
standard output as a single JSON line.

The question is passed as JSON with --input:

  {"title": "...", "body": "Markdown", "choices": ["a", "b"],
   "recommendedIndex": 0, "allowCustom": true}

The question is shown in the terminal when one is attached and in the
browser otherwise. Closing the window without answering prints
{"choice":null,"index":-1,"custom_input":null}.`,
	Example: `  choice --input '{"title":"Deploy?","choices":["yes","no"]}'
  choice --host web --input '{"choices":["a","b"],"allowCustom":true}'`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	RunE: runChooser,
}

// RunCLI executes the root command and exits with status 1 on failure.
func RunCLI() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file (default is $XDG_CONFIG_HOME/interactive-choice/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug records, also to stderr")

	rootCmd.Flags().StringVar(&inputFlag, "input", "{}", "question as a JSON document")
	rootCmd.Flags().StringVar(&hostFlag, "host", "", "front end to use: auto, tui or web (default from config)")
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "loopback port for the web host (0 picks a free port)")
	rootCmd.Flags().BoolVar(&noBrowserFlag, "no-browser", false, "print the page URL instead of opening the browser")
	if err := rootCmd.RegisterFlagCompletionFunc("host", hostCompletionFunc); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (config.Config, error) {
	if configPathFlag != "" {
		path, err := config.ResolvePath(configPathFlag)
		if err != nil {
			return config.Config{}, err
		}
		return config.LoadFrom(path)
	}
	return config.LoadConfig()
}

// initLogging sets up the logger for this invocation. --debug forces debug
// records onto stderr unless quiet.
func initLogging(quiet bool) {
	level := logger.ParseLevel(appConfig.LogLevel)
	if debugFlag {
		level = slog.LevelDebug
	}
	logger.InitLogger(quiet, level)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// resolveHost turns the configured host name into tui or web. auto picks
// the terminal UI when both stdin and stderr are terminals.
func resolveHost(name string) (string, error) {
	switch name {
	case config.HostTUI, config.HostWeb:
		return name, nil
	case config.HostAuto, "":
		if isTerminal(os.Stdin) && isTerminal(os.Stderr) {
			return config.HostTUI, nil
		}
		return config.HostWeb, nil
	default:
		return "", fmt.Errorf("unknown host %q (want %s, %s or %s)", name, config.HostAuto, config.HostTUI, config.HostWeb)
	}
}

func runChooser(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cmd.Flags().Changed("host") {
		cfg.Host = hostFlag
	}
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = portFlag
	}
	if noBrowserFlag {
		cfg.Web.OpenBrowser = false
	}

	host, err := resolveHost(cfg.Host)
	if err != nil {
		return err
	}

	// stderr belongs to the terminal UI; otherwise it carries records only
	// when debugging.
	initLogging(host == config.HostTUI || !debugFlag)

	a := newChooserApp(host, os.Stdout)
	if host == config.HostTUI {
		return tui.RunTUI(a)
	}
	return runWebHost(cmd.Context(), a, cfg.Web)
}

// newChooserApp builds the app from the parsed --input flag, reporting
// results on out.
func newChooserApp(host string, out io.Writer) *app.App {
	logger.Debug("process started", "pid", os.Getpid(), "host", host, "version", version)
	logger.Debug("received CLI input", "input", inputFlag)
	return app.New(inputFlag, out)
}
