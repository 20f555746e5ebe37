// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interactive-choice/internal/logger"
	"interactive-choice/internal/mcp"
	"interactive-choice/internal/runner"

	"github.com/spf13/cobra"
)

var (
	mcpTimeoutSec float64
	mcpBinaryPath string
	mcpStdio      bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol server on stdio",
	Long: `Runs an MCP server on stdin/stdout exposing the ask_user tool. Each call
opens a chooser window (this binary, or --binary-path) and returns the
user's answer as the tool result.`,
	Example: `  choice mcp
  choice mcp --timeout 300`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging(false)

		timeout := appConfig.MCP.Timeout
		if cmd.Flags().Changed("timeout") {
			timeout = time.Duration(mcpTimeoutSec * float64(time.Second))
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}

		binaryPath := appConfig.MCP.BinaryPath
		if cmd.Flags().Changed("binary-path") {
			binaryPath = mcpBinaryPath
		}
		bin, err := runner.ResolveBinaryPath(binaryPath)
		if err != nil {
			return err
		}

		var launcherArgs []string
		if configPathFlag != "" {
			launcherArgs = append(launcherArgs, "--config", configPathFlag)
		}
		if debugFlag {
			launcherArgs = append(launcherArgs, "--debug")
		}

		srv := mcp.NewServer(&runner.Launcher{BinaryPath: bin, Args: launcherArgs}, timeout, version)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintln(os.Stderr, "Interactive Choice MCP Server running on stdio")
		logger.Info("mcp server started", "binary", bin, "timeout", timeout)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Serve(ctx, os.Stdin, os.Stdout) }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			// Open questions are killed through ctx; stdin may never reach EOF.
			logger.Info("mcp server interrupted")
			return nil
		}
	},
}

func init() {
	mcpCmd.Flags().Float64Var(&mcpTimeoutSec, "timeout", 60, "default seconds a user has to answer")
	mcpCmd.Flags().StringVar(&mcpBinaryPath, "binary-path", "", "chooser executable to spawn (default: this binary)")
	mcpCmd.Flags().BoolVar(&mcpStdio, "stdio", true, "serve on stdio (the only transport)")
	_ = mcpCmd.Flags().MarkHidden("stdio")
}
