// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interactive-choice/internal/config"
	"interactive-choice/internal/logger"
	"interactive-choice/internal/question"
	"interactive-choice/internal/runner"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	askChoices     []string
	askTitle       string
	askBody        string
	askRecommended string
	askAllowCustom bool
	askTimeoutSec  float64
	askHost        string
)

var errAskTimedOut = errors.New("timed out waiting for an answer")

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question from the command line and print the answer",
	Long: `Builds a question from flags, opens a chooser for it the same way the MCP
server does and prints the answer: the custom text if one was typed,
otherwise the chosen option.`,
	Example: `  choice ask --title "Deploy?" --choice yes --choice no --recommended yes
  choice ask --body "Name the **release**" --allow-custom`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging(true)

		req := question.AskRequest{
			Title:       askTitle,
			Body:        askBody,
			Choices:     askChoices,
			AllowCustom: askAllowCustom,
			TimeoutSec:  askTimeoutSec,
		}
		if cmd.Flags().Changed("recommended") {
			req.Recommended = &askRecommended
		}
		in, err := req.BuildInput()
		if err != nil {
			var unknown *question.UnknownRecommendationError
			if errors.As(err, &unknown) {
				if hint, ok := question.ClosestChoice(unknown.Choices, unknown.Recommended); ok {
					dimColor.Fprintf(os.Stderr, "Did you mean %q?\n", hint)
				}
			}
			return err
		}

		hostName := appConfig.Host
		if cmd.Flags().Changed("host") {
			hostName = askHost
		}
		// The child's stdin is not the terminal, so decide here.
		host, err := resolveHost(hostName)
		if err != nil {
			return err
		}

		bin, err := runner.ResolveBinaryPath(appConfig.MCP.BinaryPath)
		if err != nil {
			return err
		}
		launcherArgs := []string{"--host", host}
		if configPathFlag != "" {
			launcherArgs = append(launcherArgs, "--config", configPathFlag)
		}
		launcher := &runner.Launcher{BinaryPath: bin, Args: launcherArgs}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var s *spinner.Spinner
		if host == config.HostWeb {
			statusColor.Fprintf(os.Stderr, "Asking %s\n", identifierColor.Sprint(in.DisplayTitle()))
			s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			s.Color("cyan")
			s.Suffix = " Waiting for an answer in the browser..."
			s.Start()
		}

		outcome, err := launcher.Run(ctx, in, req.Timeout(appConfig.MCP.Timeout))
		if s != nil {
			s.Stop()
		}
		if err != nil {
			return err
		}
		logger.Debug("chooser finished", "exit_code", outcome.ExitCode, "timed_out", outcome.TimedOut)

		switch {
		case outcome.TimedOut:
			return errAskTimedOut
		case outcome.ExitCode != 0:
			return fmt.Errorf("chooser closed unexpectedly (code %d)", outcome.ExitCode)
		}

		answer, err := question.ParseToolResult(outcome.Stdout)
		if err != nil {
			return err
		}
		if answer == question.CancelledMessage {
			dimColor.Fprintln(os.Stderr, "No answer: the question was closed.")
			return nil
		}

		successColor.Fprint(os.Stderr, "Answer: ")
		fmt.Println(answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringArrayVar(&askChoices, "choice", nil, "a choice to offer (repeatable)")
	askCmd.Flags().StringVar(&askTitle, "title", "", "window title (default \""+question.DefaultTitle+"\")")
	askCmd.Flags().StringVar(&askBody, "body", "", "question body in Markdown")
	askCmd.Flags().StringVar(&askRecommended, "recommended", "", "the recommended choice; must match one of --choice")
	askCmd.Flags().BoolVar(&askAllowCustom, "allow-custom", false, "let the user type a custom answer")
	askCmd.Flags().Float64Var(&askTimeoutSec, "timeout", 0, "seconds to wait for an answer (default from config)")
	askCmd.Flags().StringVar(&askHost, "host", "", "front end to use: auto, tui or web (default from config)")

	if err := askCmd.RegisterFlagCompletionFunc("host", hostCompletionFunc); err != nil {
		panic(err)
	}
	if err := askCmd.RegisterFlagCompletionFunc("recommended", choiceCompletionFunc); err != nil {
		panic(err)
	}
}
