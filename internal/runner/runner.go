// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package runner launches the chooser as a child process and collects its
// single result line.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"interactive-choice/internal/config"
	"interactive-choice/internal/logger"
	"interactive-choice/internal/question"
)

// waitDelay bounds how long Wait blocks on pipes held open by a killed
// child's descendants.
const waitDelay = 2 * time.Second

// Outcome describes how a chooser run ended.
type Outcome struct {
	Stdout   string
	ExitCode int
	TimedOut bool
}

// Launcher spawns the chooser binary.
type Launcher struct {
	// BinaryPath is the chooser executable.
	BinaryPath string

	// Args are placed before --input, e.g. a host selection.
	Args []string

	// Env is appended to the current environment.
	Env []string

	// Stderr receives the child's stderr. Nil means os.Stderr.
	Stderr io.Writer
}

// ResolveBinaryPath returns explicit (with ~/ expanded) when set, otherwise
// the running executable: the binary is its own chooser.
func ResolveBinaryPath(explicit string) (string, error) {
	if explicit != "" {
		return config.ResolvePath(explicit)
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("could not locate own executable: %w", err)
	}
	return self, nil
}

// Run spawns `<binary> [Args...] --input <json>` and waits for it to exit or
// for timeout to pass, in which case the child is killed and the outcome is
// marked TimedOut. A returned error means the child could not be started or
// ctx itself was cancelled.
func (l *Launcher) Run(ctx context.Context, in question.Input, timeout time.Duration) (Outcome, error) {
	raw, err := in.Encode()
	if err != nil {
		return Outcome{}, err
	}

	runCtx := ctx
	var cancel context.CancelFunc = func() {}
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	args := append(append([]string{}, l.Args...), "--input", raw)
	cmd := exec.CommandContext(runCtx, l.BinaryPath, args...)
	cmd.WaitDelay = waitDelay
	if len(l.Env) > 0 {
		cmd.Env = append(os.Environ(), l.Env...)
	}
	cmd.Stdin = nil
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	var stdout strings.Builder
	cmd.Stdout = &stdout

	cmdDesc := fmt.Sprintf("chooser %s", l.BinaryPath)
	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("failed to start %s: %w", cmdDesc, err)
	}
	logger.Debug("chooser started", "pid", cmd.Process.Pid, "timeout", timeout)

	cmdErr := cmd.Wait()

	out := Outcome{Stdout: stdout.String()}

	if cmdErr == nil {
		return out, nil
	}

	out.ExitCode = -1
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		out.TimedOut = true
		logger.Info("chooser timed out", "timeout", timeout)
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(cmdErr, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		logger.Warn("chooser exited with non-zero status", "code", out.ExitCode)
		return out, nil
	}
	return out, fmt.Errorf("%s failed: %w", cmdDesc, cmdErr)
}
