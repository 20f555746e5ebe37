// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"interactive-choice/internal/logger"
	"interactive-choice/internal/question"
	"interactive-choice/internal/runner"
)

// AskUserTool is the only tool this server exposes.
const AskUserTool = "ask_user"

// Launcher runs the chooser for one question.
type Launcher interface {
	Run(ctx context.Context, in question.Input, timeout time.Duration) (runner.Outcome, error)
}

func askUserSchema(defaultTimeout time.Duration) ToolSchema {
	return ToolSchema{
		Name:        AskUserTool,
		Description: "Ask the user a question with several choices via a native GUI window. Supports Markdown in the body and a recommended choice.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "(Optional) A concise, high-level summary of the decision required.",
				},
				"body": map[string]any{
					"type":        "string",
					"description": "(Optional) Detailed context or explanation. Supports Markdown (code blocks, lists, etc.) to help the user make an informed choice.",
				},
				"choices": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "(Required) A list of predefined options for the user to select from.",
				},
				"recommended": map[string]any{
					"type":        "string",
					"description": "(Optional) One of the exact strings from the 'choices' array that the agent recommends. The UI will highlight this option.",
				},
				"allowCustom": map[string]any{
					"type":        "boolean",
					"description": "(Optional) Whether to provide a text area for the user to type a custom response not in the choices list. Defaults to false.",
					"default":     false,
				},
				"timeoutSec": map[string]any{
					"type":        "number",
					"description": fmt.Sprintf("(Optional) How long to wait for a user response in seconds. Defaults to %d. If exceeded, the tool returns a timeout error.", int(defaultTimeout.Seconds())),
				},
			},
			"required": []string{"choices"},
		},
	}
}

// callAskUser runs one ask_user invocation. Protocol-level failures come
// back as *mcpError; everything the user did (or did not do) is a tool
// result.
func (s *Server) callAskUser(ctx context.Context, rawArgs json.RawMessage) (CallToolResult, *mcpError) {
	var req question.AskRequest
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &req); err != nil {
			return CallToolResult{}, &mcpError{Code: codeInvalidParams, Message: fmt.Sprintf("invalid arguments for %s: %v", AskUserTool, err)}
		}
	}

	in, err := req.BuildInput()
	if err != nil {
		return CallToolResult{}, &mcpError{Code: codeInvalidParams, Message: err.Error()}
	}

	timeout := req.Timeout(s.defaultTimeout)
	logger.Info("asking user", "title", in.Title, "choices", len(in.Choices), "timeout", timeout)

	out, err := s.launcher.Run(ctx, in, timeout)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return CallToolResult{}, &mcpError{Code: codeInternalError, Message: "request cancelled"}
		}
		return CallToolResult{}, &mcpError{Code: codeInternalError, Message: fmt.Sprintf("Failed to launch interactive window: %v", err)}
	}

	switch {
	case out.TimedOut:
		return textResult("Error: User feedback timed out.", true), nil
	case out.ExitCode != 0:
		return textResult(fmt.Sprintf("Tool window closed unexpectedly (code %d)", out.ExitCode), true), nil
	}

	answer, err := question.ParseToolResult(out.Stdout)
	if err != nil {
		return textResult(err.Error(), true), nil
	}
	logger.Info("user answered", "title", in.Title)
	return textResult(answer, false), nil
}
