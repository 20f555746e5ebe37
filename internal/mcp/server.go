// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"interactive-choice/internal/logger"

	"golang.org/x/sync/errgroup"
)

// ServerName is reported in the initialize handshake.
const ServerName = "mcp-interactive-choice"

// maxMessageSize bounds a single JSON-RPC line.
const maxMessageSize = 4 * 1024 * 1024

// Server answers MCP requests for the ask_user tool.
type Server struct {
	launcher       Launcher
	defaultTimeout time.Duration
	version        string

	writeMu sync.Mutex
	out     io.Writer

	// calls tracks in-flight tools/call requests.
	calls errgroup.Group
}

// NewServer creates a server that spawns choosers through launcher.
func NewServer(launcher Launcher, defaultTimeout time.Duration, version string) *Server {
	return &Server{
		launcher:       launcher,
		defaultTimeout: defaultTimeout,
		version:        version,
	}
}

// Serve reads requests from r until EOF and writes replies to w.
// tools/call requests run concurrently, so several questions can be open at
// once; Serve waits for them before returning.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = w
	defer func() { _ = s.calls.Wait() }()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req mcpRequest
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Warn("failed to parse JSON-RPC message", "error", err)
			s.reply(nil, nil, &mcpError{Code: codeParseError, Message: "parse error"})
			continue
		}

		if req.isNotification() {
			logger.Debug("notification", "method", req.Method)
			continue
		}

		if req.JSONRPC != jsonrpcVersion {
			s.reply(req.ID, nil, &mcpError{Code: codeInvalidRequest, Message: "invalid jsonrpc version"})
			continue
		}

		if req.Method == "tools/call" {
			// The scanner reuses its buffer.
			req.ID = append(json.RawMessage(nil), req.ID...)
			req.Params = append(json.RawMessage(nil), req.Params...)
			s.calls.Go(func() error {
				result, rpcErr := s.handleCallTool(ctx, req.Params)
				s.reply(req.ID, result, rpcErr)
				return nil
			})
			continue
		}

		result, rpcErr := s.handle(req)
		s.reply(req.ID, result, rpcErr)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read MCP input: %w", err)
	}
	return nil
}

func (s *Server) handle(req mcpRequest) (any, *mcpError) {
	switch req.Method {
	case "initialize":
		var p initializeParams
		if len(req.Params) > 0 {
			_ = json.Unmarshal(req.Params, &p)
		}
		version := p.ProtocolVersion
		if version == "" {
			version = DefaultProtocolVersion
		}
		return initializeResult{
			ProtocolVersion: version,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      serverInfo{Name: ServerName, Version: s.version},
		}, nil
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return listToolsResult{Tools: []ToolSchema{askUserSchema(s.defaultTimeout)}}, nil
	default:
		return nil, &mcpError{Code: codeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", req.Method)}
	}
}

func (s *Server) handleCallTool(ctx context.Context, raw json.RawMessage) (any, *mcpError) {
	var p callToolParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &mcpError{Code: codeInvalidParams, Message: fmt.Sprintf("invalid tools/call params: %v", err)}
	}
	if p.Name != AskUserTool {
		return nil, &mcpError{Code: codeMethodNotFound, Message: fmt.Sprintf("Tool not found: %s", p.Name)}
	}

	result, rpcErr := s.callAskUser(ctx, p.Arguments)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return result, nil
}

func (s *Server) reply(id json.RawMessage, result any, rpcErr *mcpError) {
	if id == nil {
		id = json.RawMessage("null")
	}
	resp := mcpResponse{JSONRPC: jsonrpcVersion, ID: id}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}

	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to encode JSON-RPC response", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		logger.Error("failed to write JSON-RPC response", "error", err)
	}
}
