package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"interactive-choice/internal/question"
	"interactive-choice/internal/runner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLauncher struct {
	mu       sync.Mutex
	inputs   []question.Input
	timeouts []time.Duration

	outcome runner.Outcome
	err     error
}

func (f *fakeLauncher) Run(_ context.Context, in question.Input, timeout time.Duration) (runner.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	f.timeouts = append(f.timeouts, timeout)
	return f.outcome, f.err
}

type rpcReply struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *mcpError       `json:"error"`
}

func serve(t *testing.T, l Launcher, lines ...string) map[string]rpcReply {
	t.Helper()
	s := NewServer(l, 60*time.Second, "1.2.3")

	var out bytes.Buffer
	err := s.Serve(context.Background(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, err)

	replies := map[string]rpcReply{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var r rpcReply
		require.NoError(t, json.Unmarshal([]byte(line), &r), line)
		replies[string(r.ID)] = r
	}
	return replies
}

func decodeToolResult(t *testing.T, raw json.RawMessage) CallToolResult {
	t.Helper()
	var res CallToolResult
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Len(t, res.Content, 1)
	return res
}

func TestInitializeAndList(t *testing.T) {
	replies := serve(t, &fakeLauncher{},
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":"p","method":"ping"}`,
	)
	require.Len(t, replies, 3)

	var init initializeResult
	require.NoError(t, json.Unmarshal(replies["1"].Result, &init))
	assert.Equal(t, "2025-03-26", init.ProtocolVersion)
	assert.Equal(t, ServerName, init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", init.ServerInfo.Version)
	assert.Contains(t, init.Capabilities, "tools")

	var list listToolsResult
	require.NoError(t, json.Unmarshal(replies["2"].Result, &list))
	require.Len(t, list.Tools, 1)
	assert.Equal(t, AskUserTool, list.Tools[0].Name)
	assert.Equal(t, []any{"choices"}, list.Tools[0].InputSchema["required"])

	assert.JSONEq(t, `{}`, string(replies[`"p"`].Result))
}

func TestInitializeDefaultsProtocolVersion(t *testing.T) {
	replies := serve(t, &fakeLauncher{}, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	var init initializeResult
	require.NoError(t, json.Unmarshal(replies["1"].Result, &init))
	assert.Equal(t, DefaultProtocolVersion, init.ProtocolVersion)
}

func TestAskUserReturnsChoice(t *testing.T) {
	l := &fakeLauncher{outcome: runner.Outcome{Stdout: question.ChoiceResult("Beta", 1).Encode() + "\n"}}
	replies := serve(t, l,
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"ask_user","arguments":{"title":"Pick","body":"**why**","choices":["Alpha","Beta"],"recommended":" Beta ","allowCustom":true,"timeoutSec":5}}}`,
	)

	res := decodeToolResult(t, replies["7"].Result)
	assert.False(t, res.IsError)
	assert.Equal(t, "Beta", res.Content[0].Text)

	require.Len(t, l.inputs, 1)
	assert.Equal(t, question.Input{
		Title:            "Pick",
		Body:             "**why**",
		Choices:          []string{"Alpha", "Beta"},
		RecommendedIndex: 1,
		AllowCustom:      true,
	}, l.inputs[0])
	assert.Equal(t, 5*time.Second, l.timeouts[0])
}

func TestAskUserDefaults(t *testing.T) {
	l := &fakeLauncher{outcome: runner.Outcome{Stdout: ""}}
	replies := serve(t, l,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["a"]}}}`,
	)

	res := decodeToolResult(t, replies["1"].Result)
	assert.Equal(t, question.CancelledMessage, res.Content[0].Text)
	assert.Equal(t, question.DefaultTitle, l.inputs[0].Title)
	assert.Equal(t, -1, l.inputs[0].RecommendedIndex)
	assert.Equal(t, 60*time.Second, l.timeouts[0])
}

func TestAskUserOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		outcome runner.Outcome
		text    string
		isError bool
	}{
		{"custom", runner.Outcome{Stdout: question.CustomResult("do X").Encode()}, "do X", false},
		{"closed", runner.Outcome{Stdout: question.CancelResult().Encode()}, question.CancelledMessage, false},
		{"timeout", runner.Outcome{TimedOut: true, ExitCode: -1}, "Error: User feedback timed out.", true},
		{"crash", runner.Outcome{ExitCode: 101}, "Tool window closed unexpectedly (code 101)", true},
		{"garbage", runner.Outcome{Stdout: "oops"}, "Error parsing result: oops", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			replies := serve(t, &fakeLauncher{outcome: tc.outcome},
				`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["a","b"]}}}`,
			)
			res := decodeToolResult(t, replies["1"].Result)
			assert.Equal(t, tc.text, res.Content[0].Text)
			assert.Equal(t, tc.isError, res.IsError)
		})
	}
}

func TestAskUserProtocolErrors(t *testing.T) {
	l := &fakeLauncher{err: errors.New("exec: no such file")}
	replies := serve(t, l,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["a"],"recommended":"z"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"delete_everything","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["a"]}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"resources/list"}`,
		`{not json`,
	)

	require.NotNil(t, replies["1"].Error)
	assert.Equal(t, codeInvalidParams, replies["1"].Error.Code)
	assert.Equal(t, `recommended choice "z" does not match any available choices. Available: a`, replies["1"].Error.Message)

	require.NotNil(t, replies["2"].Error)
	assert.Equal(t, codeMethodNotFound, replies["2"].Error.Code)
	assert.Equal(t, "Tool not found: delete_everything", replies["2"].Error.Message)

	require.NotNil(t, replies["3"].Error)
	assert.Equal(t, codeInternalError, replies["3"].Error.Code)
	assert.Equal(t, "Failed to launch interactive window: exec: no such file", replies["3"].Error.Message)

	require.NotNil(t, replies["4"].Error)
	assert.Equal(t, codeMethodNotFound, replies["4"].Error.Code)

	require.NotNil(t, replies["null"].Error)
	assert.Equal(t, codeParseError, replies["null"].Error.Code)

	// Only the call that got past validation reached the launcher.
	assert.Len(t, l.inputs, 1)
}

func TestRejectsWrongJSONRPCVersion(t *testing.T) {
	l := &fakeLauncher{outcome: runner.Outcome{Stdout: `{"choice":"a","index":0,"custom_input":null}`}}
	replies := serve(t, l,
		`{"jsonrpc":"1.0","id":1,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["a"]}}}`,
		`{"id":2,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["a"]}}}`,
		`{"jsonrpc":"1.0","id":3,"method":"tools/list"}`,
	)

	for _, id := range []string{"1", "2", "3"} {
		require.NotNil(t, replies[id].Error, id)
		assert.Equal(t, codeInvalidRequest, replies[id].Error.Code, id)
		assert.Equal(t, "invalid jsonrpc version", replies[id].Error.Message, id)
	}
	assert.Empty(t, l.inputs)
}

// blockingLauncher holds every call until release is closed.
type blockingLauncher struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingLauncher) Run(ctx context.Context, in question.Input, _ time.Duration) (runner.Outcome, error) {
	b.started <- struct{}{}
	<-b.release
	return runner.Outcome{Stdout: question.ChoiceResult(in.Choices[0], 0).Encode()}, nil
}

func TestCallsRunConcurrently(t *testing.T) {
	b := &blockingLauncher{started: make(chan struct{}, 2), release: make(chan struct{})}
	s := NewServer(b, time.Minute, "test")

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["one"]}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"ask_user","arguments":{"choices":["two"]}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- s.Serve(context.Background(), strings.NewReader(input), &out) }()

	// Both calls must be in flight at the same time.
	for i := 0; i < 2; i++ {
		select {
		case <-b.started:
		case <-time.After(5 * time.Second):
			t.Fatal("tool calls did not run concurrently")
		}
	}
	close(b.release)
	require.NoError(t, <-done)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, out.String(), `"text":"one"`)
	assert.Contains(t, out.String(), `"text":"two"`)
}
