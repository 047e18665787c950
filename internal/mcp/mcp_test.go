package mcp

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/deixis/myterminal/internal/history"
	"github.com/deixis/myterminal/internal/opener"
	"github.com/deixis/myterminal/internal/runner"
	"github.com/deixis/myterminal/internal/shell"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setup creates a myterminal MCP server + client over in-memory transports.
func setup(t *testing.T, r *runner.Runner, opts ...ServerOption) (*mcp.ClientSession, *history.LRUStore) {
	t.Helper()
	ctx := context.Background()

	store := history.NewLRUStore(10, nil)
	server := NewServer(r, store, opts...)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs, store
}

func posix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell scenarios")
	}
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func structuredField(t *testing.T, r *mcp.CallToolResult, key string) any {
	t.Helper()
	m, ok := r.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("StructuredContent = %T, want object", r.StructuredContent)
	}
	return m[key]
}

func TestListTools(t *testing.T) {
	cs, _ := setup(t, &runner.Runner{})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"execute_command", "history", "open"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

// --- execute_command ---

func TestExecute_Success(t *testing.T) {
	posix(t)
	cs, store := setup(t, &runner.Runner{})
	res := callTool(t, cs, "execute_command", map[string]any{"command": "echo hello"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if got := resultText(res); got != "hello\n" {
		t.Errorf("text = %q, want %q", got, "hello\n")
	}
	if got := structuredField(t, res, "status"); got != "success" {
		t.Errorf("status = %v, want success", got)
	}
	if store.Len() != 1 {
		t.Errorf("history Len() = %d, want 1", store.Len())
	}
}

func TestExecute_FailureStderr(t *testing.T) {
	posix(t)
	cs, _ := setup(t, &runner.Runner{})
	res := callTool(t, cs, "execute_command", map[string]any{"command": "echo oops 1>&2; exit 2"})
	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	if got := resultText(res); got != "oops\n" {
		t.Errorf("text = %q, want %q", got, "oops\n")
	}
	if got := structuredField(t, res, "status"); got != "failure" {
		t.Errorf("status = %v, want failure", got)
	}
	if got := structuredField(t, res, "exit_code"); got != float64(2) {
		t.Errorf("exit_code = %v, want 2", got)
	}
}

func TestExecute_FailureEmpty(t *testing.T) {
	posix(t)
	cs, _ := setup(t, &runner.Runner{})
	res := callTool(t, cs, "execute_command", map[string]any{"command": "exit 1"})
	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	if got := resultText(res); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestExecute_SpawnFailure(t *testing.T) {
	r := &runner.Runner{Shell: shell.Interpreter{Path: "/nonexistent/interpreter-xyz", Flag: "-c"}}
	cs, store := setup(t, r)
	res := callTool(t, cs, "execute_command", map[string]any{"command": "echo hello"})
	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	text := resultText(res)
	if !strings.HasPrefix(text, "spawn failed: ") {
		t.Errorf("text = %q, want spawn failed prefix", text)
	}
	if got := structuredField(t, res, "status"); got != history.StatusSpawnError {
		t.Errorf("status = %v, want %s", got, history.StatusSpawnError)
	}
	if recent := store.Recent(1); len(recent) != 1 || recent[0].Status != history.StatusSpawnError {
		t.Errorf("history = %v, want one spawn_error entry", recent)
	}
}

// --- history ---

func TestHistory_ListAndLoad(t *testing.T) {
	posix(t)
	cs, _ := setup(t, &runner.Runner{})

	res := callTool(t, cs, "history", nil)
	if !strings.Contains(resultText(res), "No commands") {
		t.Errorf("expected empty history, got:\n%s", resultText(res))
	}

	exec := callTool(t, cs, "execute_command", map[string]any{"command": "echo first"})
	runID, _ := structuredField(t, exec, "run_id").(string)
	if runID == "" {
		t.Fatal("run_id is empty")
	}
	callTool(t, cs, "execute_command", map[string]any{"command": "echo second"})

	res = callTool(t, cs, "history", map[string]any{"limit": 1})
	text := resultText(res)
	if !strings.Contains(text, "Recent runs (1)") || !strings.Contains(text, "echo second") {
		t.Errorf("expected most recent run only, got:\n%s", text)
	}

	res = callTool(t, cs, "history", map[string]any{"run_id": runID})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	text = resultText(res)
	if !strings.Contains(text, "Command: echo first") || !strings.Contains(text, "first\n") {
		t.Errorf("expected run details, got:\n%s", text)
	}
}

func TestHistory_UnknownRun(t *testing.T) {
	cs, _ := setup(t, &runner.Runner{})
	res := callTool(t, cs, "history", map[string]any{"run_id": "missing"})
	if !res.IsError {
		t.Errorf("IsError = false, want true; text:\n%s", resultText(res))
	}
}

// --- open ---

func TestOpen(t *testing.T) {
	posix(t)
	var opened string
	op := &opener.Opener{Argv: func(target string) []string {
		opened = target
		return []string{"true"}
	}}
	cs, _ := setup(t, &runner.Runner{}, WithOpener(op))

	res := callTool(t, cs, "open", map[string]any{"target": "https://example.com"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if opened != "https://example.com" {
		t.Errorf("opened = %q, want %q", opened, "https://example.com")
	}
}

func TestOpen_Failure(t *testing.T) {
	op := &opener.Opener{Argv: func(target string) []string {
		return []string{"/nonexistent/opener-xyz", target}
	}}
	cs, _ := setup(t, &runner.Runner{}, WithOpener(op))

	res := callTool(t, cs, "open", map[string]any{"target": "notes.txt"})
	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	if !strings.Contains(resultText(res), "open failed") {
		t.Errorf("text = %q, want 'open failed'", resultText(res))
	}
}
