// Package mcp exposes the command executor to front-ends as an MCP server.
package mcp

import (
	_ "embed"
	"log/slog"

	"github.com/deixis/myterminal"
	"github.com/deixis/myterminal/internal/history"
	"github.com/deixis/myterminal/internal/opener"
	"github.com/deixis/myterminal/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	runner *runner.Runner
	store  *history.LRUStore
	opener *opener.Opener
	log    *slog.Logger
}

// NewServer creates an MCP server with all myterminal tools registered.
func NewServer(r *runner.Runner, store *history.LRUStore, opts ...ServerOption) *mcp.Server {
	so := serverOptions{
		opener: &opener.Opener{},
		log:    slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(&so)
	}

	h := &handler{
		runner: r,
		store:  store,
		opener: so.opener,
		log:    so.log,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "myterminal", Version: myterminal.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "execute_command",
		Description: `Run a command line through the host shell and return its output.

The command is passed verbatim to sh -c (POSIX) or cmd /C (Windows) and runs
unsandboxed with this server's privileges. The call blocks until the command exits.
A non-zero exit is reported as an error result carrying stderr (or stdout if stderr is empty).`,
	}, h.executeHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "history",
		Description: "List recent command executions, or show one execution by run_id.",
	}, h.historyHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "open",
		Description: "Open a URL or file path with the desktop's default application.",
	}, h.openHandler)

	return s
}

// ServerOption configures the MCP server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	opener *opener.Opener
	log    *slog.Logger
}

// WithLogger sets the logger used to record executions.
func WithLogger(log *slog.Logger) ServerOption {
	return func(o *serverOptions) {
		o.log = log
	}
}

// WithOpener replaces the desktop opener.
func WithOpener(op *opener.Opener) ServerOption {
	return func(o *serverOptions) {
		o.opener = op
	}
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
