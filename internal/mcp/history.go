package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/myterminal/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultHistoryLimit is the number of entries listed when no limit is given.
const defaultHistoryLimit = 20

type historyParams struct {
	RunID string `json:"run_id,omitempty" jsonschema:"run ID returned by execute_command; omit to list recent runs"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of recent runs to list (default 20)"`
}

func (h *handler) historyHandler(ctx context.Context, req *mcp.CallToolRequest, params historyParams) (*mcp.CallToolResult, any, error) {
	if params.RunID != "" {
		entry, err := h.store.Load(params.RunID)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
		}
		return textResult(formatEntry(entry))
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	entries := h.store.Recent(limit)
	if len(entries) == 0 {
		return textResult("No commands have been executed yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent runs (%d):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	return textResult(b.String())
}

func formatEntry(e *history.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s\n", e.ID)
	fmt.Fprintf(&b, "Command: %s\n", e.Command)
	fmt.Fprintf(&b, "Status: %s (exit %d)\n", e.Status, e.ExitCode)
	fmt.Fprintf(&b, "Started: %s (%s)\n", e.StartedAt.Format("2006-01-02 15:04:05"), e.Duration)
	fmt.Fprintln(&b)
	fmt.Fprint(&b, e.Output)
	return b.String()
}
