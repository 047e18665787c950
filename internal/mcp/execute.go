package mcp

import (
	"context"
	"time"

	"github.com/deixis/myterminal/internal/history"
	"github.com/deixis/myterminal/internal/tracer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type executeParams struct {
	Command string `json:"command" jsonschema:"command line passed verbatim to the host shell (sh -c on POSIX, cmd /C on Windows)"`
}

type executeOutput struct {
	RunID    string `json:"run_id" jsonschema:"identifier for looking the run up with the history tool"`
	Status   string `json:"status" jsonschema:"success, failure or spawn_error"`
	ExitCode int    `json:"exit_code" jsonschema:"process exit code; -1 if the process was killed or never started"`
	Output   string `json:"output" jsonschema:"stdout on success; stderr (or stdout) on failure; the OS error on spawn_error"`
}

// spawnPrefix marks results where the interpreter never started.
const spawnPrefix = "spawn failed: "

func (h *handler) executeHandler(ctx context.Context, req *mcp.CallToolRequest, params executeParams) (*mcp.CallToolResult, executeOutput, error) {
	ctx, span := tracer.StartExecution(ctx, h.runner.Interpreter().String())

	started := time.Now()
	res, err := h.runner.Run(params.Command)
	if err != nil {
		// Run only fails when the interpreter could not be spawned.
		entry := history.FromSpawnError(params.Command, started, err)
		h.save(ctx, entry)
		tracer.EndExecution(span, tracer.Execution{
			RunID:    entry.ID,
			Status:   entry.Status,
			ExitCode: entry.ExitCode,
			SpawnErr: err,
		})
		h.log.ErrorContext(ctx, "spawn failed", "run_id", entry.ID, "error", err)
		return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: spawnPrefix + err.Error()}},
				IsError: true,
			}, executeOutput{
				RunID:    entry.ID,
				Status:   entry.Status,
				ExitCode: entry.ExitCode,
				Output:   entry.Output,
			}, nil
	}

	entry := history.FromResult(res)
	h.save(ctx, entry)

	tracer.EndExecution(span, tracer.Execution{
		RunID:    entry.ID,
		Status:   entry.Status,
		ExitCode: entry.ExitCode,
	})
	h.log.InfoContext(ctx, "command executed",
		"run_id", entry.ID,
		"command", entry.Command,
		"status", entry.Status,
		"exit_code", entry.ExitCode,
		"duration", entry.Duration,
	)

	return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: entry.Output}},
			IsError: entry.Status != history.StatusSuccess,
		}, executeOutput{
			RunID:    entry.ID,
			Status:   entry.Status,
			ExitCode: entry.ExitCode,
			Output:   entry.Output,
		}, nil
}

// save records entry; a history failure never fails the execution.
func (h *handler) save(ctx context.Context, entry *history.Entry) {
	if err := h.store.Save(entry); err != nil {
		h.log.WarnContext(ctx, "saving history", "run_id", entry.ID, "error", err)
	}
}
