// Package history records command executions so a front-end can look
// them up after the fact. The executor itself keeps no state; servers
// save an Entry per call.
package history

import (
	"fmt"
	"time"

	"github.com/deixis/myterminal/internal/runner"
	"github.com/google/uuid"
)

// Status values stored on an Entry. Success and failure mirror
// runner.Status; SpawnError marks calls whose interpreter never started.
const (
	StatusSuccess    = string(runner.Success)
	StatusFailure    = string(runner.Failure)
	StatusSpawnError = "spawn_error"
)

// Store persists and retrieves entries.
type Store interface {
	Save(entry *Entry) error
	Load(runID string) (*Entry, error)
}

// Entry is one recorded execution.
type Entry struct {
	ID        string        `json:"id"`
	Command   string        `json:"command"`
	Status    string        `json:"status"`
	ExitCode  int           `json:"exit_code"`
	Output    string        `json:"output"` // classified text, or the spawn error
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// FromResult records a completed execution.
func FromResult(res *runner.Result) *Entry {
	out := res.Outcome()
	return &Entry{
		ID:        res.RunID,
		Command:   res.Command,
		Status:    string(out.Status),
		ExitCode:  res.ExitCode,
		Output:    out.Text,
		StartedAt: res.StartedAt,
		Duration:  res.Duration,
	}
}

// FromSpawnError records an execution whose interpreter could not start.
func FromSpawnError(command string, started time.Time, err error) *Entry {
	return &Entry{
		ID:        uuid.New().String(),
		Command:   command,
		Status:    StatusSpawnError,
		ExitCode:  -1,
		Output:    err.Error(),
		StartedAt: started,
		Duration:  time.Since(started),
	}
}

// String renders the entry for display.
func (e *Entry) String() string {
	return fmt.Sprintf("%s  %s  exit=%d  %s  %s",
		e.StartedAt.Format(time.RFC3339), e.ID, e.ExitCode, e.Status, e.Command)
}

// Open returns an in-memory store of the given size, backed by a
// DiskStore when dir is non-empty.
func Open(size int, dir string) *LRUStore {
	if dir == "" {
		return NewLRUStore(size, nil)
	}
	return NewLRUStore(size, NewDiskStore(dir))
}
