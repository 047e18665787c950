// Package runner executes command text through the host shell and
// classifies the result.
//
// The command is handed to the interpreter verbatim. There is no
// validation, no sandbox, no timeout and no cancellation: whoever can call
// Run can execute arbitrary code with the privileges of this process.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/deixis/myterminal/internal/shell"
	"github.com/google/uuid"
)

// Runner executes commands through a shell interpreter.
// It holds no mutable state and is safe for concurrent use.
type Runner struct {
	// Shell overrides the interpreter. The zero value selects
	// shell.Default() for the host OS.
	Shell shell.Interpreter
}

// SpawnError is returned when the interpreter process could not be
// started at all (binary missing, permission denied, resource exhaustion).
// It is distinct from a Failure outcome, where the interpreter ran and the
// command exited non-zero.
type SpawnError struct {
	Interpreter string
	Err         error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Interpreter, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Interpreter returns the interpreter Run will spawn.
func (r *Runner) Interpreter() shell.Interpreter {
	if r.Shell.IsZero() {
		return shell.Default()
	}
	return r.Shell
}

// Run spawns the interpreter with command as its only argument and blocks
// until it exits. Stdin is the null device; environment and working
// directory are inherited from the current process. Both output streams
// are captured in full.
//
// A non-zero exit is not an error: it is reported through Result.ExitCode.
// The only error returned is a *SpawnError.
func (r *Runner) Run(command string) (*Result, error) {
	sh := r.Interpreter()
	argv := sh.Argv(command)

	cmd := exec.Command(argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runID := uuid.New().String()
	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// Interpreter missing or not executable.
			return nil, &SpawnError{Interpreter: sh.Path, Err: runErr}
		}
		exitCode = exitErr.ExitCode()
		if exitCode == 0 {
			// Reported as an error but carried no status; treat as abnormal.
			exitCode = -1
		}
	}

	return &Result{
		RunID:     runID,
		Command:   command,
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		StartedAt: started,
		Duration:  elapsed,
	}, nil
}

// Execute runs command and returns its classified outcome.
func (r *Runner) Execute(command string) (Outcome, error) {
	res, err := r.Run(command)
	if err != nil {
		return Outcome{}, err
	}
	return res.Outcome(), nil
}
