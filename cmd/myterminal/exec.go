package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/deixis/myterminal/internal/history"
)

// Exit codes for exec. A command failure and a spawn failure never share
// a code, and neither is used for bad invocations.
const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
	exitSpawn   = 3
)

type execRecord struct {
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
}

// execMain runs its single argument through the host shell and returns
// the process exit code. The argument is passed as-is, including the
// empty string.
func execMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: myterminal exec [-json] <command>

Quote the command line so the shell receives it as one argument.`)
		fs.PrintDefaults()
	}
	asJSON := fs.Bool("json", false, "print the run as a JSON record")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitSuccess
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "exec: expected exactly one command argument, got %d\n", fs.NArg())
		fs.Usage()
		return exitUsage
	}
	command := fs.Arg(0)

	env, err := newEnv()
	if err != nil {
		fmt.Fprintf(stderr, "exec: %v\n", err)
		return exitUsage
	}

	started := time.Now()
	res, runErr := env.runner.Run(command)

	// Run only fails when the interpreter could not be started.
	var entry *history.Entry
	if runErr != nil {
		entry = history.FromSpawnError(command, started, runErr)
	} else {
		entry = history.FromResult(res)
	}

	if err := env.store.Save(entry); err != nil {
		fmt.Fprintf(stderr, "saving history: %v\n", err)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(execRecord{
			RunID:    entry.ID,
			Status:   entry.Status,
			ExitCode: entry.ExitCode,
			Output:   entry.Output,
		}); err != nil {
			fmt.Fprintf(stderr, "exec: encoding record: %v\n", err)
		}
	} else {
		switch entry.Status {
		case history.StatusSuccess:
			fmt.Fprint(stdout, entry.Output)
		case history.StatusSpawnError:
			fmt.Fprintf(stderr, "spawn failed: %s\n", entry.Output)
		default:
			fmt.Fprint(stderr, entry.Output)
		}
	}

	switch entry.Status {
	case history.StatusSuccess:
		return exitSuccess
	case history.StatusSpawnError:
		return exitSpawn
	}
	return exitFailure
}
