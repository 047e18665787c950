package runner

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Result holds the raw output of one command execution.
type Result struct {
	RunID     string        // unique identifier for this run
	Command   string        // command text as received
	ExitCode  int           // process exit code; -1 if killed by a signal
	Stdout    []byte        // captured stdout, in full
	Stderr    []byte        // captured stderr, in full
	StartedAt time.Time     // when the interpreter was spawned
	Duration  time.Duration // wall time until the interpreter exited
}

// Status tags an Outcome.
type Status string

const (
	// Success means the command exited with status zero.
	Success Status = "success"
	// Failure means the command exited non-zero or was terminated abnormally.
	Failure Status = "failure"
)

// Outcome is the classified result of a command: the stdout text on
// success, or the diagnostic text on failure.
type Outcome struct {
	Status Status
	Text   string
}

// OK reports whether the outcome is a Success.
func (o Outcome) OK() bool {
	return o.Status == Success
}

// Outcome classifies the result by exit code.
func (r *Result) Outcome() Outcome {
	return Classify(r.ExitCode, r.Stdout, r.Stderr)
}

// Classify maps an exit code and the captured streams to an Outcome.
// Exit code zero yields the stdout text. Anything else yields stderr if
// it is non-empty, then stdout, then the empty string.
func Classify(exitCode int, stdout, stderr []byte) Outcome {
	if exitCode == 0 {
		return Outcome{Status: Success, Text: Decode(stdout)}
	}
	if errText := Decode(stderr); errText != "" {
		return Outcome{Status: Failure, Text: errText}
	}
	return Outcome{Status: Failure, Text: Decode(stdout)}
}

// Decode converts captured bytes to text. Invalid UTF-8 sequences are
// replaced with U+FFFD; decoding never fails.
func Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}
