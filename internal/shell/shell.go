// Package shell selects the command interpreter for the host OS family.
package shell

import "runtime"

// Interpreter is a shell binary and the flag that makes it run a single
// command string.
type Interpreter struct {
	Path string // resolved via PATH unless absolute
	Flag string // e.g. "-c" or "/C"
}

// ForOS returns the interpreter for the given GOOS value: cmd /C on
// Windows, sh -c everywhere else.
func ForOS(goos string) Interpreter {
	if goos == "windows" {
		return Interpreter{Path: "cmd", Flag: "/C"}
	}
	return Interpreter{Path: "sh", Flag: "-c"}
}

// Default returns the interpreter for the running host.
func Default() Interpreter {
	return ForOS(runtime.GOOS)
}

// IsZero reports whether no interpreter has been set.
func (i Interpreter) IsZero() bool {
	return i.Path == ""
}

// Argv returns the argv that runs command through the interpreter.
// The command is passed as a single argument, verbatim.
func (i Interpreter) Argv(command string) []string {
	if i.Flag == "" {
		return []string{i.Path, command}
	}
	return []string{i.Path, i.Flag, command}
}

func (i Interpreter) String() string {
	if i.Flag == "" {
		return i.Path
	}
	return i.Path + " " + i.Flag
}
