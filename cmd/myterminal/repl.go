package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/deixis/myterminal/internal/history"
	"github.com/deixis/myterminal/internal/runner"
)

const prompt = "$ "

func replMain(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	noPrompt := fs.Bool("no-prompt", false, "never print a prompt")
	_ = fs.Parse(args)

	env, err := newEnv()
	if err != nil {
		return err
	}

	showPrompt := !*noPrompt && term.IsTerminal(int(os.Stdin.Fd()))
	return repl(os.Stdin, os.Stdout, os.Stderr, env.runner, env.store, showPrompt)
}

// repl runs each input line as a command until EOF or "exit". Success
// text goes to stdout, failure text to stderr. A spawn failure is
// reported and the loop continues.
func repl(in io.Reader, stdout, stderr io.Writer, r *runner.Runner, store history.Store, showPrompt bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	for {
		if showPrompt {
			fmt.Fprint(stdout, prompt)
		}
		if !sc.Scan() {
			break
		}
		// The line runs as typed; trimming only decides blank and exit.
		line := sc.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit":
			return nil
		}

		started := time.Now()
		res, err := r.Run(line)
		if err != nil {
			fmt.Fprintf(stderr, "spawn failed: %v\n", err)
			save(stderr, store, history.FromSpawnError(line, started, err))
			continue
		}

		entry := history.FromResult(res)
		save(stderr, store, entry)
		if entry.Status == history.StatusSuccess {
			fmt.Fprint(stdout, entry.Output)
		} else {
			fmt.Fprint(stderr, entry.Output)
		}
	}
	if showPrompt {
		fmt.Fprintln(stdout)
	}
	return sc.Err()
}

func save(stderr io.Writer, store history.Store, entry *history.Entry) {
	if err := store.Save(entry); err != nil {
		fmt.Fprintf(stderr, "saving history: %v\n", err)
	}
}
