// Command myterminal runs shell commands for the myterminal front-end.
//
// Every entry point executes its input through the host shell without
// sandboxing. Expose the MCP server only to trusted clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/deixis/myterminal"
	"github.com/deixis/myterminal/internal/config"
	"github.com/deixis/myterminal/internal/history"
	"github.com/deixis/myterminal/internal/logger"
	termmcp "github.com/deixis/myterminal/internal/mcp"
	"github.com/deixis/myterminal/internal/opener"
	"github.com/deixis/myterminal/internal/runner"
	"github.com/deixis/myterminal/internal/tracer"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("myterminal: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "exec":
		os.Exit(execMain(args, os.Stdout, os.Stderr))
	case "repl":
		err = replMain(args)
	case "serve":
		err = serveMain(args)
	case "open":
		err = openMain(args)
	case "history":
		err = historyMain(args)
	case "version":
		fmt.Println(myterminal.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "myterminal: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: myterminal <command> [flags] [args]

Commands:
  exec        Run one command line (a single argument) through the host shell
  repl        Read command lines from stdin and run each one
  serve       Start the MCP server (stdio, or HTTP with -http)
  open        Open a URL or path with the default application
  history     Show a recorded run (requires history.dir)
  version     Print the version
  help        Show this help

Commands run unsandboxed with the privileges of this process.
Use "myterminal <command> -h" for command-specific flags.`)
}

// --- serve ---

func serveMain(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	httpFlag := fs.Bool("http", false, "serve streamable HTTP instead of stdio")
	addrFlag := fs.String("addr", "", "HTTP listen address (default from config, "+config.DefaultHTTPAddr+")")
	instructions := fs.Bool("instructions", false, "print server instructions and exit")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(termmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := newEnv()
	if err != nil {
		return err
	}

	slogger, closeLog, err := newServeLogger(env.cfg.Log, *httpFlag)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdown, err := tracer.Setup(ctx, env.cfg.Trace)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(sctx)
	}()

	server := termmcp.NewServer(env.runner, env.store,
		termmcp.WithLogger(slogger),
		termmcp.WithOpener(&opener.Opener{}),
	)

	slogger.Info("starting", "version", myterminal.Version, "shell", env.runner.Interpreter().String(), "config", env.configPath)

	if *httpFlag {
		addr := *addrFlag
		if addr == "" {
			addr = env.cfg.HTTPAddr()
		}
		return serveHTTP(ctx, server, addr, slogger)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

// newServeLogger builds the server logger. Over stdio, stdout carries
// the JSON-RPC stream, so a configured stdout output falls back to stderr.
func newServeLogger(cfg config.LogConfig, overHTTP bool) (*slog.Logger, func() error, error) {
	if overHTTP {
		return logger.New(cfg)
	}
	return logger.New(cfg, logger.ReserveStdout())
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string, slogger *slog.Logger) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	slogger.Info("listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- open ---

func openMain(args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("open: expected exactly one URL or path")
	}
	o := &opener.Opener{}
	return o.Open(fs.Arg(0))
}

// --- history ---

func historyMain(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("history: expected a run ID")
	}

	env, err := newEnv()
	if err != nil {
		return err
	}
	if env.cfg.History.Dir == "" {
		return fmt.Errorf("history: history.dir is not configured")
	}

	entry, err := env.store.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(entry)
	fmt.Print(entry.Output)
	return nil
}

// --- shared ---

type env struct {
	cfg        *config.Config
	configPath string
	runner     *runner.Runner
	store      *history.LRUStore
}

func newEnv() (*env, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	return &env{
		cfg:        cfg,
		configPath: loaded.Path,
		runner:     &runner.Runner{Shell: cfg.Interpreter()},
		store:      history.Open(cfg.HistorySize(), cfg.History.Dir),
	}, nil
}
