package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/forgeworks/lathe/internal"
	"github.com/forgeworks/lathe/internal/cli"
	"github.com/forgeworks/lathe/internal/sandbox"
)

// The entry point for the lathe tool.
//
// When the process was re-executed as a sandbox child, Init dispatches to
// the registered child entrypoint and the normal CLI never runs. Otherwise
// it initializes logging, displays startup information, and executes the
// root command. If any error occurs during execution, it exits with a
// non-zero code.
func main() {
	if sandbox.Init() {
		return
	}

	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("lathe is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Creates a logger seeded from build-time linker flags.
//
// The logger is reconfigured after flag parsing via cli.Execute.
func logger() *slog.Logger {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel(),
	})
	return slog.New(handler).WithGroup(internal.Name)
}

// Returns the log level derived from build-time linker flags.
func logLevel() slog.Level {
	if internal.IsDebug() {
		return slog.LevelDebug
	}
	if internal.IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
