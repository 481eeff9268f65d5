package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"github.com/forgeworks/lathe/internal"
	"github.com/forgeworks/lathe/internal/parts"
)

// Represents the root command for the lathe tool.
var RootCmd struct {
	Quiet   bool   `short:"q" help:"Suppress informational output."`
	Verbose bool   `short:"v" help:"Enable verbose output."`
	Debug   bool   `short:"d" help:"Enable debug output."`
	File    string `short:"f" default:"parts.yaml" help:"Project file listing the parts." placeholder:"PATH"`
	Workdir string `short:"w" default:"." help:"Directory holding the build work areas." placeholder:"DIR"`

	Plan    PlanCmd    `cmd:"" help:"Report which steps must run and why."`
	Clean   CleanCmd   `cmd:"" help:"Remove step state and migrated content."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Part-based build lifecycle tool.\n\nTracks what each part's steps ran with and re-runs only what changed."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:     level,
		AddSource: verbose,
		NoColor:   !isatty(os.Stderr),
	})))
}

// Reads the project file and returns its parts bound to the work area.
func loadProject() ([]*parts.Part, parts.ProjectDirs, error) {
	dirs := parts.ProjectDirs{Work: RootCmd.Workdir}

	list, err := parts.LoadFile(RootCmd.File, dirs)
	if err != nil {
		return nil, dirs, err
	}
	return list, dirs, nil
}

// Filters parts down to the given names, in project order. An empty names
// list selects every part; an unknown name is an error.
func selectParts(list []*parts.Part, names []string) ([]*parts.Part, error) {
	if len(names) == 0 {
		return list, nil
	}

	byName := make(map[string]*parts.Part, len(list))
	for _, p := range list {
		byName[p.Name] = p
	}

	selected := make([]*parts.Part, 0, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown part %q", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
