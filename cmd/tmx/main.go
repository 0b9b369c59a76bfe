// tmx drives a toolchain's test suite across a matrix of build/run
// configurations: one profile per (backend, memory strategy, optimization
// mode) per test file, with dominance pruning, per-cache-directory
// serialization, and a live cross-tab results table.
//
// Usage:
//
//	tmx -dir tests
//	tmx -dir tests -ci -fail-fast
//	tmx -dir tests -watch
//	tmx -dir tests -json results.json
//
// Exit codes: 0 all fatal-classified profiles passed, 1 at least one
// fatal-classified profile failed, 2 usage or configuration error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/dkoosis/tmx/internal/config"
	"github.com/dkoosis/tmx/internal/discover"
	"github.com/dkoosis/tmx/internal/engine"
	"github.com/dkoosis/tmx/internal/matrix"
	"github.com/dkoosis/tmx/internal/render"
	"github.com/dkoosis/tmx/internal/toolchain"
	"github.com/dkoosis/tmx/internal/watch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, code := parseFlags(args, stderr)
	if code >= 0 {
		return code
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "tmx: %v\n", err)
		return 2
	}

	tests, err := discover.Tests(os.DirFS(cfg.Dir), cfg.TestExt)
	if err != nil {
		fmt.Fprintf(stderr, "tmx: %v\n", err)
		return 2
	}
	if len(tests) == 0 {
		fmt.Fprintf(stderr, "tmx: no %s files under %s\n", cfg.TestExt, cfg.Dir)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	theme := render.ThemeByName(cfg.ThemeName)
	if cfg.NoColor || !isTTYWriter(stdout) {
		theme = render.MonoTheme()
	}
	table := render.NewTable(theme)
	mat := matrix.New()

	defer func() {
		if err := toolchain.RemoveWorkDirs(cfg.Dir); err != nil && cfg.Debug {
			fmt.Fprintf(stderr, "tmx: removing work dirs: %v\n", err)
		}
	}()

	var runErr error
	if cfg.Watch && isTTYWriter(stdout) {
		runErr = runWatch(ctx, cfg, mat, table, tests, stdout, stderr)
	} else {
		runErr = runPlain(ctx, cfg, mat, table, tests, stdout)
	}

	if cfg.JSONPath != "" {
		if err := render.WriteArtifact(cfg.JSONPath, mat.Snapshot()); err != nil {
			fmt.Fprintf(stderr, "tmx: %v\n", err)
			return 2
		}
	}

	var fatal *engine.FatalError
	if errors.As(runErr, &fatal) {
		fmt.Fprintf(stderr, "tmx: %v\n", fatal)
		return 1
	}
	if runErr != nil {
		fmt.Fprintf(stderr, "tmx: %v\n", runErr)
		return 2
	}
	return 0
}

// runPlain executes the matrix with the in-place table reporter.
func runPlain(ctx context.Context, cfg config.Config, mat *matrix.Matrix, table *render.Table, tests []string, stdout io.Writer) error {
	live := render.NewLive(stdout, table, isTTYWriter(stdout))
	mat.SetObserver(live.Update)

	eng := engine.New(engine.Options{
		Config: cfg,
		Matrix: mat,
		Runner: toolchain.Run,
		OnPoll: func() { live.Update(mat.Snapshot()) },
	})
	err := eng.Execute(ctx, tests)

	var fatal *engine.FatalError
	if errors.As(err, &fatal) {
		eng.Diagnose(ctx, fatal)
	}
	live.Final(mat.Snapshot())
	return err
}

// runWatch executes the matrix behind the bubbletea live view. Snapshots
// flow over a channel; a full channel drops a frame rather than blocking
// a worker.
func runWatch(ctx context.Context, cfg config.Config, mat *matrix.Matrix, table *render.Table, tests []string, stdout, stderr io.Writer) error {
	updates := make(chan []matrix.Entry, 64)
	mat.SetObserver(func(entries []matrix.Entry) {
		select {
		case updates <- entries:
		default:
		}
	})

	eng := engine.New(engine.Options{
		Config: cfg,
		Matrix: mat,
		Runner: toolchain.Run,
		OnPoll: func() {
			select {
			case updates <- mat.Snapshot():
			default:
			}
		},
	})

	result := make(chan error, 1)
	go func() {
		err := eng.Execute(ctx, tests)
		var fatal *engine.FatalError
		if errors.As(err, &fatal) {
			eng.Diagnose(ctx, fatal)
		}
		result <- err
		close(updates)
	}()

	if err := watch.Run(ctx, table, updates); err != nil {
		fmt.Fprintf(stderr, "tmx: watch: %v\n", err)
	}
	err := <-result

	// The TUI frame is gone after exit; leave the final table in scrollback.
	fmt.Fprint(stdout, table.Render(mat.Snapshot()))
	return err
}

// parseFlags parses args into CliFlags. Returns code -1 on success, or
// the process exit code on parse failure.
func parseFlags(args []string, stderr io.Writer) (config.CliFlags, int) {
	fs := flag.NewFlagSet("tmx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dir := fs.String("dir", "", "Directory holding the test files (default \".\")")
	gen := fs.String("gen", "", "Toolchain compatibility generation (default \"gen2\")")
	tool := fs.String("toolchain", "", "Toolchain binary to invoke (default \"toxc\")")
	theme := fs.String("theme", "", "Table theme: unicode, mono")
	jsonPath := fs.String("json", "", "Write canonical JSON results to PATH")
	ci := fs.Bool("ci", false, "Continuous-integration mode: widens the axis space")
	failFast := fs.Bool("fail-fast", false, "On CI, treat any non-excused failure as fatal")
	watchFlag := fs.Bool("watch", false, "Interactive live view (TTY only)")
	noColor := fs.Bool("no-color", false, "Disable color output")
	debug := fs.Bool("debug", false, "Verbose diagnostics")

	if err := fs.Parse(args); err != nil {
		return config.CliFlags{}, 2
	}

	flags := config.CliFlags{
		Dir:       *dir,
		Gen:       *gen,
		Toolchain: *tool,
		ThemeName: *theme,
		JSONPath:  *jsonPath,
		CI:        *ci,
		FailFast:  *failFast,
		Watch:     *watchFlag,
		NoColor:   *noColor,
		Debug:     *debug,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ci":
			flags.CISet = true
		case "fail-fast":
			flags.FailFastSet = true
		case "no-color":
			flags.NoColorSet = true
		case "debug":
			flags.DebugSet = true
		}
	})
	return flags, -1
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
