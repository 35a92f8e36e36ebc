package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/zc1036/simple/internal/fileinput"
	"github.com/zc1036/simple/internal/logio"
)

const usage = `simple

Usage:
  simple [options] [FILE...]
  simple -h

Arguments:
  FILE  Source file to process; "-" means standard input.

Options:
  -t, --trace              Log reader, compiler, and evaluator activity.
  --timeout=DURATION       Give up after this long (e.g. 5s, 1m).
  -h, --help               Display this help.

With no FILE operands and a TTY on stdin, an interactive session
starts. Otherwise standard input is processed like a file.
`

const historyFile = ".simple_history"

func main() {
	diag := logio.New(os.Stderr)
	run(diag)
	os.Exit(diag.ExitCode())
}

func run(diag *logio.Logger) {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	files, _ := opts["FILE"].([]string)
	traced, _ := opts.Bool("--trace")

	ctx := context.Background()
	if arg, _ := opts.String("--timeout"); arg != "" {
		timeout, err := time.ParseDuration(arg)
		if err != nil {
			diag.Errorf("invalid --timeout: %v", err)
			return
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	inOpts := []Option{WithOutput(os.Stdout)}
	if traced {
		inOpts = append(inOpts, WithLogf(diag.Leveledf("TRACE")))
	}
	if len(files) == 0 && !isatty.IsTerminal(os.Stdin.Fd()) {
		files = []string{"-"}
	}

	in, err := New(inOpts...)
	if err != nil {
		diag.Errorf("%v", err)
		return
	}
	defer in.Close()

	if len(files) == 0 {
		interact(ctx, in, diag)
		return
	}
	diag.ErrorIf(in.Run(ctx, files...))
}

// interact runs a line-at-a-time interactive session. Errors are
// reported and the session continues: the interpreter keeps all state
// accumulated before the failing line.
func interact(ctx context.Context, in *Interp, diag *logio.Logger) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	for ctx.Err() == nil {
		line, err := ln.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			return // io.EOF on ^D
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		src := fileinput.FromReader("<repl>", strings.NewReader(line+"\n"))
		if err := in.EvalStream(ctx, src); err != nil {
			diag.Printf("ERROR", "%v", err)
		}
	}
}
