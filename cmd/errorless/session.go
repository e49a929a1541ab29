package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"errorless/internal/diag"
	"errorless/internal/diagfmt"
	"errorless/internal/session"
	"errorless/internal/trace"
)

// runBatch builds once, prints the records and fails when any of them is
// an error.
func runBatch(ctx context.Context, reb *rebuilder, opts cliOptions, out io.Writer) error {
	ctx, span := trace.Start(ctx, trace.ScopeSession, "batch")
	defer span.End("")

	records, err := reb.rebuild(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := printRecords(out, records, opts, diagfmt.BuildInfo{
		Command:  reb.last.Command,
		ExitCode: reb.last.ExitCode,
	}); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	if set := diag.Set(records); set.HasErrors() {
		return fmt.Errorf("build reported %d error(s)", set.Count(diag.KindError))
	}
	return nil
}

func printRecords(out io.Writer, records []diag.Record, opts cliOptions, info diagfmt.BuildInfo) error {
	if opts.format == "json" {
		return diagfmt.JSON(out, records, info)
	}
	return diagfmt.List(out, records, diagfmt.Options{Color: opts.color})
}

// runInteractive performs the initial build and hands the terminal to the
// command shell.
func runInteractive(ctx context.Context, reb *rebuilder, opts cliOptions) error {
	ctx, span := trace.Start(ctx, trace.ScopeSession, "session")
	defer span.End("")

	store := session.NewStore(reb.rebuild)
	sh := session.NewShell(store, newLineReader(), os.Stdout, session.WithColor(opts.color))
	if err := sh.Start(ctx); err != nil {
		return err
	}
	return sh.Run(ctx)
}

// newLineReader picks line editing for a terminal and plain line scanning
// for pipes and files.
func newLineReader() session.LineReader {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		rw := struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		return session.NewTerminalReader(int(os.Stdin.Fd()), rw, session.Prompt, session.CommandNames())
	}
	return session.NewScannerReader(os.Stdin, os.Stdout, session.Prompt)
}
