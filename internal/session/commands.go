package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"errorless/internal/diagfmt"
)

const eofCommand = "EOF"

const (
	msgShowSyntax = "Syntax: show <error number>"
	msgNotFound   = "Error doesn't exist."
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, sh *Shell, arg string) error
}

func builtinCommands() map[string]command {
	return map[string]command{
		"list": {
			usage: "list",
			help:  "List all errors and warnings.",
			run:   runList,
		},
		"show": {
			usage: "show <error number>",
			help:  "Show all information for a particular error.",
			run:   runShow,
		},
		"make": {
			usage: "make",
			help:  "Re-run compilation.",
			run:   runMake,
		},
		"quit": {
			usage: "quit",
			help:  "Exit program.",
			run:   runQuit,
		},
		eofCommand: {
			usage: eofCommand,
			help:  "Exit program (end of input).",
			run:   runQuit,
		},
		"help": {
			usage: "help [command]",
			help:  "List available commands, or show help for one of them.",
			run:   runHelp,
		},
	}
}

func runList(_ context.Context, sh *Shell, _ string) error {
	// best-effort: a failed write to the terminal is not a command failure
	_ = diagfmt.List(sh.out, sh.store.Records(), sh.format) //nolint:errcheck
	return nil
}

func runShow(_ context.Context, sh *Shell, arg string) error {
	n, ok, syntaxErr := parseRecordNumber(arg)
	if syntaxErr {
		fmt.Fprintln(sh.out, msgShowSyntax)
		return nil
	}
	if !ok {
		fmt.Fprintln(sh.out, msgNotFound)
		return nil
	}
	rec, found := sh.store.Get(n)
	if !found {
		fmt.Fprintln(sh.out, msgNotFound)
		return nil
	}
	_ = diagfmt.Show(sh.out, rec, sh.format) //nolint:errcheck
	return nil
}

// parseRecordNumber parses the show argument. syntaxErr is set for anything
// that is not an integer; ok is false for integers that cannot be an index.
func parseRecordNumber(arg string) (n int, ok, syntaxErr bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, false, false
		}
		return 0, false, true
	}
	// int is 32 bits on 386 and arm, where ids past MaxInt32 would wrap
	n, err = safecast.Conv[int](v)
	if err != nil {
		return 0, false, false
	}
	return n, true, false
}

func runMake(ctx context.Context, sh *Shell, _ string) error {
	if err := sh.store.Rebuild(ctx); err != nil {
		return fmt.Errorf("make: %w", err)
	}
	return nil
}

func runQuit(_ context.Context, sh *Shell, _ string) error {
	sh.state = StateTerminated
	return nil
}

func runHelp(_ context.Context, sh *Shell, arg string) error {
	if arg != "" {
		cmd, ok := sh.commands[arg]
		if !ok {
			fmt.Fprintf(sh.out, "*** No help on %s\n", arg)
			return nil
		}
		fmt.Fprintf(sh.out, "%s\n    %s\n", cmd.usage, cmd.help)
		return nil
	}
	const header = "Documented commands (type help <topic>):"
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, header)
	fmt.Fprintln(sh.out, strings.Repeat("=", len(header)))
	fmt.Fprintln(sh.out, strings.Join(sortedNames(sh.commands), "  "))
	fmt.Fprintln(sh.out)
	return nil
}

func sortedNames(commands map[string]command) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
