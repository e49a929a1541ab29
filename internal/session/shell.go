package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"errorless/internal/diagfmt"
	"errorless/internal/trace"
)

// Prompt is shown before every command.
const Prompt = "(errorless) "

// State of the interactive session.
type State uint8

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// ErrTerminated is returned by Execute once the session has ended.
var ErrTerminated = errors.New("session terminated")

// ErrorHandler decides what happens when a command fails (only make can).
// Returning nil keeps the session running; a non-nil error ends Run with it.
type ErrorHandler func(out io.Writer, err error) error

// ReportAndContinue prints the failure and keeps the session alive.
func ReportAndContinue(out io.Writer, err error) error {
	fmt.Fprintf(out, "*** %v\n", err)
	return nil
}

// Shell is the command loop over a Store.
type Shell struct {
	store    *Store
	in       LineReader
	out      io.Writer
	format   diagfmt.Options
	onError  ErrorHandler
	state    State
	lastLine string
	commands map[string]command
}

// Option configures a Shell.
type Option func(*Shell)

// WithColor enables colored list/show output.
func WithColor(enabled bool) Option {
	return func(sh *Shell) { sh.format.Color = enabled }
}

// WithErrorHandler overrides ReportAndContinue.
func WithErrorHandler(h ErrorHandler) Option {
	return func(sh *Shell) {
		if h != nil {
			sh.onError = h
		}
	}
}

// NewShell creates a session in the Running state. Call Start to perform the
// initial rebuild.
func NewShell(store *Store, in LineReader, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{
		store:    store,
		in:       in,
		out:      out,
		onError:  ReportAndContinue,
		state:    StateRunning,
		commands: builtinCommands(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// State returns the current session state.
func (sh *Shell) State() State {
	return sh.state
}

// Store returns the store the shell operates on.
func (sh *Shell) Store() *Store {
	return sh.store
}

// Start performs the implicit initial rebuild.
func (sh *Shell) Start(ctx context.Context) error {
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "startup")
	if err := sh.store.Rebuild(ctx); err != nil {
		trace.Error(ctx, "startup", err)
		span.End("failed")
		return fmt.Errorf("initial build failed: %w", err)
	}
	span.WithExtra("records", fmt.Sprint(len(sh.store.Records()))).End("")
	return nil
}

// Run reads and executes commands until quit or end of input.
func (sh *Shell) Run(ctx context.Context) error {
	for sh.state == StateRunning {
		line, err := sh.in.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				sh.state = StateTerminated
				return fmt.Errorf("failed to read command: %w", err)
			}
			line = eofCommand
		}
		if err := sh.Execute(ctx, line); err != nil {
			if herr := sh.onError(sh.out, err); herr != nil {
				sh.state = StateTerminated
				return herr
			}
		}
	}
	return nil
}

// Execute dispatches one command line. Only make returns errors; input
// errors of show are reported as messages.
func (sh *Shell) Execute(ctx context.Context, line string) error {
	if sh.state == StateTerminated {
		return ErrTerminated
	}

	line = strings.TrimSpace(line)
	if line == "" {
		// пустая строка повторяет последнюю команду
		if sh.lastLine == "" {
			return nil
		}
		line = sh.lastLine
	}
	name, arg := parseLine(line)
	if name == eofCommand {
		sh.lastLine = ""
	} else {
		sh.lastLine = line
	}

	ctx, span := trace.Start(ctx, trace.ScopeCommand, name)
	cmd, ok := sh.commands[name]
	if !ok {
		fmt.Fprintf(sh.out, "*** Unknown syntax: %s\n", line)
		span.End("unknown")
		return nil
	}
	if err := cmd.run(ctx, sh, arg); err != nil {
		trace.Error(ctx, name, err)
		span.End("failed")
		return err
	}
	span.End("")
	return nil
}

// CommandNames returns the names of the built-in commands, sorted. Line
// readers use it for completion.
func CommandNames() []string {
	return sortedNames(builtinCommands())
}

// parseLine splits "show 3" into ("show", "3"). A leading '?' is help.
func parseLine(line string) (name, arg string) {
	if strings.HasPrefix(line, "?") {
		return "help", strings.TrimSpace(line[1:])
	}
	i := 0
	for i < len(line) && isIdentChar(line[i]) {
		i++
	}
	if i == 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func isIdentChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
