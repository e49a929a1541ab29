package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// LineReader yields one command line at a time and io.EOF at end of input.
type LineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

// NewScannerReader reads lines from r, writing prompt to out before each
// one. out may be nil to suppress the prompt.
func NewScannerReader(r io.Reader, out io.Writer, prompt string) LineReader {
	return &scannerReader{sc: bufio.NewScanner(r), out: out, prompt: prompt}
}

func (r *scannerReader) ReadLine() (string, error) {
	if r.out != nil && r.prompt != "" {
		fmt.Fprint(r.out, r.prompt)
	}
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type terminalReader struct {
	fd int
	t  *term.Terminal
}

// NewTerminalReader reads lines from an interactive terminal with line
// editing, history and tab completion of names. The terminal is put into raw
// mode only while a line is being read, so command output and the build
// itself run in the normal mode. Ctrl-D and Ctrl-C end the input.
func NewTerminalReader(fd int, rw io.ReadWriter, prompt string, names []string) LineReader {
	t := term.NewTerminal(rw, prompt)
	t.AutoCompleteCallback = completer(names)
	return &terminalReader{fd: fd, t: t}
}

func (r *terminalReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(r.fd, state) //nolint:errcheck
	}()
	return r.t.ReadLine()
}

// completer completes the first word of the line on Tab when the prefix is
// unambiguous.
func completer(names []string) func(line string, pos int, key rune) (string, int, bool) {
	return func(line string, pos int, key rune) (string, int, bool) {
		if key != '\t' || pos != len(line) || strings.ContainsRune(line, ' ') {
			return "", 0, false
		}
		match := ""
		for _, name := range names {
			if !strings.HasPrefix(name, line) {
				continue
			}
			if match != "" {
				return "", 0, false
			}
			match = name
		}
		if match == "" {
			return "", 0, false
		}
		completed := match + " "
		return completed, len(completed), true
	}
}
