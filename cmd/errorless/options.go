package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type cliOptions struct {
	command string
	shell   string
	color   bool
	ui      bool
	quiet   bool
	timings bool
	batch   bool
	format  string
}

// buildCommand joins the positional arguments into the shell command line.
func buildCommand(args []string) string {
	return strings.Join(args, " ")
}

func readOptions(cmd *cobra.Command, args []string) (cliOptions, error) {
	root := cmd.Root()
	opts := cliOptions{command: buildCommand(args)}
	if strings.TrimSpace(opts.command) == "" {
		return opts, fmt.Errorf("missing build command")
	}

	colorFlag, err := root.PersistentFlags().GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	colorMode, err := readSwitchMode("color", colorFlag)
	if err != nil {
		return opts, err
	}
	opts.color = colorMode.enabled()

	uiFlag, err := root.PersistentFlags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiMode, err := readSwitchMode("ui", uiFlag)
	if err != nil {
		return opts, err
	}
	opts.ui = uiMode.enabled()

	if opts.quiet, err = root.PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = root.PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.shell, err = root.PersistentFlags().GetString("shell"); err != nil {
		return opts, fmt.Errorf("failed to get shell flag: %w", err)
	}
	if opts.batch, err = root.PersistentFlags().GetBool("batch"); err != nil {
		return opts, fmt.Errorf("failed to get batch flag: %w", err)
	}

	format, err := root.PersistentFlags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(strings.TrimSpace(format))
	switch opts.format {
	case "pretty", "json":
		// supported
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	if opts.format == "json" {
		// the spinner would corrupt the document on stdout
		opts.ui = false
	}
	return opts, nil
}

// switchMode is the auto|on|off value shared by --color and --ui.
type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func readSwitchMode(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on":
		return modeOn, nil
	case "off":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves auto by asking whether stdout is a terminal.
func (m switchMode) enabled() bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
