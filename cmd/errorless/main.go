package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"errorless/internal/trace"
	"errorless/internal/version"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errorless [flags] <build command...>",
		Short: "Interactive viewer for compiler errors and warnings",
		Long: `errorless runs a build command, groups the diagnostics it writes to
standard error into numbered errors and warnings, and lets you browse them:

  list        one summary line per diagnostic
  show <n>    every line of diagnostic n
  make        run the build again
  quit        exit

Everything after the first non-flag argument is the build command, so
"errorless make -j4" runs "make -j4".`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         runRoot,
	}
	// флаги после команды сборки принадлежат ей
	cmd.Flags().SetInterspersed(false)
	registerFlags(cmd)
	return cmd
}

// main runs the root command. If command execution returns an error, the
// process exits with status code 1.
func main() {
	rootCmd := newRootCmd()
	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("errorless {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func registerFlags(rootCmd *cobra.Command) {
	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("ui", "auto", "show a spinner while the build runs (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "do not echo the captured build output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information for every build")
	rootCmd.PersistentFlags().String("shell", "sh", "shell used to run the build command (<shell> -c <command>)")
	rootCmd.PersistentFlags().Bool("batch", false, "build once, print the list and exit (status 1 if there are errors)")
	rootCmd.PersistentFlags().String("format", "pretty", "batch output format (pretty|json)")

	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", trace.DefaultRingSize, "events kept in memory for ring mode and panic dumps")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "report a running build in the trace at this interval (0 disables)")
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts, err := readOptions(cmd, args)
	if err != nil {
		return err
	}

	echo := cmd.OutOrStdout()
	if opts.batch {
		// stdout carries only the result
		echo = cmd.ErrOrStderr()
	}
	reb := newRebuilder(opts, echo, cmd.ErrOrStderr())

	cleanup, tracer, err := setupTracing(cmd, reb.progress.status)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(tracer, os.Stderr)

	ctx := cmd.Context()
	if opts.batch {
		return runBatch(ctx, reb, opts, cmd.OutOrStdout())
	}
	return runInteractive(ctx, reb, opts)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
