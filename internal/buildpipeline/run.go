package buildpipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run executes req.Command through the shell and waits for it to finish.
//
// Both output streams are drained concurrently; every line written to
// standard error is also reported to req.Progress as it arrives. A non-zero
// exit status is not an error: it is recorded in Result.ExitCode. Errors are
// returned only when the process cannot be started or its output cannot be
// read, or when ctx is cancelled.
func Run(ctx context.Context, req *Request) (Result, error) {
	if req == nil {
		return Result{}, fmt.Errorf("missing build request")
	}
	if strings.TrimSpace(req.Command) == "" {
		return Result{}, fmt.Errorf("empty build command")
	}
	shell := req.Shell
	if shell == "" {
		shell = DefaultShell
	}
	sink := sinkOrNop(req.Progress)

	cmd := exec.CommandContext(ctx, shell, "-c", req.Command)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	sink.OnEvent(Event{Stage: StageCapture, Status: StatusWorking})
	start := time.Now()
	if err := cmd.Start(); err != nil {
		err = fmt.Errorf("failed to start %s: %w", shell, err)
		sink.OnEvent(Event{Stage: StageCapture, Status: StatusError, Err: err})
		return Result{}, err
	}

	var outBuf, errBuf bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		return copyLines(&errBuf, stderr, sink)
	})
	// Wait must not be called before the pipes are fully read.
	readErr := g.Wait()
	waitErr := cmd.Wait()

	res := Result{
		Command: req.Command,
		Stdout:  outBuf.String(),
		Stderr:  errBuf.String(),
		Elapsed: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err := fmt.Errorf("build interrupted: %w", ctxErr)
		sink.OnEvent(Event{Stage: StageCapture, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		return res, err
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			err := fmt.Errorf("failed to wait for %s: %w", shell, waitErr)
			sink.OnEvent(Event{Stage: StageCapture, Status: StatusError, Err: err, Elapsed: res.Elapsed})
			return res, err
		}
		res.ExitCode = exitErr.ExitCode()
	}
	if readErr != nil {
		err := fmt.Errorf("failed to read build output: %w", readErr)
		sink.OnEvent(Event{Stage: StageCapture, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		return res, err
	}

	sink.OnEvent(Event{Stage: StageCapture, Status: StatusDone, Elapsed: res.Elapsed})
	return res, nil
}

// copyLines copies r into dst byte for byte and reports each complete or
// trailing line to sink.
func copyLines(dst *bytes.Buffer, r io.Reader, sink ProgressSink) error {
	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadString('\n')
		if chunk != "" {
			dst.WriteString(chunk)
			sink.OnEvent(Event{
				Stage:  StageCapture,
				Status: StatusWorking,
				Line:   strings.TrimRight(chunk, "\r\n"),
			})
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
