package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"errorless/internal/buildpipeline"
	"errorless/internal/ui"
)

type buildOutcome struct {
	result buildpipeline.Result
	err    error
}

// progressView consumes build events until it is done showing them. It may
// return before events is closed.
type progressView func(events <-chan buildpipeline.Event) error

// runBuildWithUI runs the build in the background and shows a spinner with
// the latest diagnostic line on out until it finishes.
func runBuildWithUI(ctx context.Context, req *buildpipeline.Request, out io.Writer) (buildpipeline.Result, error) {
	return runWithProgress(ctx, req, func(events <-chan buildpipeline.Event) error {
		model := ui.NewRebuildModel(req.Command, events)
		// stdin stays with the command shell
		program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
		_, err := program.Run()
		return err
	})
}

func runWithProgress(ctx context.Context, req *buildpipeline.Request, view progressView) (buildpipeline.Result, error) {
	if req == nil {
		return buildpipeline.Result{}, fmt.Errorf("missing build request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.MultiSink{req.Progress, buildpipeline.ChannelSink{Ch: events}}
		res, err := buildpipeline.Run(ctx, &reqCopy)
		close(events)
		outcomeCh <- buildOutcome{result: res, err: err}
	}()

	uiErr := view(events)
	// the view can stop early (Ctrl-C quits the spinner without an error);
	// whatever it left unread must not block the build on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, fmt.Errorf("progress view failed: %w", uiErr)
	}
	return outcome.result, outcome.err
}
