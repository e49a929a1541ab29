package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"errorless/internal/buildpipeline"
	"errorless/internal/diag"
	"errorless/internal/observ"
	"errorless/internal/trace"
)

// rebuilder runs the build command and classifies what it printed. Its
// rebuild method is the session's RebuildFunc.
type rebuilder struct {
	opts     cliOptions
	echo     io.Writer // "Executing", captured output, spinner
	errOut   io.Writer // timings
	last     buildpipeline.Result
	progress *buildProgress
	runner   func(ctx context.Context, req *buildpipeline.Request, out io.Writer) (buildpipeline.Result, error)
}

func newRebuilder(opts cliOptions, echo, errOut io.Writer) *rebuilder {
	r := &rebuilder{opts: opts, echo: echo, errOut: errOut, progress: &buildProgress{}}
	r.runner = runPlain
	if opts.ui {
		r.runner = runBuildWithUI
	}
	return r
}

func runPlain(ctx context.Context, req *buildpipeline.Request, _ io.Writer) (buildpipeline.Result, error) {
	return buildpipeline.Run(ctx, req)
}

func (r *rebuilder) rebuild(ctx context.Context) ([]diag.Record, error) {
	n := r.progress.begin()
	defer r.progress.end()

	ctx, span := trace.Start(ctx, trace.ScopeStage, "rebuild")
	span.WithExtra("n", fmt.Sprint(n))
	fmt.Fprintf(r.echo, "Executing %s\n", r.opts.command)

	timer := observ.NewTimer(n)
	stopCapture := timer.Start(string(buildpipeline.StageCapture))
	captureCtx, captureSpan := trace.Start(ctx, trace.ScopeStage, string(buildpipeline.StageCapture))
	req := &buildpipeline.Request{
		Command:  r.opts.command,
		Shell:    r.opts.shell,
		Progress: traceSink{ctx: captureCtx, progress: r.progress},
	}
	res, err := r.runner(captureCtx, req, r.echo)
	if err != nil {
		stopCapture("failed")
		trace.Error(captureCtx, "capture", err)
		captureSpan.End("failed")
		span.End("failed")
		if r.opts.timings {
			fmt.Fprint(r.errOut, timer.Summary())
		}
		return nil, err
	}
	stopCapture(fmt.Sprintf("exit %d", res.ExitCode))
	captureSpan.WithExtra("exit", fmt.Sprint(res.ExitCode)).End("")

	if !r.opts.quiet {
		echoResult(r.echo, res)
	}

	stopClassify := timer.Start(string(buildpipeline.StageClassify))
	_, classifySpan := trace.Start(ctx, trace.ScopeStage, string(buildpipeline.StageClassify))
	records := diag.Classify(res.Diagnostics())
	set := diag.Set(records)
	note := fmt.Sprintf("%d errors, %d warnings", set.Count(diag.KindError), set.Count(diag.KindWarning))
	stopClassify(note)
	classifySpan.WithExtra("records", fmt.Sprint(len(records))).End(note)

	if r.opts.timings {
		fmt.Fprint(r.errOut, timer.Summary())
	}
	r.last = res
	span.End("")
	return records, nil
}

// echoResult prints the captured streams the way the build produced them.
func echoResult(w io.Writer, res buildpipeline.Result) {
	fmt.Fprintln(w, "stdout:")
	fmt.Fprintln(w, res.Stdout)
	fmt.Fprintln(w, "stderr:")
	fmt.Fprintln(w, res.Stderr)
	if res.Failed() {
		fmt.Fprintf(w, "exit status %d\n", res.ExitCode)
	}
}

// traceSink turns captured diagnostic lines into line-scope trace points
// and counts them for the heartbeat.
type traceSink struct {
	ctx      context.Context
	progress *buildProgress
}

func (s traceSink) OnEvent(evt buildpipeline.Event) {
	if evt.Line == "" {
		return
	}
	s.progress.lines.Add(1)
	trace.Point(s.ctx, trace.ScopeLine, "line", evt.Line)
}

// buildProgress is what the heartbeat goroutine knows about the build in
// flight.
type buildProgress struct {
	rebuilds atomic.Int64
	started  atomic.Int64 // unix nanos, 0 while idle
	lines    atomic.Int64
	now      func() time.Time
}

func (p *buildProgress) begin() int {
	n := p.rebuilds.Add(1)
	p.lines.Store(0)
	p.started.Store(p.clock().UnixNano())
	return int(n)
}

func (p *buildProgress) end() { p.started.Store(0) }

// status describes the running build, or returns "" between builds.
func (p *buildProgress) status() string {
	started := p.started.Load()
	if started == 0 {
		return ""
	}
	elapsed := p.clock().Sub(time.Unix(0, started)).Round(time.Millisecond)
	return fmt.Sprintf("rebuild #%d running %s, %d lines", p.rebuilds.Load(), elapsed, p.lines.Load())
}

func (p *buildProgress) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}
