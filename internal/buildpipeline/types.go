package buildpipeline

import "time"

// Stage describes a phase of one rebuild.
type Stage string

const (
	// StageCapture runs the build command and collects its output.
	StageCapture Stage = "capture"
	// StageClassify groups the captured diagnostics into records.
	StageClassify Stage = "classify"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress of a rebuild. Line carries one diagnostic line
// while the build is still running.
type Event struct {
	Stage   Stage
	Status  Status
	Line    string
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// DefaultShell runs the build command when Request.Shell is empty.
const DefaultShell = "sh"

// Request describes a single build invocation.
type Request struct {
	Command  string   // passed verbatim to Shell -c
	Shell    string   // defaults to DefaultShell
	Dir      string   // working directory, empty means current
	Env      []string // extra KEY=VALUE pairs on top of the inherited environment
	Progress ProgressSink
}

// Result holds everything the build printed.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
}

// Diagnostics returns the stream that gets classified. Compilers write
// their diagnostics to standard error.
func (r Result) Diagnostics() string {
	return r.Stderr
}

// Failed reports whether the build exited with a non-zero status.
func (r Result) Failed() bool {
	return r.ExitCode != 0
}
