// Package trace provides the event log for errorless.
//
// The tracer records what the session does: commands dispatched, rebuilds
// started and finished, and (at debug level) every diagnostic line read from
// the build. It is the place to look when a build command hangs or output is
// grouped unexpectedly.
//
// # Usage
//
//	errorless --trace=- --trace-level=detail make -j4
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: last N events in memory, dumped on panic
//   - MultiTracer: stream + ring
//
// # Levels and scopes
//
// Levels off < error < phase < detail < debug select scopes
// session < command < stage < line. Error and heartbeat events pass any
// level above off.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeCommand, "make")
//	defer span.End("")
package trace
