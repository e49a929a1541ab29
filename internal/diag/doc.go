// Package diag turns raw compiler output into numbered diagnostic records.
//
// # Purpose
//
//   - Split captured text into lines and group them into Records, one per
//     marker match, in the order they appear.
//   - Provide the one-line summary used by listings.
//
// # Scope
//
// Package diag does not run processes, print anything, or know about the
// interactive shell. Capturing output lives in internal/buildpipeline,
// rendering in internal/diagfmt, and the command loop in internal/session.
//
// # Markers
//
// A Marker is a search pattern plus the Kind it produces. The list is fixed
// and ordered; index 0 has the highest priority:
//
//	error:     KindError
//	warning:   KindWarning
//
// Markers are tried against every line in that order, and each one that
// matches opens its own Record. A line matching both markers therefore
// produces two records that share it as their first line.
//
// # Grouping
//
// Lines that open no record are appended to the most recent record. Text
// before the first match belongs to nothing and is dropped. Classification
// is total: arbitrary bytes are handled as opaque text.
//
// Record IDs are 1-based, contiguous, and assigned in creation order. They
// are only meaningful within one pass; a rebuild produces a fresh set.
package diag
