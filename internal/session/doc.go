// Package session holds the current record set and the command shell that
// browses it.
//
// A Store owns the records of the most recent successful build and the
// function that produces new ones. A Shell reads command lines from a
// LineReader and dispatches them through a fixed command table:
//
//	list        one summary line per record
//	show <n>    every line of record n
//	make        rebuild; on failure the previous records stay
//	quit, EOF   end the session
//	help, ?     command help
//
// An empty line repeats the previous command. The shell is single threaded;
// nothing here takes a lock.
package session
