package diag

import (
	"strconv"
	"unicode/utf8"
)

// Summarize renders the list label "{id}) {prefix}", where prefix is the
// first line cut right after the matched marker token.
func Summarize(rec Record) string {
	return strconv.Itoa(rec.ID) + ") " + SummaryPrefix(rec)
}

// SummaryPrefix returns the first line truncated to MatchOffset plus the
// marker width, counted in characters. Past the end of the line the whole
// line is returned.
func SummaryPrefix(rec Record) string {
	line := rec.First()
	limit := rec.MatchOffset + utf8.RuneCountInString(rec.Marker)
	if limit < 0 {
		return ""
	}
	n := 0
	for i := range line {
		if n == limit {
			return line[:i]
		}
		n++
	}
	return line
}
