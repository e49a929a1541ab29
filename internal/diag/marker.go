package diag

import (
	"regexp"
	"unicode/utf8"
)

// Matcher finds the first occurrence of a marker in a single line.
// Offset is counted in characters (runes), not bytes.
type Matcher interface {
	Find(line string) (offset int, ok bool)
}

// Marker is one entry of the fixed, ordered marker list.
type Marker struct {
	Kind Kind
	Text string
	re   *regexp.Regexp
}

// NewMarker compiles text as a search pattern. Panics on an invalid pattern,
// markers are compile-time constants.
func NewMarker(kind Kind, text string) Marker {
	return Marker{
		Kind: kind,
		Text: text,
		re:   regexp.MustCompile(text),
	}
}

// Find реализует Matcher: ищет первое совпадение в любом месте строки.
func (m Marker) Find(line string) (int, bool) {
	if m.re == nil {
		return 0, false
	}
	loc := m.re.FindStringIndex(line)
	if loc == nil {
		return 0, false
	}
	return utf8.RuneCountInString(line[:loc[0]]), true
}

// Width returns the marker token length in characters.
func (m Marker) Width() int {
	return utf8.RuneCountInString(m.Text)
}

var defaultMarkers = []Marker{
	NewMarker(KindError, "error:"),
	NewMarker(KindWarning, "warning:"),
}

// DefaultMarkers returns the marker list in priority order (index 0 first).
// The returned slice is a copy.
func DefaultMarkers() []Marker {
	out := make([]Marker, len(defaultMarkers))
	copy(out, defaultMarkers)
	return out
}

// MarkerFor returns the default marker of the given kind.
func MarkerFor(kind Kind) (Marker, bool) {
	for _, m := range defaultMarkers {
		if m.Kind == kind {
			return m, true
		}
	}
	return Marker{}, false
}
