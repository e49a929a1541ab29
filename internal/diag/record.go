package diag

// Record is one classified diagnostic: the line a marker matched on plus
// every following line up to the next match.
type Record struct {
	ID          int
	Kind        Kind
	MatchOffset int    // character offset of the marker in Lines[0]
	Marker      string // marker token that produced the record
	Lines       []string
}

// First returns the triggering line, or "" for a record with no lines.
func (r Record) First() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[0]
}

// Set is the ordered result of one classification pass.
type Set []Record

// Len returns the number of records.
func (s Set) Len() int {
	return len(s)
}

// Get looks a record up by its 1-based id. Zero and negative ids are
// always missing: they never wrap around to the last records.
func (s Set) Get(n int) (Record, bool) {
	if n <= 0 || n > len(s) {
		return Record{}, false
	}
	return s[n-1], true
}

// Count returns how many records have the given kind.
func (s Set) Count(kind Kind) int {
	n := 0
	for i := range s {
		if s[i].Kind == kind {
			n++
		}
	}
	return n
}

// HasErrors возвращает true, если есть хотя бы одна запись KindError.
func (s Set) HasErrors() bool {
	return s.Count(KindError) > 0
}
