package diag

import "strings"

// SplitLines splits captured output on '\n'. A trailing newline yields a
// trailing empty line, which is kept.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Classify groups text into records using the default markers.
func Classify(text string) []Record {
	return ClassifyLines(SplitLines(text), DefaultMarkers())
}

// ClassifyLines runs a single classification pass over lines.
//
// Every marker is tried against every line in priority order and each match
// opens a new record seeded with that line. A line that opened no record is
// appended to the newest record; lines before the first match are dropped.
func ClassifyLines(lines []string, markers []Marker) []Record {
	var records []Record
	for _, line := range lines {
		opened := false
		for _, m := range markers {
			offset, ok := m.Find(line)
			if !ok {
				continue
			}
			records = append(records, Record{
				ID:          len(records) + 1,
				Kind:        m.Kind,
				MatchOffset: offset,
				Marker:      m.Text,
				Lines:       []string{line},
			})
			opened = true
		}
		if opened || len(records) == 0 {
			continue
		}
		last := &records[len(records)-1]
		last.Lines = append(last.Lines, line)
	}
	return records
}
