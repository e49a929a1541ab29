package diagfmt

import (
	"encoding/json"
	"io"

	"errorless/internal/diag"
)

// RecordJSON представляет запись в JSON формате
type RecordJSON struct {
	ID          int      `json:"id"`
	Kind        string   `json:"kind"`
	MatchOffset int      `json:"match_offset"`
	Marker      string   `json:"marker"`
	Summary     string   `json:"summary"`
	Lines       []string `json:"lines"`
}

// RecordsOutput is the root of the JSON document.
type RecordsOutput struct {
	Command  string       `json:"command,omitempty"`
	ExitCode int          `json:"exit_code"`
	Records  []RecordJSON `json:"records"`
	Count    int          `json:"count"`
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
}

// BuildInfo carries the build metadata that goes next to the records.
type BuildInfo struct {
	Command  string
	ExitCode int
}

// JSON writes records as an indented JSON document.
func JSON(w io.Writer, records []diag.Record, info BuildInfo) error {
	set := diag.Set(records)
	out := RecordsOutput{
		Command:  info.Command,
		ExitCode: info.ExitCode,
		Records:  make([]RecordJSON, 0, len(records)),
		Count:    set.Len(),
		Errors:   set.Count(diag.KindError),
		Warnings: set.Count(diag.KindWarning),
	}
	for _, rec := range records {
		lines := rec.Lines
		if lines == nil {
			lines = []string{}
		}
		out.Records = append(out.Records, RecordJSON{
			ID:          rec.ID,
			Kind:        rec.Kind.String(),
			MatchOffset: rec.MatchOffset,
			Marker:      rec.Marker,
			Summary:     diag.Summarize(rec),
			Lines:       lines,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
