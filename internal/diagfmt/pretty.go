package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"errorless/internal/diag"
)

// List печатает по одной строке diag.Summarize на запись, в порядке ID.
// With Color the text is identical, only the id label and marker token are
// styled.
func List(w io.Writer, records []diag.Record, opts Options) error {
	p := newPalette(opts)
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, summary(rec, p, opts.Color)); err != nil {
			return err
		}
	}
	return nil
}

// Show prints "Error: {id}" followed by every line of the record verbatim.
func Show(w io.Writer, rec diag.Record, opts Options) error {
	p := newPalette(opts)
	if _, err := fmt.Fprintln(w, p.header.Sprintf("Error: %d", rec.ID)); err != nil {
		return err
	}
	for _, line := range rec.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func summary(rec diag.Record, p palette, colored bool) string {
	if !colored {
		return diag.Summarize(rec)
	}
	prefix := diag.SummaryPrefix(rec)
	cut := byteOffset(prefix, rec.MatchOffset)
	kind := p.error
	if rec.Kind == diag.KindWarning {
		kind = p.warning
	}
	return p.label.Sprint(strconv.Itoa(rec.ID)+")") + " " + prefix[:cut] + kind.Sprint(prefix[cut:])
}

// byteOffset converts a character offset into a byte offset within s,
// clamped to len(s).
func byteOffset(s string, chars int) int {
	n := 0
	for i := range s {
		if n == chars {
			return i
		}
		n++
	}
	return len(s)
}
