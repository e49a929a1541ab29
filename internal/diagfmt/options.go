package diagfmt

import "github.com/fatih/color"

// Options configures pretty-printing of records.
type Options struct {
	Color bool
}

type palette struct {
	label   *color.Color
	header  *color.Color
	error   *color.Color
	warning *color.Color
}

func newPalette(opts Options) palette {
	p := palette{
		label:   color.New(color.Bold),
		header:  color.New(color.Bold, color.Underline),
		error:   color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.label, p.header, p.error, p.warning} {
		// per-instance override, the global color.NoColor stays untouched
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
