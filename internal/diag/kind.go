package diag

// Kind defines the category of a record. The numeric value is the
// marker index, so lower values win when several markers match a line.
type Kind uint8

const (
	// KindError is produced by the "error:" marker.
	KindError Kind = iota
	// KindWarning is produced by the "warning:" marker.
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	}
	return "unknown"
}
