package shared

import "fmt"

// Source classifies merchandise by how the engine observes it: RFID items
// are realised as tagged EPCs counted from antenna reads, NON_RFID items are
// counted from a baseline plus a signed movement ledger.
type Source string

const (
	SourceRFID    Source = "RFID"
	SourceNonRFID Source = "NON_RFID"
)

// ParseSource converts a wire value into a Source.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceRFID:
		return SourceRFID, nil
	case SourceNonRFID:
		return SourceNonRFID, nil
	default:
		return "", fmt.Errorf("unknown source %q", s)
	}
}

// Valid reports whether the source is one of the two known classes.
func (s Source) Valid() bool {
	return s == SourceRFID || s == SourceNonRFID
}

func (s Source) String() string {
	return string(s)
}
