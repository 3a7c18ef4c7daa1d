package nvdfeed

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDescription is returned for an item without any description entry.
	ErrNoDescription = errors.New("cve item has no description")
	// ErrMissingVector is returned for a CVSS metric block without a vector string.
	ErrMissingVector = errors.New("cvss metric has no vector string")
	// ErrMalformedItem is returned for an item lacking its cve block or id.
	ErrMalformedItem = errors.New("malformed cve item")
)

// MismatchError reports a fixed version or format tag that differs from the
// one this mapper understands. It is never recoverable: the feed is a
// different format than expected.
type MismatchError struct {
	Field    string
	Expected []string
	Got      string
}

func (e *MismatchError) Error() string {
	if len(e.Expected) == 1 {
		return fmt.Sprintf("unexpected %s: expected %q, got %q", e.Field, e.Expected[0], e.Got)
	}
	return fmt.Sprintf("unexpected %s: expected one of %q, got %q", e.Field, e.Expected, e.Got)
}

// expect returns a *MismatchError unless got is one of expected.
func expect(field, got string, expected ...string) error {
	for _, want := range expected {
		if got == want {
			return nil
		}
	}
	return &MismatchError{Field: field, Expected: expected, Got: got}
}
