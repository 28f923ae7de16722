package gaddag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWord is returned when a word given to Build contains the
	// separator or a byte outside the alphabet, or has a bad length.
	ErrInvalidWord = errors.New("gaddag: invalid word")

	// ErrInvalidQuery is returned when a query string contains the separator
	// or a byte outside the alphabet.
	ErrInvalidQuery = errors.New("gaddag: invalid query")

	// ErrCorruptIndex is returned when a persisted index fails validation.
	ErrCorruptIndex = errors.New("gaddag: corrupt index")

	// ErrBuildFailure is returned when construction cannot complete.
	ErrBuildFailure = errors.New("gaddag: build failure")
)

// WordError describes a word rejected while building an index.
type WordError struct {
	Word   string
	Index  int // position in the input, or -1 when unknown
	Reason string
}

func (e *WordError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("gaddag: invalid word %q at position %d: %s", e.Word, e.Index, e.Reason)
	}
	return fmt.Sprintf("gaddag: invalid word %q: %s", e.Word, e.Reason)
}

func (e *WordError) Unwrap() error {
	return ErrInvalidWord
}

// QueryError describes a rejected query string.
type QueryError struct {
	Query  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("gaddag: invalid query %q: %s", e.Query, e.Reason)
}

func (e *QueryError) Unwrap() error {
	return ErrInvalidQuery
}

func corrupt(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorruptIndex, fmt.Sprintf(format, args...))
}
