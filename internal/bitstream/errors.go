package bitstream

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports hex or bit input that cannot be parsed. Nothing is
// returned alongside it.
type InvalidInputError struct {
	Input    string
	Reason   string
	Position int
	Char     rune
}

func (e *InvalidInputError) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("invalid input: %s %q at position %d", e.Reason, e.Char, e.Position)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }
