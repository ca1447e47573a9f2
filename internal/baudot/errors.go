package baudot

import (
	"errors"
	"fmt"
)

var (
	// ErrLength reports a bit string that does not split into whole codes.
	ErrLength = errors.New("bit length is not a multiple of 5")
	// ErrSymbolNotFound reports a symbol with no code in the table.
	ErrSymbolNotFound = errors.New("symbol not in code table")
	// ErrUnknownCode reports a code with no symbol in the table.
	ErrUnknownCode = errors.New("code not in code table")
)

// LengthError is returned by DecodeBits for a ragged bit string.
type LengthError struct {
	Length int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("binary string length must be multiple of 5, got %d", e.Length)
}

func (e *LengthError) Unwrap() error { return ErrLength }

// UnknownSymbolError is returned by SymbolToCode, and by EncodeText under
// PolicyStrict. Position is the rune index, or -1 for a single lookup.
type UnknownSymbolError struct {
	Symbol   rune
	Position int
}

func (e *UnknownSymbolError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("symbol %q not in code table", e.Symbol)
	}
	return fmt.Sprintf("symbol %q at position %d not in code table", e.Symbol, e.Position)
}

func (e *UnknownSymbolError) Unwrap() error { return ErrSymbolNotFound }

// UnknownCodeError is returned by DecodeBits under PolicyStrict.
type UnknownCodeError struct {
	Code   string
	Offset int
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("code %s at symbol %d not in code table", e.Code, e.Offset)
}

func (e *UnknownCodeError) Unwrap() error { return ErrUnknownCode }
