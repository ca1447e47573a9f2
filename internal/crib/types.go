// Package crib slides guessed plaintext across a two-time-pad XOR stream.
//
// With C1 xor C2 = P1 xor P2, XORing a correct guess of P1 at the right offset
// yields the matching stretch of P2. The engine tries every 5-bit aligned
// offset, decodes each hypothesis and tags the ones that look like English.
package crib

import (
	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/readability"
)

// OutOfBounds is the result text of a placement that overruns the stream.
const OutOfBounds = "[OUT OF BOUNDS]"

// DefaultQuickCribs are words that turn up in most military and commercial
// telegraph traffic.
var DefaultQuickCribs = []string{"THE", "AND", "REPORT", "MESSAGE", "SECRET", "FROM", "STOP", "ATTACK"}

// Match is one crib placement. Matches are produced per Drag call and share
// no state.
type Match struct {
	Offset     int    `json:"offset"`
	Crib       string `json:"crib"`
	WindowBits string `json:"window_bits"`
	CribBits   string `json:"crib_bits"`
	ResultBits string `json:"result_bits"`
	ResultText string `json:"result_text"`
	Readable   bool   `json:"readable"`
}

// Result groups the matches of one crib in a multi-crib run.
type Result struct {
	Crib    string  `json:"crib"`
	Matches []Match `json:"matches"`
}

// Scorer classifies decoded text.
type Scorer func(text string) bool

// Config configures an Engine.
type Config struct {
	// Table decodes hypotheses and encodes cribs. Defaults to baudot.Default.
	Table *baudot.Table

	// Workers is the number of goroutines placing cribs. Values below two
	// run the search on the calling goroutine.
	Workers int

	// Scorer tags readable results. Defaults to readability.IsReadable.
	Scorer Scorer
}

type dragOptions struct {
	maxPositions int
}

// DragOption adjusts a single Drag call.
type DragOption func(*dragOptions)

// WithMaxPositions caps the number of offsets tried. n <= 0 means no cap.
func WithMaxPositions(n int) DragOption {
	return func(o *dragOptions) {
		o.maxPositions = n
	}
}

func (c Config) withDefaults() Config {
	if c.Table == nil {
		c.Table = baudot.Default
	}
	if c.Scorer == nil {
		c.Scorer = readability.IsReadable
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}
