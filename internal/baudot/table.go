// Package baudot maps 5-bit telegraph codes to symbols and back.
//
// The code assignments follow ITA2 letters mode with the figures used by the
// Bletchley Park teleprinter notation: '/' for the blank (all-zero) code and a
// handful of figures-mode digits. The merged table places both shifts in one
// map, which means one code (10110) belongs to both 'F' and '8'. The figures
// entry is inserted last and wins, so 10110 decodes to '8' and 'F' has no
// forward mapping in the merged table. Callers that need 'F' select the
// letters-mode table explicitly.
package baudot

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// CodeWidth is the number of bits in one telegraph code.
const CodeWidth = 5

const (
	// Blank is the all-zero code, also used for symbols missing from a table.
	Blank = "00000"
	// BlankSymbol is the rendering of Blank.
	BlankSymbol = '/'
	// UnknownSymbol renders a code that no table entry claims.
	UnknownSymbol = '?'
)

// Mode selects which shift(s) a Table covers.
type Mode string

const (
	ModeMerged  Mode = "merged"
	ModeLetters Mode = "letters"
	ModeFigures Mode = "figures"
)

// Policy controls how a Table treats symbols and codes it does not know.
type Policy string

const (
	// PolicyLenient encodes unknown symbols as Blank and decodes unknown
	// codes as UnknownSymbol.
	PolicyLenient Policy = "lenient"
	// PolicyStrict fails on the first unknown symbol or code.
	PolicyStrict Policy = "strict"
)

// Entry is a single code assignment.
type Entry struct {
	Code   string `json:"code" yaml:"code"`
	Symbol rune   `json:"symbol" yaml:"symbol"`
}

var blankEntries = []Entry{
	{Blank, BlankSymbol},
}

var letterEntries = []Entry{
	{"11000", 'A'},
	{"10011", 'B'},
	{"01110", 'C'},
	{"10010", 'D'},
	{"10000", 'E'},
	{"10110", 'F'},
	{"01011", 'G'},
	{"00101", 'H'},
	{"01100", 'I'},
	{"11010", 'J'},
	{"11110", 'K'},
	{"01001", 'L'},
	{"00111", 'M'},
	{"00110", 'N'},
	{"00011", 'O'},
	{"01101", 'P'},
	{"11101", 'Q'},
	{"01010", 'R'},
	{"10100", 'S'},
	{"00001", 'T'},
	{"11100", 'U'},
	{"01111", 'V'},
	{"11001", 'W'},
	{"10111", 'X'},
	{"10101", 'Y'},
	{"10001", 'Z'},
}

// 5 is 11011 so that K xor 5 = H holds.
var figureEntries = []Entry{
	{"01000", '3'},
	{"00010", '4'},
	{"11011", '5'},
	{"10110", '8'},
	{"11111", '9'},
}

// Table is an immutable bidirectional code table. The zero value is not
// usable; use one of the package tables or ForMode.
type Table struct {
	mode     Mode
	policy   Policy
	toSymbol map[string]rune
	toCode   map[rune]string
}

var (
	// Merged holds letters and figures in one map, figures winning collisions.
	Merged = newTable(ModeMerged, blankEntries, letterEntries, figureEntries)
	// Letters holds the blank code and A-Z.
	Letters = newTable(ModeLetters, blankEntries, letterEntries)
	// Figures holds the blank code and the figures-mode digits.
	Figures = newTable(ModeFigures, blankEntries, figureEntries)
)

// Default is the table used by the package-level helpers.
var Default = Merged

// newTable inserts entries in order; a later entry replaces an earlier one
// with the same code. The forward map is derived from the surviving reverse
// entries so a displaced symbol has no code.
func newTable(mode Mode, groups ...[]Entry) *Table {
	t := &Table{
		mode:     mode,
		policy:   PolicyLenient,
		toSymbol: make(map[string]rune),
		toCode:   make(map[rune]string),
	}
	for _, group := range groups {
		for _, e := range group {
			t.toSymbol[e.Code] = e.Symbol
		}
	}
	for code, sym := range t.toSymbol {
		t.toCode[sym] = code
	}
	return t
}

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMerged:
		return ModeMerged, nil
	case ModeLetters:
		return ModeLetters, nil
	case ModeFigures:
		return ModeFigures, nil
	default:
		return "", fmt.Errorf("unknown table mode %q", s)
	}
}

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown symbol policy %q", s)
	}
}

// ForMode returns the package table for mode.
func ForMode(mode Mode) (*Table, error) {
	switch mode {
	case "", ModeMerged:
		return Merged, nil
	case ModeLetters:
		return Letters, nil
	case ModeFigures:
		return Figures, nil
	default:
		return nil, fmt.Errorf("unknown table mode %q", mode)
	}
}

// WithPolicy returns a view of t using policy. The code maps are shared.
func (t *Table) WithPolicy(policy Policy) *Table {
	if policy == "" {
		policy = PolicyLenient
	}
	cp := *t
	cp.policy = policy
	return &cp
}

// Mode reports which shift(s) the table covers.
func (t *Table) Mode() Mode { return t.mode }

// Policy reports how unknown input is handled.
func (t *Table) Policy() Policy { return t.policy }

// Len returns the number of distinct codes in the table.
func (t *Table) Len() int { return len(t.toSymbol) }

// Entries returns the reverse mapping ordered by code.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.toSymbol))
	for code, sym := range t.toSymbol {
		entries = append(entries, Entry{Code: code, Symbol: sym})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Code < entries[j].Code
	})
	return entries
}

// SymbolToCode returns the code for symbol, ignoring case.
func (t *Table) SymbolToCode(symbol rune) (string, error) {
	code, ok := t.toCode[unicode.ToUpper(symbol)]
	if !ok {
		return "", &UnknownSymbolError{Symbol: symbol, Position: -1}
	}
	return code, nil
}

// CodeToSymbol returns the symbol for a 5-bit code. Anything that is not a
// known 5-character code renders as UnknownSymbol.
func (t *Table) CodeToSymbol(code string) rune {
	if len(code) != CodeWidth {
		return UnknownSymbol
	}
	if sym, ok := t.toSymbol[code]; ok {
		return sym
	}
	return UnknownSymbol
}

// EncodeText converts text to concatenated codes, one per rune.
func (t *Table) EncodeText(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text) * CodeWidth)
	pos := 0
	for _, r := range text {
		code, err := t.SymbolToCode(r)
		if err != nil {
			if t.policy == PolicyStrict {
				return "", &UnknownSymbolError{Symbol: r, Position: pos}
			}
			code = Blank
		}
		b.WriteString(code)
		pos++
	}
	return b.String(), nil
}

// DecodeBits converts concatenated codes to text. The length of bits must be
// a multiple of CodeWidth.
func (t *Table) DecodeBits(bits string) (string, error) {
	if len(bits)%CodeWidth != 0 {
		return "", &LengthError{Length: len(bits)}
	}
	var b strings.Builder
	b.Grow(len(bits) / CodeWidth)
	for i := 0; i < len(bits); i += CodeWidth {
		chunk := bits[i : i+CodeWidth]
		sym := t.CodeToSymbol(chunk)
		if sym == UnknownSymbol && t.policy == PolicyStrict {
			return "", &UnknownCodeError{Code: chunk, Offset: i / CodeWidth}
		}
		b.WriteRune(sym)
	}
	return b.String(), nil
}

// SymbolToCode looks symbol up in the Default table.
func SymbolToCode(symbol rune) (string, error) { return Default.SymbolToCode(symbol) }

// CodeToSymbol looks code up in the Default table.
func CodeToSymbol(code string) rune { return Default.CodeToSymbol(code) }

// EncodeText encodes with the Default table. The Default table is lenient, so
// the error is always nil; it is returned to keep the signature uniform.
func EncodeText(text string) (string, error) { return Default.EncodeText(text) }

// DecodeBits decodes with the Default table.
func DecodeBits(bits string) (string, error) { return Default.DecodeBits(bits) }
