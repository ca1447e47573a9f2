// Package bitstream converts ciphertext between hex and bit strings and
// combines bit strings with XOR.
//
// A bit string is a Go string of '0' and '1' characters. Streams produced by
// HexToBits are always padded on the left to a whole number of 5-bit codes.
//
// HexToBits and BitsToHex are not inverses. HexToBits adds leading zero bits
// to reach a multiple of five, and BitsToHex drops leading zero nibbles, so
// "00FF" becomes "0011111111" and then "FF".
package bitstream

import (
	"math/big"
	"strings"
	"unicode"
)

// CodeWidth is the number of bits per telegraph code.
const CodeWidth = 5

// HexToBits parses a hex ciphertext into a bit string. Whitespace and 0x/0X
// markers are removed first, so "0xAB 0xCD" is accepted.
func HexToBits(hex string) (string, error) {
	cleaned := stripHex(hex)
	if cleaned == "" {
		return "", &InvalidInputError{Input: hex, Reason: "empty after cleaning"}
	}
	for i, r := range cleaned {
		if !isHexDigit(r) {
			return "", &InvalidInputError{Input: hex, Reason: "non-hex character", Position: i, Char: r}
		}
	}

	n, ok := new(big.Int).SetString(cleaned, 16)
	if !ok {
		return "", &InvalidInputError{Input: hex, Reason: "not a hex number"}
	}
	return padToCodeWidth(n.Text(2)), nil
}

// BitsToHex renders a bit string as upper-case hex without leading zeros.
func BitsToHex(bits string) (string, error) {
	if bits == "" {
		return "", &InvalidInputError{Input: bits, Reason: "empty bit string"}
	}
	for i, r := range bits {
		if r != '0' && r != '1' {
			return "", &InvalidInputError{Input: bits, Reason: "non-binary character", Position: i, Char: r}
		}
	}
	n, ok := new(big.Int).SetString(bits, 2)
	if !ok {
		return "", &InvalidInputError{Input: bits, Reason: "not a binary number"}
	}
	return strings.ToUpper(n.Text(16)), nil
}

// XorBits left-pads the shorter operand with zeros and XORs the two strings
// position by position. Positions that differ yield '1'.
func XorBits(a, b string) string {
	width := max(len(a), len(b))
	a = leftPad(a, width)
	b = leftPad(b, width)

	out := make([]byte, width)
	for i := 0; i < width; i++ {
		if a[i] != b[i] {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// ComputeXorStream returns C1 xor C2 as a bit string and as 5-bit chunks.
func ComputeXorStream(hexA, hexB string) (string, []string, error) {
	bitsA, err := HexToBits(hexA)
	if err != nil {
		return "", nil, err
	}
	bitsB, err := HexToBits(hexB)
	if err != nil {
		return "", nil, err
	}
	stream := XorBits(bitsA, bitsB)
	return stream, Chunks(stream), nil
}

// Chunks splits bits into 5-bit codes. A short trailing chunk is padded on
// the right with zeros; it exists for display and is never searched.
func Chunks(bits string) []string {
	chunks := make([]string, 0, (len(bits)+CodeWidth-1)/CodeWidth)
	for i := 0; i < len(bits); i += CodeWidth {
		end := min(i+CodeWidth, len(bits))
		chunk := bits[i:end]
		if len(chunk) < CodeWidth {
			chunk += strings.Repeat("0", CodeWidth-len(chunk))
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// CleanHex drops every character that is not a hex digit. Operator input
// pasted from a terminal is passed through this before HexToBits.
func CleanHex(raw string) string {
	return strings.Map(func(r rune) rune {
		if isHexDigit(r) {
			return r
		}
		return -1
	}, raw)
}

func stripHex(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "0x", "")
	return strings.ReplaceAll(s, "0X", "")
}

func padToCodeWidth(bits string) string {
	if rem := len(bits) % CodeWidth; rem != 0 {
		return strings.Repeat("0", CodeWidth-rem) + bits
	}
	return bits
}

func leftPad(bits string, width int) string {
	if len(bits) >= width {
		return bits
	}
	return strings.Repeat("0", width-len(bits)) + bits
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
