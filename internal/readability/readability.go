// Package readability decides whether a decoded fragment looks like English.
//
// The rule is a fixed threshold test, not a language model: enough of the
// fragment must be letters, and enough of those letters must come from the
// twelve most frequent letters of English telegraph traffic.
package readability

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinLength is the shortest fragment that can be judged readable.
	MinLength = 3
	// MinLetterFraction is the minimum share of letters among all runes.
	MinLetterFraction = 0.70
	// MinCommonFraction is the minimum share of common letters among letters.
	MinCommonFraction = 0.40
	// CommonLetters are the letters counted towards MinCommonFraction.
	CommonLetters = "ETAOINSHRDLU"
)

// IsReadable reports whether text passes the length, letter-share and
// common-letter thresholds.
func IsReadable(text string) bool {
	total := utf8.RuneCountInString(text)
	if total < MinLength {
		return false
	}

	letters, common := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune(CommonLetters, unicode.ToUpper(r)) {
			common++
		}
	}

	if float64(letters)/float64(total) < MinLetterFraction {
		return false
	}
	// letters > 0 here: total >= MinLength and the letter share passed.
	return float64(common)/float64(letters) >= MinCommonFraction
}
