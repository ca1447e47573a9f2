package cipher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/readability"
)

const (
	KindBitStream  = "bit-stream"
	KindHex        = "hex"
	KindBaudotText = "baudot-text"
)

const (
	minConfidence       = 0.3
	hexPrefixConfidence = 0.95
)

// SmartDetector tells hex ciphertext, bit streams and telegraph text apart.
type SmartDetector struct {
	table *baudot.Table
}

// NewSmartDetector creates a detector that checks text against the merged
// table.
func NewSmartDetector() *SmartDetector {
	return &SmartDetector{table: baudot.Merged}
}

// Detect scores every kind and returns the plausible ones, most likely first.
func (d *SmartDetector) Detect(ctx context.Context, input []byte) ([]DetectionResult, error) {
	s := strings.TrimSpace(string(input))
	if s == "" {
		return nil, fmt.Errorf("empty input")
	}

	var results []DetectionResult
	results = append(results, d.detectBits(s)...)
	results = append(results, d.detectHex(s)...)
	results = append(results, d.detectText(s)...)

	sortResultsByConfidence(results)

	filtered := results[:0]
	for _, r := range results {
		if r.Confidence >= minConfidence {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (d *SmartDetector) SupportedKinds() []string {
	return []string{KindBitStream, KindHex, KindBaudotText}
}

// detectBits matches strings made only of 0, 1 and whitespace.
func (d *SmartDetector) detectBits(s string) []DetectionResult {
	bits := stripSpace(s)
	if checkBits(bits) != nil {
		return nil
	}
	confidence := 0.6
	reason := "only binary digits"
	if len(bits)%baudot.CodeWidth == 0 {
		confidence = 0.9
		reason = "only binary digits, whole 5-bit codes"
	}
	if len(bits) < baudot.CodeWidth {
		confidence = 0.35
	}
	return []DetectionResult{{
		Kind:       KindBitStream,
		Confidence: confidence,
		Reasoning:  reason,
		Operation:  "baudot_decode",
	}}
}

func (d *SmartDetector) detectHex(s string) []DetectionResult {
	hasPrefix := strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
	cleaned := stripHexMarkers(s)
	if cleaned == "" {
		return nil
	}
	digitsOnly := true
	binaryOnly := true
	for _, r := range cleaned {
		switch {
		case r == '0' || r == '1':
		case r >= '2' && r <= '9':
			binaryOnly = false
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
			binaryOnly = false
			digitsOnly = false
		default:
			return nil
		}
	}

	confidence := 0.8
	if hasPrefix {
		confidence = hexPrefixConfidence
	}
	// All-digit input could be decimal; all 0/1 is far more likely bits.
	if digitsOnly {
		confidence *= 0.6
	}
	if binaryOnly && !hasPrefix {
		confidence = 0.4
	}
	return []DetectionResult{{
		Kind:       KindHex,
		Confidence: confidence,
		Reasoning:  "matches hexadecimal pattern",
		Operation:  "hex_to_bits",
	}}
}

// detectText matches input whose every non-space symbol is in the code
// table.
func (d *SmartDetector) detectText(s string) []DetectionResult {
	letters := 0
	total := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if _, err := d.table.SymbolToCode(r); err != nil {
			return nil
		}
		if unicode.IsLetter(r) {
			letters++
		}
		total++
	}
	if letters == 0 {
		return nil
	}

	confidence := 0.5 * float64(letters) / float64(total)
	reason := "every symbol is in the telegraph table"
	if readability.IsReadable(s) {
		confidence = 0.85
		reason += " and the text reads as English"
	}
	return []DetectionResult{{
		Kind:       KindBaudotText,
		Confidence: confidence,
		Reasoning:  reason,
		Operation:  "baudot_encode",
	}}
}

func stripHexMarkers(s string) string {
	s = stripSpace(s)
	s = strings.ReplaceAll(s, "0x", "")
	return strings.ReplaceAll(s, "0X", "")
}

func sortResultsByConfidence(results []DetectionResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
}

// DecodeResult is the outcome of running a detection's suggested operation.
type DecodeResult struct {
	Detection DetectionResult `json:"detection"`
	Output    string          `json:"output,omitempty"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
}

// DecodeAll detects input and runs each suggested operation on it.
func DecodeAll(ctx context.Context, input []byte) ([]DecodeResult, error) {
	detections, err := NewSmartDetector().Detect(ctx, input)
	if err != nil {
		return nil, err
	}

	trimmed := []byte(strings.TrimSpace(string(input)))
	results := make([]DecodeResult, 0, len(detections))
	for _, detection := range detections {
		op, exists := GetOperation(detection.Operation)
		if !exists {
			continue
		}
		out, err := op.Execute(ctx, trimmed, nil)
		if err != nil {
			results = append(results, DecodeResult{Detection: detection, Error: err.Error()})
			continue
		}
		results = append(results, DecodeResult{Detection: detection, Output: string(out), Success: true})
	}
	return results, nil
}
