package baudot

import (
	"errors"
	"testing"
)

func TestSymbolCodePairs(t *testing.T) {
	tests := []struct {
		symbol rune
		code   string
	}{
		{'A', "11000"},
		{'B', "10011"},
		{'C', "01110"},
		{'E', "10000"},
		{'H', "00101"},
		{'K', "11110"},
		{'N', "00110"},
		{'S', "10100"},
		{'5', "11011"},
		{'/', "00000"},
	}

	for _, tt := range tests {
		t.Run(string(tt.symbol), func(t *testing.T) {
			code, err := SymbolToCode(tt.symbol)
			if err != nil {
				t.Fatalf("SymbolToCode(%q): %v", tt.symbol, err)
			}
			if code != tt.code {
				t.Errorf("SymbolToCode(%q) = %s, want %s", tt.symbol, code, tt.code)
			}
			if got := CodeToSymbol(tt.code); got != tt.symbol {
				t.Errorf("CodeToSymbol(%s) = %q, want %q", tt.code, got, tt.symbol)
			}
		})
	}
}

func TestSymbolToCodeCaseInsensitive(t *testing.T) {
	lower, err := SymbolToCode('h')
	if err != nil {
		t.Fatalf("SymbolToCode('h'): %v", err)
	}
	if lower != "00101" {
		t.Fatalf("expected 00101, got %s", lower)
	}
}

func TestSymbolToCodeNotFound(t *testing.T) {
	_, err := SymbolToCode('#')
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCodeToSymbolMalformed(t *testing.T) {
	for _, code := range []string{"", "1", "1111", "111111", "abcde"} {
		if got := CodeToSymbol(code); got != UnknownSymbol {
			t.Errorf("CodeToSymbol(%q) = %q, want %q", code, got, UnknownSymbol)
		}
	}
}

func TestMergedCollisionFiguresWin(t *testing.T) {
	if got := Merged.CodeToSymbol("10110"); got != '8' {
		t.Fatalf("expected 10110 to decode as '8', got %q", got)
	}
	if _, err := Merged.SymbolToCode('F'); !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected 'F' to be unreachable in merged table, got %v", err)
	}
	if code, err := Merged.SymbolToCode('8'); err != nil || code != "10110" {
		t.Fatalf("expected '8' -> 10110, got %s (%v)", code, err)
	}
	if Merged.Len() != 31 {
		t.Fatalf("expected 31 codes in merged table, got %d", Merged.Len())
	}
}

func TestLettersTableKeepsF(t *testing.T) {
	code, err := Letters.SymbolToCode('F')
	if err != nil {
		t.Fatalf("Letters.SymbolToCode('F'): %v", err)
	}
	if code != "10110" {
		t.Fatalf("expected 10110, got %s", code)
	}
	if got := Letters.CodeToSymbol("10110"); got != 'F' {
		t.Fatalf("expected 'F', got %q", got)
	}
	if got := Letters.CodeToSymbol("11011"); got != UnknownSymbol {
		t.Fatalf("expected figures code to be unknown in letters table, got %q", got)
	}
}

func TestFiguresTable(t *testing.T) {
	text, err := Figures.DecodeBits("010000001011011101101111100000")
	if err != nil {
		t.Fatalf("DecodeBits: %v", err)
	}
	if text != "34589/" {
		t.Fatalf("expected 34589/, got %q", text)
	}
	if _, err := Figures.SymbolToCode('A'); err == nil {
		t.Fatalf("expected letters to be missing from figures table")
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []string{"HELLO", "BAUDOT", "TEST", "ATTACK", "WORLD", "QUIZ3459/", ""}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			bits, err := EncodeText(text)
			if err != nil {
				t.Fatalf("EncodeText: %v", err)
			}
			if len(bits) != len(text)*CodeWidth {
				t.Fatalf("expected %d bits, got %d", len(text)*CodeWidth, len(bits))
			}
			decoded, err := DecodeBits(bits)
			if err != nil {
				t.Fatalf("DecodeBits: %v", err)
			}
			if decoded != text {
				t.Errorf("roundtrip failed: expected %q, got %q", text, decoded)
			}
		})
	}
}

func TestRoundTripEveryMergedSymbol(t *testing.T) {
	for _, e := range Merged.Entries() {
		bits, err := Merged.EncodeText(string(e.Symbol))
		if err != nil {
			t.Fatalf("encode %q: %v", e.Symbol, err)
		}
		text, err := Merged.DecodeBits(bits)
		if err != nil {
			t.Fatalf("decode %s: %v", bits, err)
		}
		if text != string(e.Symbol) {
			t.Errorf("symbol %q round-tripped to %q", e.Symbol, text)
		}
	}
}

func TestEncodeTextLenient(t *testing.T) {
	bits, err := EncodeText("h i")
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	want := "00101" + Blank + "01100"
	if bits != want {
		t.Fatalf("expected %s, got %s", want, bits)
	}
}

func TestEncodeTextStrict(t *testing.T) {
	strict := Merged.WithPolicy(PolicyStrict)
	_, err := strict.EncodeText("AB#C")
	var symErr *UnknownSymbolError
	if !errors.As(err, &symErr) {
		t.Fatalf("expected UnknownSymbolError, got %v", err)
	}
	if symErr.Symbol != '#' || symErr.Position != 2 {
		t.Fatalf("unexpected error detail: %+v", symErr)
	}
	if Merged.Policy() != PolicyLenient {
		t.Fatalf("WithPolicy must not modify the shared table")
	}
}

func TestDecodeBitsLengthError(t *testing.T) {
	_, err := DecodeBits("1010")
	if !errors.Is(err, ErrLength) {
		t.Fatalf("expected ErrLength, got %v", err)
	}
	var lenErr *LengthError
	if !errors.As(err, &lenErr) || lenErr.Length != 4 {
		t.Fatalf("expected LengthError{4}, got %v", err)
	}
}

func TestDecodeBitsUnknownChunk(t *testing.T) {
	text, err := Letters.DecodeBits("00101" + "11011")
	if err != nil {
		t.Fatalf("DecodeBits: %v", err)
	}
	if text != "H?" {
		t.Fatalf("expected H?, got %q", text)
	}

	_, err = Letters.WithPolicy(PolicyStrict).DecodeBits("00101" + "11011")
	var codeErr *UnknownCodeError
	if !errors.As(err, &codeErr) {
		t.Fatalf("expected UnknownCodeError, got %v", err)
	}
	if codeErr.Code != "11011" || codeErr.Offset != 1 {
		t.Fatalf("unexpected error detail: %+v", codeErr)
	}
}

func TestParseModeAndPolicy(t *testing.T) {
	if m, err := ParseMode(" Letters "); err != nil || m != ModeLetters {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != ModeMerged {
		t.Fatalf("ParseMode empty: %v %v", m, err)
	}
	if _, err := ParseMode("shifted"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if p, err := ParsePolicy("STRICT"); err != nil || p != PolicyStrict {
		t.Fatalf("ParsePolicy: %v %v", p, err)
	}
	if _, err := ParsePolicy("loose"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}

	table, err := ForMode(ModeFigures)
	if err != nil || table != Figures {
		t.Fatalf("ForMode(figures) = %v, %v", table, err)
	}
}

func TestVerifyXORLogic(t *testing.T) {
	check, ok := VerifyXORLogic()
	if !ok {
		t.Fatalf("expected K xor 5 = H, got %+v", check)
	}
	if check.K != "11110" || check.Five != "11011" || check.H != "00101" {
		t.Fatalf("unexpected operands: %+v", check)
	}
}
