package bitstream

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestHexToBits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"two nibbles", "FF", "0011111111"},
		{"mixed bits", "A5", "0010100101"},
		{"zero", "00", "00000"},
		{"already aligned", "1F", "11111"},
		{"lower case", "ff", "0011111111"},
		{"0x prefix", "0xFF", "0011111111"},
		{"0X prefix", "0XFF", "0011111111"},
		{"whitespace", " f\tf\n", "0011111111"},
		{"prefixed tokens", "0xA1 0xB2", "00001010000110110010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToBits(tt.input)
			if err != nil {
				t.Fatalf("HexToBits(%q): %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("HexToBits(%q) = %s, want %s", tt.input, got, tt.expected)
			}
			if len(got)%CodeWidth != 0 {
				t.Errorf("length %d is not a multiple of %d", len(got), CodeWidth)
			}
		})
	}
}

func TestHexToBitsInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "0x", "GG", "12 3Z", "0x12-34"} {
		t.Run(input, func(t *testing.T) {
			_, err := HexToBits(input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("HexToBits(%q): expected ErrInvalidInput, got %v", input, err)
			}
		})
	}
}

func TestBitsToHex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0011111111", "FF"},
		{"11111111", "FF"},
		{"00000", "0"},
		{"0101000011011001011000011", "A1B2C3"},
	}
	for _, tt := range tests {
		got, err := BitsToHex(tt.input)
		if err != nil {
			t.Fatalf("BitsToHex(%q): %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("BitsToHex(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}

	for _, bad := range []string{"", "10201"} {
		if _, err := BitsToHex(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("BitsToHex(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestHexBitsAsymmetry(t *testing.T) {
	bits, err := HexToBits("00FF")
	if err != nil {
		t.Fatalf("HexToBits: %v", err)
	}
	hex, err := BitsToHex(bits)
	if err != nil {
		t.Fatalf("BitsToHex: %v", err)
	}
	if hex != "FF" {
		t.Fatalf("expected leading zero nibble to be dropped, got %s", hex)
	}
}

func TestXorBits(t *testing.T) {
	tests := []struct {
		a, b, expected string
	}{
		{"11111", "00000", "11111"},
		{"10101", "01010", "11111"},
		{"11110", "01000", "10110"},
		{"11110", "00010", "11100"},
		{"1", "0110", "0111"},
		{"", "101", "101"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := XorBits(tt.a, tt.b); got != tt.expected {
			t.Errorf("XorBits(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.expected)
		}
	}
}

func randomBits(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + byte(r.Intn(2))
	}
	return string(b)
}

func TestXorBitsProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		n := r.Intn(64)
		a := randomBits(r, n)
		b := randomBits(r, n)

		if XorBits(a, b) != XorBits(b, a) {
			t.Fatalf("xor not commutative for %q, %q", a, b)
		}
		if got := XorBits(XorBits(a, b), b); got != a {
			t.Fatalf("xor not an involution: %q ^ %q ^ %q = %q", a, b, b, got)
		}
	}
}

func TestComputeXorStream(t *testing.T) {
	stream, chunks, err := ComputeXorStream("A1B2C3", "D4E5F6")
	if err != nil {
		t.Fatalf("ComputeXorStream: %v", err)
	}
	// A1B2C3 ^ D4E5F6 = 755735
	if stream != "0011101010101011100110101" {
		t.Fatalf("unexpected stream %s", stream)
	}
	want := []string{"00111", "01010", "10101", "11001", "10101"}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("chunks = %v, want %v", chunks, want)
	}
}

func TestComputeXorStreamUnequalLengths(t *testing.T) {
	stream, _, err := ComputeXorStream("FF", "1")
	if err != nil {
		t.Fatalf("ComputeXorStream: %v", err)
	}
	// 0011111111 ^ 0000000001
	if stream != "0011111110" {
		t.Fatalf("unexpected stream %s", stream)
	}
}

func TestComputeXorStreamInvalid(t *testing.T) {
	if _, _, err := ComputeXorStream("FF", "xyz"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		bits     string
		expected []string
	}{
		{"", []string{}},
		{"1101", []string{"11010"}},
		{"110101", []string{"11010", "10000"}},
		{"1111100000", []string{"11111", "00000"}},
	}
	for _, tt := range tests {
		if got := Chunks(tt.bits); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Chunks(%q) = %v, want %v", tt.bits, got, tt.expected)
		}
	}
}

func TestCleanHex(t *testing.T) {
	if got := CleanHex("de:ad be-ef\n"); got != "deadbeef" {
		t.Fatalf("CleanHex = %q", got)
	}
}
