package crib

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/bitstream"
)

func mustEncode(t *testing.T, text string) string {
	t.Helper()
	bits, err := baudot.EncodeText(text)
	if err != nil {
		t.Fatalf("encode %q: %v", text, err)
	}
	return bits
}

func TestDragRecoversSecondPlaintext(t *testing.T) {
	stream := bitstream.XorBits(mustEncode(t, "HELLO"), mustEncode(t, "WORLD"))

	matches := DragCrib(stream, "HELLO", 10)
	if len(matches) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(matches))
	}
	if matches[0].ResultText != "WORLD" {
		t.Fatalf("expected WORLD at offset 0, got %q", matches[0].ResultText)
	}
	if !matches[0].Readable {
		t.Fatalf("expected WORLD to be readable")
	}
}

func TestDragTwoTimePadScenario(t *testing.T) {
	stream := bitstream.XorBits(mustEncode(t, "ATTACKATDAWN"), mustEncode(t, "REPORTSUCCES"))

	matches := DragCrib(stream, "ATTACK", 0)
	if len(matches) != 7 {
		t.Fatalf("expected 7 placements, got %d", len(matches))
	}
	if matches[0].ResultText != "REPORT" || !matches[0].Readable {
		t.Fatalf("expected readable REPORT at offset 0, got %+v", matches[0])
	}

	matches = DragCrib(stream, "SUCCES", 0)
	if got := matches[6].ResultText; got != "ATDAWN" {
		t.Fatalf("expected ATDAWN at offset 6, got %q", got)
	}
}

func TestDragSearchCompleteness(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	cribs := []string{"", "E", "THE", "REPORT", "SECRETMESSAGE"}

	for i := 0; i < 50; i++ {
		streamLen := r.Intn(80)
		b := make([]byte, streamLen)
		for j := range b {
			b[j] = '0' + byte(r.Intn(2))
		}
		stream := string(b)

		for _, c := range cribs {
			cribBits := mustEncode(t, c)
			matches := DragCrib(stream, c, 0)

			want := 0
			if len(cribBits) <= len(stream) {
				want = (len(stream)-len(cribBits))/5 + 1
			}
			if len(matches) != want {
				t.Fatalf("stream %d bits, crib %q: expected %d matches, got %d", len(stream), c, want, len(matches))
			}
			for o, m := range matches {
				if m.Offset != o {
					t.Fatalf("match %d has offset %d", o, m.Offset)
				}
				window := stream[o*5 : o*5+len(cribBits)]
				if m.ResultBits != bitstream.XorBits(window, cribBits) {
					t.Fatalf("offset %d: wrong result bits", o)
				}
			}
		}
	}
}

func TestDragCribLongerThanStream(t *testing.T) {
	matches := DragCrib("1010101010", "LONGER", 0)
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected an empty, non-nil list, got %v", matches)
	}
}

func TestDragMaxPositions(t *testing.T) {
	stream := strings.Repeat("0", 50)
	if got := len(DragCrib(stream, "THE", 3)); got != 3 {
		t.Fatalf("expected clamp to 3, got %d", got)
	}
	if got := len(DragCrib(stream, "THE", 100)); got != 8 {
		t.Fatalf("expected 8 placements, got %d", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	b := make([]byte, 500)
	for i := range b {
		b[i] = '0' + byte(r.Intn(2))
	}
	stream := string(b)
	ctx := context.Background()

	sequential, err := NewEngine(Config{Workers: 1}).Drag(ctx, stream, "MESSAGE")
	if err != nil {
		t.Fatalf("sequential drag: %v", err)
	}
	parallel, err := NewEngine(Config{Workers: 8}).Drag(ctx, stream, "MESSAGE")
	if err != nil {
		t.Fatalf("parallel drag: %v", err)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Fatalf("parallel results differ from sequential results")
	}
}

func TestDragCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		matches, err := NewEngine(Config{Workers: workers}).Drag(ctx, strings.Repeat("1", 100), "THE")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
		if len(matches) != 0 {
			t.Fatalf("workers=%d: expected no completed matches, got %d", workers, len(matches))
		}
	}
}

func TestApplyOutOfBounds(t *testing.T) {
	engine := NewEngine(Config{})
	m, err := engine.Apply("1111100000", "THE", 1)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if m.ResultText != OutOfBounds || m.Readable {
		t.Fatalf("expected out-of-bounds sentinel, got %+v", m)
	}
	if m.CribBits == "" {
		t.Fatalf("expected crib bits on sentinel")
	}

	m, err = engine.Apply("1111100000", "T", 1)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// 00000 xor 00001 = T
	if m.ResultText != "T" {
		t.Fatalf("expected T, got %q", m.ResultText)
	}
}

func TestStrictTableDecodeError(t *testing.T) {
	engine := NewEngine(Config{Table: baudot.Letters.WithPolicy(baudot.PolicyStrict)})
	matches, err := engine.Drag(context.Background(), "11011", "/")
	if err != nil {
		t.Fatalf("Drag: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if !strings.HasPrefix(matches[0].ResultText, "[DECODE ERROR:") || matches[0].Readable {
		t.Fatalf("expected decode error sentinel, got %+v", matches[0])
	}
}

func TestStrictTableRejectsUnknownCrib(t *testing.T) {
	engine := NewEngine(Config{Table: baudot.Merged.WithPolicy(baudot.PolicyStrict)})
	_, err := engine.Drag(context.Background(), strings.Repeat("0", 20), "A B")
	if !errors.Is(err, baudot.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestCustomScorer(t *testing.T) {
	engine := NewEngine(Config{Scorer: func(string) bool { return true }})
	matches, err := engine.Drag(context.Background(), strings.Repeat("0", 15), "Q")
	if err != nil {
		t.Fatalf("Drag: %v", err)
	}
	if len(Readable(matches)) != 3 {
		t.Fatalf("expected every match to be readable with the custom scorer")
	}
}

func TestDragAll(t *testing.T) {
	stream := bitstream.XorBits(mustEncode(t, "ATTACKATDAWN"), mustEncode(t, "REPORTSUCCES"))
	results, err := NewEngine(Config{Workers: 2}).DragAll(context.Background(), stream, []string{"ATTACK", "REPORT"})
	if err != nil {
		t.Fatalf("DragAll: %v", err)
	}
	if len(results) != 2 || results[0].Crib != "ATTACK" || results[1].Crib != "REPORT" {
		t.Fatalf("unexpected results order: %+v", results)
	}
	if results[1].Matches[0].ResultText != "ATTACK" {
		t.Fatalf("expected REPORT to reveal ATTACK, got %q", results[1].Matches[0].ResultText)
	}
}

func TestReadableFilter(t *testing.T) {
	in := []Match{{Offset: 0, Readable: false}, {Offset: 1, Readable: true}, {Offset: 2, Readable: true}}
	out := Readable(in)
	if len(out) != 2 || out[0].Offset != 1 || out[1].Offset != 2 {
		t.Fatalf("unexpected filter output: %+v", out)
	}
}

func TestFormat(t *testing.T) {
	matches := []Match{
		{Offset: 0, ResultText: "REPORT", Readable: true},
		{Offset: 1, ResultText: "X?9/QZ", Readable: false},
	}

	var buf bytes.Buffer
	if err := Format(&buf, "attack", matches, false); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "CRIB DRAG RESULTS FOR: 'ATTACK'") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Pos   0: REPORT") || !strings.Contains(out, "✓ READABLE") {
		t.Fatalf("missing readable line:\n%s", out)
	}
	if strings.Contains(out, "X?9/QZ") {
		t.Fatalf("unreadable line should be hidden:\n%s", out)
	}
	if !strings.Contains(out, "Found 1 readable results out of 2 positions") {
		t.Fatalf("missing summary:\n%s", out)
	}

	buf.Reset()
	if err := Format(&buf, "attack", matches, true); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(buf.String(), "Pos   1: X?9/QZ") {
		t.Fatalf("expected all lines with showAll:\n%s", buf.String())
	}
}
