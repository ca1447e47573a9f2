package crib

import (
	"context"
	"fmt"
	"sync"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/bitstream"
)

// Engine runs crib searches. It holds no per-search state and is safe for
// concurrent use.
type Engine struct {
	config Config
}

// NewEngine creates an engine, filling unset fields of cfg with defaults.
func NewEngine(cfg Config) *Engine {
	return &Engine{config: cfg.withDefaults()}
}

var defaultEngine = NewEngine(Config{})

// DragCrib drags crib across stream with the default engine.
// maxPositions <= 0 tries every offset.
func DragCrib(stream, crib string, maxPositions int) []Match {
	// The default table is lenient and the context is never cancelled, so
	// Drag cannot fail here.
	matches, _ := defaultEngine.Drag(context.Background(), stream, crib, WithMaxPositions(maxPositions))
	return matches
}

// Positions returns how many 5-bit aligned offsets a crib of cribBits bits can
// take in a stream of streamBits bits, capped by maxPositions when positive.
func Positions(streamBits, cribBits, maxPositions int) int {
	if cribBits > streamBits {
		return 0
	}
	n := (streamBits-cribBits)/baudot.CodeWidth + 1
	if maxPositions > 0 && maxPositions < n {
		n = maxPositions
	}
	return n
}

// Drag places cribText at every aligned offset of stream and returns one
// Match per offset in ascending order. A crib longer than the stream yields
// no matches and no error.
//
// If ctx is cancelled the matches completed so far are returned in ascending
// offset order together with ctx.Err().
func (e *Engine) Drag(ctx context.Context, stream, cribText string, opts ...DragOption) ([]Match, error) {
	var o dragOptions
	for _, opt := range opts {
		opt(&o)
	}

	cribBits, err := e.config.Table.EncodeText(cribText)
	if err != nil {
		return nil, fmt.Errorf("encode crib: %w", err)
	}

	n := Positions(len(stream), len(cribBits), o.maxPositions)
	matches := make([]Match, n)

	if e.config.Workers < 2 || n < 2 {
		for pos := 0; pos < n; pos++ {
			if err := ctx.Err(); err != nil {
				return matches[:pos], err
			}
			matches[pos] = e.place(stream, cribText, cribBits, pos)
		}
		return matches, nil
	}

	return e.dragParallel(ctx, stream, cribText, cribBits, matches)
}

// dragParallel fills matches using a worker pool. Each worker writes only the
// slots of the offsets it receives, so the slice is assembled in order without
// locking.
func (e *Engine) dragParallel(ctx context.Context, stream, cribText, cribBits string, matches []Match) ([]Match, error) {
	workers := min(e.config.Workers, len(matches))
	jobs := make(chan int, workers*2)
	done := make([]bool, len(matches))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				if ctx.Err() != nil {
					return
				}
				matches[pos] = e.place(stream, cribText, cribBits, pos)
				done[pos] = true
			}
		}()
	}

feed:
	for pos := range matches {
		select {
		case jobs <- pos:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		completed := make([]Match, 0, len(matches))
		for pos, ok := range done {
			if ok {
				completed = append(completed, matches[pos])
			}
		}
		return completed, err
	}
	return matches, nil
}

// Apply places cribText at a single symbol position.
func (e *Engine) Apply(stream, cribText string, position int) (Match, error) {
	cribBits, err := e.config.Table.EncodeText(cribText)
	if err != nil {
		return Match{}, fmt.Errorf("encode crib: %w", err)
	}
	return e.place(stream, cribText, cribBits, position), nil
}

// DragAll drags each crib in turn and returns the results in input order.
func (e *Engine) DragAll(ctx context.Context, stream string, cribs []string, opts ...DragOption) ([]Result, error) {
	results := make([]Result, 0, len(cribs))
	for _, c := range cribs {
		matches, err := e.Drag(ctx, stream, c, opts...)
		if err != nil {
			return results, fmt.Errorf("crib %q: %w", c, err)
		}
		results = append(results, Result{Crib: c, Matches: matches})
	}
	return results, nil
}

func (e *Engine) place(stream, cribText, cribBits string, position int) Match {
	m := Match{
		Offset:   position,
		Crib:     cribText,
		CribBits: cribBits,
	}

	bitOffset := position * baudot.CodeWidth
	if position < 0 || bitOffset+len(cribBits) > len(stream) {
		m.ResultText = OutOfBounds
		return m
	}

	m.WindowBits = stream[bitOffset : bitOffset+len(cribBits)]
	m.ResultBits = bitstream.XorBits(m.WindowBits, cribBits)

	text, err := e.config.Table.DecodeBits(m.ResultBits)
	if err != nil {
		m.ResultText = fmt.Sprintf("[DECODE ERROR: %v]", err)
		return m
	}
	m.ResultText = text
	m.Readable = e.config.Scorer(text)
	return m
}

// Readable returns the readable matches, keeping their order.
func Readable(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Readable {
			out = append(out, m)
		}
	}
	return out
}
