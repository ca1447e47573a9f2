package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/RowanDark/cribdrag/internal/bitstream"
	"github.com/RowanDark/cribdrag/internal/crib"
	"github.com/RowanDark/cribdrag/internal/logging"
	"github.com/RowanDark/cribdrag/internal/reporter"
)

type dragOutput struct {
	Stream  string       `json:"stream"`
	Results []dragResult `json:"results"`
}

type dragResult struct {
	SearchID  string       `json:"search_id"`
	Crib      string       `json:"crib"`
	Positions int          `json:"positions"`
	Matches   []crib.Match `json:"matches"`
}

func runDrag(args []string) int {
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}

	fs := flag.NewFlagSet("drag", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	streamFlag := fs.String("stream", "", "XOR bit stream to search")
	c1 := fs.String("c1", "", "first hex ciphertext (with -c2, instead of -stream)")
	c2 := fs.String("c2", "", "second hex ciphertext")
	maxPositions := fs.Int("max", cfg.MaxPositions, "maximum offsets to try (0 = all)")
	workers := fs.Int("workers", cfg.Workers, "search goroutines")
	quick := fs.Bool("quick", false, "also drag the configured quick cribs")
	showAll := fs.Bool("all", false, "list unreadable placements too")
	apply := fs.Int("apply", -1, "place each crib at this single position instead of dragging")
	asJSON := fs.Bool("json", false, "print JSON")
	outPath := fs.String("out", "", "also save placements to this file (.csv, otherwise JSON Lines appended)")
	tf := addTableFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	stream, err := resolveStream(*streamFlag, *c1, *c2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drag: %v\n", err)
		return 2
	}

	cribs := fs.Args()
	if *quick {
		cribs = append(cribs, cfg.QuickCribs...)
	}
	if len(cribs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cribctl drag [flags] CRIB... (or -quick)")
		return 2
	}

	tf.apply(&cfg)
	cfg.Workers = *workers
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	engine := crib.NewEngine(engineCfg)

	audit, err := openAudit(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open audit log: %v\n", err)
		return 1
	}
	defer audit.Close()

	if *apply >= 0 {
		return runApply(engine, stream, cribs, *apply, *asJSON)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := dragOutput{Stream: stream}
	code := 0
	for _, c := range cribs {
		searchID := uuid.NewString()
		matches, err := engine.Drag(ctx, stream, c, crib.WithMaxPositions(*maxPositions))
		if err != nil && !errors.Is(err, context.Canceled) {
			_ = audit.Emit(logging.AuditEvent{
				EventType: logging.EventInvalidInput,
				SearchID:  searchID,
				Decision:  logging.DecisionDeny,
				Reason:    err.Error(),
			})
			fmt.Fprintf(os.Stderr, "drag %q: %v\n", c, err)
			return 1
		}
		readable := crib.Readable(matches)
		_ = audit.Emit(logging.AuditEvent{
			EventType: logging.EventCribDragged,
			SearchID:  searchID,
			Decision:  logging.DecisionInfo,
			Metadata: map[string]any{
				"crib":           c,
				"positions":      len(matches),
				"readable_count": len(readable),
			},
		})

		res := dragResult{SearchID: searchID, Crib: c, Positions: len(matches), Matches: matches}
		if *asJSON && cfg.ReadableOnly && !*showAll {
			res.Matches = readable
		}
		out.Results = append(out.Results, res)

		if !*asJSON {
			if err := crib.Format(os.Stdout, c, matches, *showAll); err != nil {
				fmt.Fprintf(os.Stderr, "write report: %v\n", err)
				return 1
			}
		}
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted; results are partial")
			code = 130
			break
		}
	}

	if *outPath != "" {
		if err := saveResults(*outPath, out.Results, cfg.ReadableOnly && !*showAll); err != nil {
			fmt.Fprintf(os.Stderr, "save results: %v\n", err)
			return 1
		}
	}
	if *asJSON {
		if rc := printJSON(out); rc != 0 {
			return rc
		}
	}
	return code
}

// saveResults writes a CSV export when path ends in .csv and appends JSON
// Lines otherwise.
func saveResults(path string, results []dragResult, readableOnly bool) error {
	now := time.Now()
	var records []reporter.Record
	for _, r := range results {
		records = append(records, reporter.FromMatches(r.SearchID, r.Matches, now)...)
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		data, err := reporter.RenderCSV(records, reporter.CSVOptions{ReadableOnly: readableOnly})
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o600)
	}

	w := reporter.NewWriter(path)
	if err := w.Write(records...); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func runApply(engine *crib.Engine, stream string, cribs []string, position int, asJSON bool) int {
	matches := make([]crib.Match, 0, len(cribs))
	for _, c := range cribs {
		m, err := engine.Apply(stream, c, position)
		if err != nil {
			fmt.Fprintf(os.Stderr, "apply %q: %v\n", c, err)
			return 1
		}
		matches = append(matches, m)
	}
	if asJSON {
		return printJSON(matches)
	}
	for _, m := range matches {
		status := "✗"
		if m.Readable {
			status = "✓ READABLE"
		}
		fmt.Printf("%s @ %d: %s %s\n", m.Crib, m.Offset, m.ResultText, status)
	}
	return 0
}

// resolveStream takes the stream from -stream, or XORs -c1 and -c2.
func resolveStream(stream, c1, c2 string) (string, error) {
	switch {
	case stream != "" && (c1 != "" || c2 != ""):
		return "", errors.New("use either -stream or -c1/-c2, not both")
	case stream != "":
		if _, err := bitstream.BitsToHex(stream); err != nil {
			return "", err
		}
		return stream, nil
	case c1 != "" && c2 != "":
		s, _, err := bitstream.ComputeXorStream(c1, c2)
		return s, err
	default:
		return "", errors.New("a stream is required: pass -stream or both -c1 and -c2")
	}
}
