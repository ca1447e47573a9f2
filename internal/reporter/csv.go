package reporter

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CSVOptions filters the rows of a CSV export.
type CSVOptions struct {
	ReadableOnly bool
}

// RenderCSV generates a CSV export of records followed by summary comment
// lines.
func RenderCSV(records []Record, opts CSVOptions) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{"Search ID", "Crib", "Offset", "Result", "Readable", "Recorded At"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write CSV header: %w", err)
	}

	readable := 0
	searches := make(map[string]struct{})
	for _, r := range records {
		searches[r.SearchID] = struct{}{}
		if r.Readable {
			readable++
		}
		if opts.ReadableOnly && !r.Readable {
			continue
		}
		row := []string{
			r.SearchID,
			r.Crib,
			strconv.Itoa(r.Offset),
			r.ResultText,
			strconv.FormatBool(r.Readable),
			r.RecordedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush CSV: %w", err)
	}

	fmt.Fprintf(&buf, "\n# Searches: %d\n", len(searches))
	fmt.Fprintf(&buf, "# Placements: %d\n", len(records))
	fmt.Fprintf(&buf, "# Readable: %d\n", readable)
	return []byte(buf.String()), nil
}
