package crib

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 80)

// Format writes a text report of a drag. Unless showAll is set only readable
// placements are listed; the summary line always counts every placement.
func Format(w io.Writer, cribText string, matches []Match, showAll bool) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "CRIB DRAG RESULTS FOR: '%s'\n", strings.ToUpper(cribText))
	fmt.Fprintln(bw, rule)

	readable := 0
	for _, m := range matches {
		if m.Readable {
			readable++
		}
		if !showAll && !m.Readable {
			continue
		}
		status := "✗"
		if m.Readable {
			status = "✓ READABLE"
		}
		fmt.Fprintf(bw, "Pos %3d: %-30s %s\n", m.Offset, m.ResultText, status)
	}

	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "Found %d readable results out of %d positions\n", readable, len(matches))
	fmt.Fprintln(bw, rule)

	return bw.Flush()
}
