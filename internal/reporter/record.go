// Package reporter persists crib drag results as JSON Lines and renders them
// as CSV.
package reporter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RowanDark/cribdrag/internal/crib"
)

// Record is one persisted crib placement.
type Record struct {
	SearchID   string    `json:"search_id"`
	Crib       string    `json:"crib"`
	Offset     int       `json:"offset"`
	ResultText string    `json:"result_text"`
	Readable   bool      `json:"readable"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks the fields every record must carry.
func (r Record) Validate() error {
	var errs []error
	if strings.TrimSpace(r.SearchID) == "" {
		errs = append(errs, errors.New("search_id is required"))
	}
	if strings.TrimSpace(r.Crib) == "" {
		errs = append(errs, errors.New("crib is required"))
	}
	if r.Offset < 0 {
		errs = append(errs, fmt.Errorf("offset must not be negative, got %d", r.Offset))
	}
	if r.RecordedAt.IsZero() {
		errs = append(errs, errors.New("recorded_at is required"))
	}
	return errors.Join(errs...)
}

// FromMatches converts the matches of one search into records stamped with at.
func FromMatches(searchID string, matches []crib.Match, at time.Time) []Record {
	at = at.UTC()
	out := make([]Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, Record{
			SearchID:   searchID,
			Crib:       m.Crib,
			Offset:     m.Offset,
			ResultText: m.ResultText,
			Readable:   m.Readable,
			RecordedAt: at,
		})
	}
	return out
}
