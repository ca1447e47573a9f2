package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadJSONL loads every record stored in path. A missing file yields no
// records.
func ReadJSONL(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()

	var out []Record
	for {
		var r Record
		if err := dec.Decode(&r); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decode record %d: %w", len(out)+1, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid record %d: %w", len(out)+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}
