// Package ingest feeds values from CSV exports into a filter.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNoHeader      = errors.New("ingest: csv has no header row")
	ErrMissingColumn = errors.New("ingest: column not in header")
)

// DefaultColumns are the sender and recipient columns of a mail export.
var DefaultColumns = []string{"FROM", "TO"}

// Inserter is the part of a filter Load writes to.
type Inserter interface {
	AddString(s string)
}

// ReadColumns returns the distinct non-empty values of the named columns,
// in first-seen order, row by row and column by column within a row.
// Column names match the header case-insensitively. Surrounding
// whitespace and double quotes are stripped from values. Rows too short to
// hold every column are skipped.
func ReadColumns(ctx context.Context, r io.Reader, columns []string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: read header: %w", err)
	}
	idx, maxIdx, err := columnIndexes(header, columns)
	if err != nil {
		return nil, err
	}

	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read row: %w", err)
		}
		if len(row) <= maxIdx {
			continue
		}
		for _, i := range idx {
			v := clean(row[i])
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out, nil
}

// Load adds every value ReadColumns finds to sink and returns how many were
// added.
func Load(ctx context.Context, r io.Reader, columns []string, sink Inserter) (int, error) {
	values, err := ReadColumns(ctx, r, columns)
	if err != nil {
		return 0, err
	}
	for _, v := range values {
		sink.AddString(v)
	}
	return len(values), nil
}

func columnIndexes(header, columns []string) ([]int, int, error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	idx := make([]int, 0, len(columns))
	maxIdx := -1
	for _, want := range columns {
		found := -1
		for i, h := range header {
			if strings.EqualFold(clean(h), strings.TrimSpace(want)) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, 0, fmt.Errorf("%w: %q", ErrMissingColumn, want)
		}
		idx = append(idx, found)
		maxIdx = max(maxIdx, found)
	}
	return idx, maxIdx, nil
}

func clean(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Trim(strings.TrimSpace(s), `"`)
}
