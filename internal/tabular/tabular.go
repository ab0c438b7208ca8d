// Package tabular reads and writes the CSV surfaces of the tool: feature
// dumps, backtest comparisons, scoring tables. Writers take an explicit field
// order so output columns never depend on map iteration.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

// Row is one record keyed by column name.
type Row map[string]string

// ErrNoFields is returned when a write is attempted without a field order.
var ErrNoFields = errors.New("tabular: field order is empty")

// WriteRows writes rows to path in the given field order, creating parent
// directories as needed and truncating any existing file. Keys missing from
// a row become empty cells; keys outside fields are ignored.
func WriteRows(path string, fields []string, rows []Row) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	_ = w.Write(fields)
	record := make([]string, len(fields))
	for _, row := range rows {
		for i, name := range fields {
			record[i] = row[name]
		}
		_ = w.Write(record)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadRows loads a CSV file, returning its header order and one Row per data
// line. Reading back a WriteRows output yields the same fields and cells.
func ReadRows(path string) ([]string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// Cell renders an optional value with a fixed number of decimal places, empty
// when the value is missing.
func Cell(v *float64, places int32) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}

// FixedCell renders a required value with a fixed number of decimal places.
func FixedCell(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
