package tabular

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.csv")
	fields := []string{"game_date", "opponent", "score"}
	rows := []Row{
		{"game_date": "2025-01-05", "opponent": "BOS", "score": "41.20"},
		{"game_date": "2025-01-07", "opponent": "MIA", "score": ""},
	}
	if err := WriteRows(path, fields, rows); err != nil {
		t.Fatal(err)
	}

	header, got, err := ReadRows(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(header) != 3 || header[0] != "game_date" || header[2] != "score" {
		t.Fatalf("header order not preserved: %v", header)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0]["opponent"] != "BOS" || got[1]["score"] != "" {
		t.Fatalf("cells lost in round trip: %v", got)
	}
}

func TestWriteRowsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	fields := []string{"a"}
	if err := WriteRows(path, fields, []Row{{"a": "1"}, {"a": "2"}}); err != nil {
		t.Fatal(err)
	}
	if err := WriteRows(path, fields, []Row{{"a": "9"}}); err != nil {
		t.Fatal(err)
	}
	_, rows, err := ReadRows(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0]["a"] != "9" {
		t.Fatalf("second write did not truncate: %v", rows)
	}
}

func TestWriteRowsDropsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := WriteRows(path, []string{"kept"}, []Row{{"kept": "x", "stray": "y"}})
	if err != nil {
		t.Fatal(err)
	}
	header, rows, err := ReadRows(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(header) != 1 || rows[0]["kept"] != "x" {
		t.Fatalf("unexpected content: %v %v", header, rows)
	}
	if _, ok := rows[0]["stray"]; ok {
		t.Fatal("stray column survived the write")
	}
}

func TestWriteRowsNoFields(t *testing.T) {
	err := WriteRows(filepath.Join(t.TempDir(), "out.csv"), nil, nil)
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("want ErrNoFields, got %v", err)
	}
}

func TestCellFormatting(t *testing.T) {
	if got := Cell(nil, 2); got != "" {
		t.Errorf("nil cell = %q, want empty", got)
	}
	if got := Cell(stats.Ptr(41.2), 2); got != "41.20" {
		t.Errorf("Cell = %q, want 41.20", got)
	}
	if got := FixedCell(0.5649, 3); got != "0.565" {
		t.Errorf("FixedCell = %q, want 0.565", got)
	}
}
