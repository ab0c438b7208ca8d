package feed

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestLogDirMissingConfig(t *testing.T) {
	src := NewLogDir(LogDirOptions{}, noopLogger())
	if _, err := src.GameLog(context.Background(), "player", 15); err == nil {
		t.Fatal("unconfigured directory should error")
	}

	src = NewLogDir(LogDirOptions{Dir: t.TempDir()}, noopLogger())
	if _, err := src.GameLog(context.Background(), "", 15); err == nil {
		t.Fatal("empty player id should error")
	}
}

func TestLogDirMissingLog(t *testing.T) {
	src := NewLogDir(LogDirOptions{Dir: t.TempDir()}, noopLogger())
	_, err := src.GameLog(context.Background(), "nobody", 15)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want fs.ErrNotExist in chain, got %v", err)
	}
}

func TestLogDirLoadsPlayerFile(t *testing.T) {
	dir := t.TempDir()
	csv := "game_date,opponent,minutes,usage_rate,true_shooting_pct,sorare_score,points,pace,opponent_def_rating\n" +
		"2025-01-03,BOS,31.0,23.5,0.55,38.1,24,98.5,111.2\n" +
		"2025-01-01,MIA,29.5,22.0,0.51,33.4,19,97.0,109.8\n"
	if err := os.WriteFile(filepath.Join(dir, "luka-doncic.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewLogDir(LogDirOptions{Dir: dir}, noopLogger())
	records, err := src.GameLog(context.Background(), "luka-doncic", 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Opponent != "MIA" {
		t.Fatalf("records not ordered by date: first is %s", records[0].Opponent)
	}
}
