package feed

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeContext(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upcoming_context.csv")
	head := "player_id,projected_minutes,injury_status,pace_context,vegas_total,opponent_def_rating\n"
	if err := os.WriteFile(path, []byte(head+body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestContextFileMissing(t *testing.T) {
	src := NewContextFile(ContextFileOptions{Path: filepath.Join(t.TempDir(), "none.csv")}, noopLogger())
	_, err := src.UpcomingContext(context.Background(), "someone")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want fs.ErrNotExist in chain, got %v", err)
	}
}

func TestContextFileNoMatch(t *testing.T) {
	path := writeContext(t, "other-player,32,Healthy,99.1,224,108.5\n")
	src := NewContextFile(ContextFileOptions{Path: path}, noopLogger())
	_, err := src.UpcomingContext(context.Background(), "luka-doncic")
	if !errors.Is(err, ErrNoContextRow) {
		t.Fatalf("want ErrNoContextRow, got %v", err)
	}
}

func TestContextFileLastRowWins(t *testing.T) {
	path := writeContext(t,
		"luka-doncic,34,Questionable,100.2,228,110.0\n"+
			"other-player,30,Healthy,98.0,220,112.0\n"+
			"luka-doncic,28,Probable,99.0,,109.0\n")
	src := NewContextFile(ContextFileOptions{Path: path}, noopLogger())

	ctx, err := src.UpcomingContext(context.Background(), "luka-doncic")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.PlayerID != "luka-doncic" {
		t.Errorf("player id = %q", ctx.PlayerID)
	}
	if ctx.ProjectedMinutes == nil || *ctx.ProjectedMinutes != 28 {
		t.Errorf("later row should override earlier: minutes %v", ctx.ProjectedMinutes)
	}
	if ctx.InjuryStatus != "Probable" {
		t.Errorf("injury status = %q, want Probable", ctx.InjuryStatus)
	}
	if ctx.VegasTotal != nil {
		t.Errorf("empty vegas cell should stay absent, got %v", *ctx.VegasTotal)
	}
	if ctx.OppDefRating == nil || *ctx.OppDefRating != 109 {
		t.Errorf("opponent rating = %v, want 109", ctx.OppDefRating)
	}
}
