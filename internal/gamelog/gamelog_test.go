package gamelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const header = "game_date,opponent,minutes,usage_rate,true_shooting_pct,sorare_score,points,pace,opponent_def_rating\n"

func writeLog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "player.csv")
	if err := os.WriteFile(path, []byte(header+body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), 15)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want fs.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadSortsAndTypes(t *testing.T) {
	body := "2025-01-10,BOS,34.5,24.1,0.58,41.2,27,99.4,112.0\n" +
		"2025-01-06,MIA,30.0,,0.52,35.0,22,97.1,110.5\n" +
		",LAL,28.0,22.0,0.50,30.0,18,96.0,108.0\n"
	records, err := Load(writeLog(t, body), 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if !records[0].Date.IsZero() {
		t.Errorf("missing date should sort first, got %v", records[0].Date)
	}
	if records[1].Opponent != "MIA" || records[2].Opponent != "BOS" {
		t.Errorf("dates not ascending: %s then %s", records[1].Opponent, records[2].Opponent)
	}
	if records[1].UsageRate != nil {
		t.Errorf("empty usage cell should be nil, got %v", *records[1].UsageRate)
	}
	if records[2].Minutes == nil || *records[2].Minutes != 34.5 {
		t.Errorf("minutes parsed wrong: %v", records[2].Minutes)
	}
	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !records[2].Date.Equal(want) {
		t.Errorf("date = %v, want %v", records[2].Date, want)
	}
}

func TestLoadTrailingWindow(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "2025-01-%02d,OPP,30,20,0.5,%d,15,98,110\n", i, i)
	}
	records, err := Load(writeLog(t, b.String()), 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 15 {
		t.Fatalf("got %d records, want 15", len(records))
	}
	if *records[0].SorareScore != 6 || *records[14].SorareScore != 20 {
		t.Errorf("trailing window kept wrong slice: first=%v last=%v",
			*records[0].SorareScore, *records[14].SorareScore)
	}
}

func TestLoadKeepsAllWhenTrailingZero(t *testing.T) {
	body := "2025-01-01,A,30,20,0.5,10,8,98,110\n2025-01-02,B,30,20,0.5,11,9,98,110\n"
	records, err := Load(writeLog(t, body), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	records, err := Load(writeLog(t, ""), 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("header-only log should load empty, got %d", len(records))
	}
}

func TestLoadStableTieOrder(t *testing.T) {
	body := "2025-02-01,FIRST,30,20,0.5,10,8,98,110\n" +
		"2025-02-01,SECOND,30,20,0.5,11,9,98,110\n"
	records, err := Load(writeLog(t, body), 15)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Opponent != "FIRST" || records[1].Opponent != "SECOND" {
		t.Fatalf("tie order not preserved: %s, %s", records[0].Opponent, records[1].Opponent)
	}
}
