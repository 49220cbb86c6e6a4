package schedule

import (
	"strings"
	"testing"

	"connectvision/internal/domain"
)

var header = []string{"Agent Login", "Manager", "Break (10 Mins)", "Break (20 Mins)", "Break (30 Mins)"}

func TestBuildIndex(t *testing.T) {
	rows := [][]string{
		{"Weekly Break Schedule"},
		{},
		header,
		{"bob", "mgrX", "13:00-13:10", "", ""},
		{"alice", "", "9:05-9:15", "12:00-12:20; 15:30-15:40", "18:00-18:30"},
		// no windows at all, skipped
		{"carol", "mgrY", "", "", ""},
		{""},
	}

	ix, err := BuildIndex(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ix.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", ix.Len())
	}

	entry, ok := ix.Lookup("BOB")
	if !ok {
		t.Fatal("lookup should be case-insensitive")
	}
	if entry.Manager != "mgrX" {
		t.Errorf("manager = %q, want mgrX", entry.Manager)
	}
	if len(entry.Windows) != 1 || entry.Windows[0] != (domain.ScheduleWindow{Start: 780, End: 790}) {
		t.Errorf("windows = %v, want [{780 790}]", entry.Windows)
	}
	if entry.RawLabels != [3]string{"13:00-13:10", "N/A", "N/A"} {
		t.Errorf("raw labels = %v", entry.RawLabels)
	}

	entry, _ = ix.Lookup("alice")
	if len(entry.Windows) != 4 {
		t.Errorf("expected 4 windows for alice, got %v", entry.Windows)
	}
	if entry.Manager != "N/A" {
		t.Errorf("missing manager should default to N/A, got %q", entry.Manager)
	}

	if _, ok := ix.Lookup("carol"); ok {
		t.Error("carol has no windows and should not be indexed")
	}
}

func TestBuildIndexMissingColumns(t *testing.T) {
	rows := [][]string{
		{"Agent Login", "Manager", "Break (10 Mins)"},
		{"bob", "mgrX", "13:00-13:10"},
	}
	ix, err := BuildIndex(rows)
	if err == nil {
		t.Fatal("expected error for missing break columns")
	}
	if !strings.Contains(err.Error(), "break (20)") || !strings.Contains(err.Error(), "break (30)") {
		t.Errorf("error should name missing columns, got %q", err)
	}
	if ix.Len() != 0 {
		t.Errorf("failed build must leave an empty index, got %d entries", ix.Len())
	}
}

func TestBuildIndexNoHeader(t *testing.T) {
	rows := [][]string{
		{"nothing"}, {"useful"}, {"here"}, {"at"}, {"all"},
		header,
	}
	if _, err := BuildIndex(rows); err == nil {
		t.Error("header beyond the scan depth should not be found")
	}
}

func TestParseWindows(t *testing.T) {
	ws := ParseWindows("9:05-9:15, 12:00-12:20")
	want := []domain.ScheduleWindow{{Start: 545, End: 555}, {Start: 720, End: 740}}
	if len(ws) != 2 || ws[0] != want[0] || ws[1] != want[1] {
		t.Errorf("windows = %v, want %v", ws, want)
	}

	if ws := ParseWindows("14:30-14:00"); len(ws) != 0 {
		t.Errorf("backwards range should yield no window, got %v", ws)
	}
	if ws := ParseWindows("  "); ws != nil {
		t.Errorf("blank cell should yield nil, got %v", ws)
	}
	if ws := ParseWindows("OFF"); len(ws) != 0 {
		t.Errorf("non-range text should yield no window, got %v", ws)
	}
}
