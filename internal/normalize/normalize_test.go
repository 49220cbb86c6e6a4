package normalize

import (
	"strings"
	"testing"

	"connectvision/internal/domain"
)

func snapshot(rows ...domain.RawRow) domain.Snapshot {
	return domain.Snapshot{Tables: []domain.Table{{Rows: rows}}}
}

func row(cells ...string) domain.RawRow {
	return domain.RawRow{Cells: cells}
}

func TestIsSummaryRow(t *testing.T) {
	cases := []struct {
		identity string
		want     bool
	}{
		{"", true},
		{"=== ACTIVITY SUMMARY ===", true},
		{"Available", true},
		{"available", true},
		{"  Total  ", true},
		{"System/Power/Internet Outage", true},
		{"johndoe", false},
		{"Availables", false},
	}
	for _, c := range cases {
		if got := IsSummaryRow(c.identity); got != c.want {
			t.Errorf("IsSummaryRow(%q) = %v, want %v", c.identity, got, c.want)
		}
	}
}

func TestIsTimeRange(t *testing.T) {
	if !IsTimeRange("22:15-22:25") {
		t.Error("expected 22:15-22:25 to be a time range")
	}
	for _, s := range []string{"22:15", "2:15-22:25", "22:15-22:25 ", "0:05"} {
		if IsTimeRange(s) {
			t.Errorf("expected %q not to be a time range", s)
		}
	}
}

func TestActiveIdentities(t *testing.T) {
	snap := snapshot(
		row("johndoe", "Voice", "Available", "", "00:05:30"),
		// no channel marker
		row("janedoe", "", "Break", "", "00:10:00"),
		// no strict duration
		row("bobsmith", "Chat", "Available", "", "5:30"),
	)
	active := ActiveIdentities(snap)
	if !active["johndoe"] {
		t.Error("johndoe should be active")
	}
	if active["janedoe"] {
		t.Error("janedoe has no channel marker, should not be active")
	}
	if active["bobsmith"] {
		t.Error("bobsmith has no strict duration, should not be active")
	}
}

func TestAgentRecords(t *testing.T) {
	snap := snapshot(
		domain.RawRow{
			Cells:       []string{"Agent Login", "Channels", "Activity", "Next activity", "Duration", "h", "h", "h", "h", "h"},
			HeaderCells: 10,
		},
		row("=== ACTIVITY SUMMARY ==="),
		row("Available", "3"),
		row("johndoe", "Voice", "Available", "", "00:05:30"),
		// duplicate login, first occurrence wins
		row("johndoe", "Voice", "Available", "", "00:09:00"),
		// schedule artifact leaked into the grid
		row("bobsmith", "Voice", "Break", "22:15-22:25", "00:25:00"),
		// stale row, not in the active set
		row("janedoe", "", "Break", "", "0:10"),
		// numeric activity cell
		row("marydoe", "Voice", "42", "", "00:01:00"),
	)

	records := AgentRecords(snap)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Identity != "johndoe" {
		t.Errorf("identity = %q, want johndoe", rec.Identity)
	}
	if rec.Category != "Available" {
		t.Errorf("category = %q, want Available", rec.Category)
	}
	if rec.DurationText != "00:05:30" {
		t.Errorf("first occurrence should win, got duration %q", rec.DurationText)
	}
	if rec.DurationMinutes != 5.5 {
		t.Errorf("duration = %v, want 5.5", rec.DurationMinutes)
	}
	if rec.RawCells["Agent Login"] != "johndoe" || rec.RawCells["Duration"] != "00:05:30" {
		t.Errorf("raw cells not keyed by header name: %v", rec.RawCells)
	}
}

func TestResolveWorkItemSchema(t *testing.T) {
	schema, err := ResolveWorkItemSchema([]string{"ID", "Category", "Severity", "Status", "Age"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.ID != 0 || schema.Category != 1 || schema.Severity != 2 || schema.Age != 4 {
		t.Errorf("unexpected schema: %+v", schema)
	}

	_, err = ResolveWorkItemSchema([]string{"ID", "Category"})
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "Severity") || !strings.Contains(err.Error(), "Age") {
		t.Errorf("error should name missing columns, got %q", err)
	}
}

func TestWorkItemRecords(t *testing.T) {
	schema, err := ResolveWorkItemSchema([]string{"ID", "Category", "Severity", "Age"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := snapshot(
		domain.RawRow{Cells: []string{"ID", "Category", "Severity", "Age"}, HeaderCells: 4},
		row("W-1", "Carrier Callback", "CRITICAL", "0d 0h 5m"),
		// partially rendered age, skipped for this cycle
		row("W-2", "Driver Callback", "CRITICAL", "1h"),
		row("W-1", "Carrier Callback", "CRITICAL", "0d 0h 9m"),
		row("W-3", "Address Issue", "LOW", "1d 2h 3m"),
	)

	records := WorkItemRecords(snap, schema)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Identity != "W-1" || records[0].DurationText != "0d 0h 5m" {
		t.Errorf("first record should be the first W-1 occurrence, got %+v", records[0])
	}
	if records[0].DurationMinutes != 5 {
		t.Errorf("age = %v, want 5", records[0].DurationMinutes)
	}
	if records[1].DurationMinutes != 26*60+3 {
		t.Errorf("age = %v, want %v", records[1].DurationMinutes, 26*60+3)
	}
}
