package domain

import "time"

// RawRow is one scraped table row before normalization. HeaderCells counts
// the header-tag cells in the row; rows dominated by them are column headers,
// not data.
type RawRow struct {
	Cells       []string
	HeaderCells int
}

type Table struct {
	Rows []RawRow
}

// Snapshot is everything one scrape pass produced. It is consumed by exactly
// one pipeline cycle and then discarded. Headers holds the page-level column
// headers (the workitem table keeps them outside the body).
type Snapshot struct {
	Tables     []Table
	Headers    []string
	CapturedAt time.Time
}

func (s Snapshot) RowCount() int {
	n := 0
	for _, t := range s.Tables {
		n += len(t.Rows)
	}
	return n
}

// Record is the normalized view of one data row. Identity is the
// case-insensitive key (agent login or work-item ID); DurationText keeps the
// original cell for display and export while DurationMinutes carries the
// parsed value.
type Record struct {
	Identity        string
	Category        string
	Severity        string
	DurationMinutes float64
	DurationText    string
	RawCells        map[string]string
}

// AggregateEntry is the per-category tally for one cycle: headcount plus the
// longest observed duration and who holds it.
type AggregateEntry struct {
	Count              int
	MaxDurationMinutes float64
	MaxDurationText    string
	HolderIdentity     string
}

// Violation is one agent found on break or lunch outside every scheduled
// window. RawLabels keeps the three break-column strings exactly as uploaded.
type Violation struct {
	Identity     string
	Manager      string
	Category     string
	DurationText string
	RawLabels    [3]string
}

// ScheduleWindow is a permitted time-of-day interval in minutes of day,
// inclusive at both ends once the compliance buffer is applied.
type ScheduleWindow struct {
	Start int
	End   int
}

// ScheduleEntry is one agent's allowed break windows, built once per upload
// and immutable until the next upload replaces the whole index.
type ScheduleEntry struct {
	Identity  string
	Manager   string
	Windows   []ScheduleWindow
	RawLabels [3]string
}
