package aggregate

import (
	"reflect"
	"testing"

	"connectvision/internal/domain"
	"connectvision/internal/schedule"
)

func record(identity, category, duration string, minutes float64) domain.Record {
	return domain.Record{
		Identity:        identity,
		Category:        category,
		DurationText:    duration,
		DurationMinutes: minutes,
	}
}

func TestRun(t *testing.T) {
	records := []domain.Record{
		record("alice", "Available", "3:00", 3),
		record("bobby", "Available", "7:00", 7),
		record("carol", "Available", "7:00", 7),
		record("daveyy", "Break", "25:00", 25),
	}
	labels := make([]domain.Label, len(records))

	s := Run(records, labels, schedule.NewIndex())

	if s.TotalCount != 4 {
		t.Errorf("TotalCount = %d, want 4", s.TotalCount)
	}
	sum := 0
	for _, e := range s.PerCategory {
		sum += e.Count
	}
	if sum != s.TotalCount {
		t.Errorf("TotalCount %d != sum of counts %d", s.TotalCount, sum)
	}

	avail := s.PerCategory["Available"]
	if avail.Count != 3 {
		t.Errorf("Available count = %d, want 3", avail.Count)
	}
	if avail.HolderIdentity != "bobby" || avail.MaxDurationMinutes != 7 {
		t.Errorf("tie should keep first holder, got %+v", avail)
	}

	if got := s.Categories(); !reflect.DeepEqual(got, []string{"Available", "Break"}) {
		t.Errorf("Categories() = %v, want ascending order", got)
	}
}

func TestRunIdempotent(t *testing.T) {
	records := []domain.Record{
		record("alice", "Available", "3:00", 3),
		record("bobby", "Break", "25:00", 25),
	}
	labels := []domain.Label{domain.LabelNone, domain.LabelOutOfSchedule}
	ix := schedule.NewIndex()

	first := Run(records, labels, ix)
	second := Run(records, labels, ix)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input must aggregate identically:\n%+v\n%+v", first, second)
	}
}

func TestRunViolations(t *testing.T) {
	ix, err := schedule.BuildIndex([][]string{
		{"Agent Login", "Manager", "Break (10 Mins)", "Break (20 Mins)", "Break (30 Mins)"},
		{"alice", "mgrX", "13:00-13:10", "", ""},
	})
	if err != nil {
		t.Fatalf("building index: %v", err)
	}

	records := []domain.Record{
		record("Alice", "Break", "25:00", 25),
		record("alice", "Break", "26:00", 26),
		record("bobby", "Lunch", "", 40),
	}
	labels := []domain.Label{domain.LabelOutOfSchedule, domain.LabelOutOfSchedule, domain.LabelOutOfSchedule}

	s := Run(records, labels, ix)
	if len(s.Violations) != 2 {
		t.Fatalf("expected 2 violations after dedupe, got %d", len(s.Violations))
	}

	v := s.Violations[0]
	if v.Identity != "Alice" {
		t.Errorf("first occurrence should win, got %q", v.Identity)
	}
	if v.Manager != "mgrX" {
		t.Errorf("manager = %q, want mgrX", v.Manager)
	}
	if v.RawLabels != [3]string{"13:00-13:10", "N/A", "N/A"} {
		t.Errorf("raw labels = %v", v.RawLabels)
	}

	v = s.Violations[1]
	if v.Manager != "N/A" || v.RawLabels != [3]string{"N/A", "N/A", "N/A"} {
		t.Errorf("unscheduled violator should fall back to N/A, got %+v", v)
	}
	if v.DurationText != "N/A" {
		t.Errorf("empty duration should render N/A, got %q", v.DurationText)
	}
}

func TestRunEmpty(t *testing.T) {
	s := Run(nil, nil, schedule.NewIndex())
	if s.TotalCount != 0 || len(s.PerCategory) != 0 || len(s.Violations) != 0 {
		t.Errorf("empty input should produce an empty summary, got %+v", s)
	}
}
