// Package aggregate folds one cycle's classified records into per-category
// tallies and the deduplicated violation list. Aggregation is a full
// recompute from empty state every cycle; nothing carries over, so two runs
// over the same input are identical.
package aggregate

import (
	"sort"
	"strings"

	"connectvision/internal/domain"
	"connectvision/internal/schedule"
)

type Summary struct {
	PerCategory map[string]*domain.AggregateEntry
	Violations  []domain.Violation
	TotalCount  int
}

// Run consumes the cycle's records in table order. records and labels are
// parallel slices produced by the same pass. The schedule index supplies
// manager and break-label detail for violation rows; a violating record is
// counted in both structures.
func Run(records []domain.Record, labels []domain.Label, ix *schedule.Index) Summary {
	s := Summary{PerCategory: make(map[string]*domain.AggregateEntry)}
	seenViolators := make(map[string]bool)

	for i, rec := range records {
		entry, ok := s.PerCategory[rec.Category]
		if !ok {
			entry = &domain.AggregateEntry{
				MaxDurationMinutes: rec.DurationMinutes,
				MaxDurationText:    orDash(rec.DurationText),
				HolderIdentity:     rec.Identity,
			}
			s.PerCategory[rec.Category] = entry
		}
		entry.Count++
		// strict > keeps the first holder on ties
		if ok && rec.DurationMinutes > entry.MaxDurationMinutes {
			entry.MaxDurationMinutes = rec.DurationMinutes
			entry.MaxDurationText = orDash(rec.DurationText)
			entry.HolderIdentity = rec.Identity
		}

		if i < len(labels) && labels[i] == domain.LabelOutOfSchedule {
			key := strings.ToLower(rec.Identity)
			if !seenViolators[key] {
				seenViolators[key] = true
				s.Violations = append(s.Violations, violation(rec, ix))
			}
		}
	}

	for _, entry := range s.PerCategory {
		s.TotalCount += entry.Count
	}
	return s
}

func violation(rec domain.Record, ix *schedule.Index) domain.Violation {
	v := domain.Violation{
		Identity:     rec.Identity,
		Manager:      "N/A",
		Category:     rec.Category,
		DurationText: orNA(rec.DurationText),
		RawLabels:    [3]string{"N/A", "N/A", "N/A"},
	}
	if entry, ok := ix.Lookup(rec.Identity); ok {
		v.Manager = entry.Manager
		v.RawLabels = entry.RawLabels
	}
	return v
}

// Categories returns the category names in ascending order, the order
// every summary view and export uses.
func (s Summary) Categories() []string {
	names := make([]string, 0, len(s.PerCategory))
	for name := range s.PerCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func orDash(text string) string {
	if text == "" {
		return "-"
	}
	return text
}

func orNA(text string) string {
	if text == "" {
		return "N/A"
	}
	return text
}
