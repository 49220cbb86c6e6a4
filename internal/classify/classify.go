// Package classify assigns each record its single highlight label for the
// cycle. Rules run in strict priority order and the first match wins; a
// schedule violation therefore shadows every duration band.
package classify

import (
	"strings"

	"connectvision/internal/config"
	"connectvision/internal/domain"
	"connectvision/internal/schedule"
)

// Agent classifies one agent-status record. nowMinuteOfDay is the current
// local time as fractional minutes since midnight.
func Agent(rec domain.Record, th config.Thresholds, ix *schedule.Index, nowMinuteOfDay float64) domain.Label {
	category := strings.ToLower(strings.TrimSpace(rec.Category))

	if th.ScheduleMonitoring && (category == "break" || category == "lunch") {
		if OutOfSchedule(rec.Identity, ix, th.Buffer(), nowMinuteOfDay) {
			return domain.LabelOutOfSchedule
		}
	}

	d := rec.DurationMinutes
	switch category {
	case "available":
		if th.RedEnabled && d >= th.RedMin() {
			return domain.LabelDurationHigh
		}
		if th.YellowEnabled && d >= th.YellowMin() && d < th.YellowMax() {
			return domain.LabelDurationMedium
		}
	case "break":
		if th.BlueEnabled && d > th.BreakMin() {
			return domain.LabelBreakOverlong
		}
	case "lunch":
		if th.OrangeEnabled && d > th.LunchMin() {
			return domain.LabelLunchOverlong
		}
	}
	return domain.LabelNone
}

// OutOfSchedule reports whether an identity on break is outside every one of
// its scheduled windows. Each window is widened by the buffer on both sides
// and is inclusive at both ends; compliance with any single window clears
// the identity. An identity with no entry or no windows is never a
// violation.
func OutOfSchedule(identity string, ix *schedule.Index, buffer, nowMinuteOfDay float64) bool {
	entry, ok := ix.Lookup(identity)
	if !ok || len(entry.Windows) == 0 {
		return false
	}
	for _, w := range entry.Windows {
		if nowMinuteOfDay >= float64(w.Start)-buffer && nowMinuteOfDay <= float64(w.End)+buffer {
			return false
		}
	}
	return true
}

// MinuteOfDay converts a wall-clock time to fractional minutes since
// midnight, seconds included.
func MinuteOfDay(hour, minute, second int) float64 {
	return float64(hour)*60 + float64(minute) + float64(second)/60
}
