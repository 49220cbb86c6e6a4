package config

import (
	"fmt"

	"connectvision/internal/timeparse"
)

// Thresholds is the runtime-adjustable highlight configuration. It is an
// immutable value inside a cycle: the classification pass reads a copy and a
// save replaces the whole value between cycles.
//
// All limits are whole minutes plus whole seconds; comparisons run on the
// combined minute value.
type Thresholds struct {
	YellowEnabled bool `yaml:"yellow_enabled"`
	RedEnabled    bool `yaml:"red_enabled"`
	BlueEnabled   bool `yaml:"blue_enabled"`
	OrangeEnabled bool `yaml:"orange_enabled"`

	YellowMinMinutes int `yaml:"yellow_min_minutes"`
	YellowMinSeconds int `yaml:"yellow_min_seconds"`
	YellowMaxMinutes int `yaml:"yellow_max_minutes"`
	YellowMaxSeconds int `yaml:"yellow_max_seconds"`
	RedMinMinutes    int `yaml:"red_min_minutes"`
	RedMinSeconds    int `yaml:"red_min_seconds"`
	BreakMinMinutes  int `yaml:"break_min_minutes"`
	BreakMinSeconds  int `yaml:"break_min_seconds"`
	LunchMinMinutes  int `yaml:"lunch_min_minutes"`
	LunchMinSeconds  int `yaml:"lunch_min_seconds"`

	ScheduleMonitoring bool `yaml:"schedule_monitoring"`
	BufferMinutes      int  `yaml:"buffer_minutes"`
	BufferSeconds      int  `yaml:"buffer_seconds"`

	// set explicitly so the zero value can be told apart from "not loaded"
	defaultsApplied bool
}

func (t *Thresholds) applyDefaults() {
	if t.defaultsApplied {
		return
	}
	t.defaultsApplied = true
	if !t.YellowEnabled && !t.RedEnabled && !t.BlueEnabled && !t.OrangeEnabled &&
		t.YellowMinMinutes == 0 && t.RedMinMinutes == 0 && t.BreakMinMinutes == 0 && t.LunchMinMinutes == 0 {
		*t = Defaults()
	}
}

// Defaults mirrors the values the dashboards shipped with.
func Defaults() Thresholds {
	return Thresholds{
		YellowEnabled:    true,
		RedEnabled:       true,
		BlueEnabled:      true,
		OrangeEnabled:    true,
		YellowMinMinutes: 2,
		YellowMaxMinutes: 5,
		RedMinMinutes:    5,
		BreakMinMinutes:  20,
		LunchMinMinutes:  30,
		defaultsApplied:  true,
	}
}

func (t Thresholds) YellowMin() float64 {
	return timeparse.Total(t.YellowMinMinutes, t.YellowMinSeconds)
}

func (t Thresholds) YellowMax() float64 {
	return timeparse.Total(t.YellowMaxMinutes, t.YellowMaxSeconds)
}

func (t Thresholds) RedMin() float64 {
	return timeparse.Total(t.RedMinMinutes, t.RedMinSeconds)
}

func (t Thresholds) BreakMin() float64 {
	return timeparse.Total(t.BreakMinMinutes, t.BreakMinSeconds)
}

func (t Thresholds) LunchMin() float64 {
	return timeparse.Total(t.LunchMinMinutes, t.LunchMinSeconds)
}

// Buffer is the schedule-compliance tolerance in minutes.
func (t Thresholds) Buffer() float64 {
	return timeparse.Total(t.BufferMinutes, t.BufferSeconds)
}

// Validate rejects threshold combinations that would make the color bands
// overlap or run backwards. Callers must not apply a value that fails here;
// the previous configuration stays in force.
func (t Thresholds) Validate() error {
	for name, v := range map[string]int{
		"yellow_min": t.YellowMinMinutes, "yellow_max": t.YellowMaxMinutes,
		"red_min": t.RedMinMinutes, "break_min": t.BreakMinMinutes,
		"lunch_min": t.LunchMinMinutes, "buffer": t.BufferMinutes,
	} {
		if v < 0 {
			return fmt.Errorf("%s minutes must be >= 0", name)
		}
	}
	for name, v := range map[string]int{
		"yellow_min": t.YellowMinSeconds, "yellow_max": t.YellowMaxSeconds,
		"red_min": t.RedMinSeconds, "break_min": t.BreakMinSeconds,
		"lunch_min": t.LunchMinSeconds, "buffer": t.BufferSeconds,
	} {
		if v < 0 || v > 59 {
			return fmt.Errorf("%s seconds must be between 0 and 59", name)
		}
	}
	if t.YellowEnabled && t.YellowMin() >= t.YellowMax() {
		return fmt.Errorf("yellow minimum must be less than yellow maximum")
	}
	if t.YellowEnabled && t.RedEnabled && t.RedMin() < t.YellowMax() {
		return fmt.Errorf("red minimum must be greater than or equal to yellow maximum")
	}
	return nil
}
