// Package timeparse converts the two textual time encodings the dashboards
// render into canonical minute values.
//
// Duration cells use a colon grammar ("M:SS" or "H:MM:SS"); age cells use a
// token grammar ("2d 3h 15m"). The grammars stay independent: each dashboard
// renders exactly one of them and a cell valid in one grammar can be garbage
// in the other.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dayRe    = regexp.MustCompile(`(\d+)d`)
	hourRe   = regexp.MustCompile(`(\d+)h`)
	minuteRe = regexp.MustCompile(`(\d+)m`)
)

// Duration parses a colon-delimited duration cell into minutes. Two parts
// are minutes:seconds, three parts are hours:minutes:seconds. A dash, an
// empty cell or anything malformed parses as 0; the function never fails.
func Duration(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return 0
	}
	parts := strings.Split(text, ":")
	switch len(parts) {
	case 2:
		m, ok1 := parsePart(parts[0])
		s, ok2 := parsePart(parts[1])
		if !ok1 || !ok2 {
			return 0
		}
		return float64(m) + float64(s)/60
	case 3:
		h, ok1 := parsePart(parts[0])
		m, ok2 := parsePart(parts[1])
		s, ok3 := parsePart(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return 0
		}
		return float64(h)*60 + float64(m) + float64(s)/60
	default:
		return 0
	}
}

// Age parses a work-item age cell like "1d 2h 30m" into minutes. Any subset
// of the tokens may be absent; no tokens at all is 0.
func Age(text string) float64 {
	total := 0
	if m := dayRe.FindStringSubmatch(text); m != nil {
		d, _ := strconv.Atoi(m[1])
		total += d * 24 * 60
	}
	if m := hourRe.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minuteRe.FindStringSubmatch(text); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return float64(total)
}

// Total combines a whole-minute and whole-second setting into minutes,
// the unit every threshold comparison runs in.
func Total(minutes, seconds int) float64 {
	return float64(minutes) + float64(seconds)/60
}

func parsePart(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
