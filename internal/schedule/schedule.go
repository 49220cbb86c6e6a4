// Package schedule builds the break-window lookup from an uploaded
// schedule workbook. The index is rebuilt wholesale on every upload and
// read-only in between; a failed build leaves an empty index, which turns
// schedule-violation checks into no-ops until the next upload.
package schedule

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"connectvision/internal/domain"
)

// headerScanRows is how deep into the sheet the header row may sit.
const headerScanRows = 5

var rangeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

type Index struct {
	entries map[string]domain.ScheduleEntry
}

func NewIndex() *Index {
	return &Index{entries: make(map[string]domain.ScheduleEntry)}
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Lookup finds the entry for an identity, case-insensitively.
func (ix *Index) Lookup(identity string) (domain.ScheduleEntry, bool) {
	if ix == nil {
		return domain.ScheduleEntry{}, false
	}
	entry, ok := ix.entries[strings.ToLower(strings.TrimSpace(identity))]
	return entry, ok
}

// columns is the resolved layout of the schedule sheet.
type columns struct {
	login   int
	manager int
	break10 int
	break20 int
	break30 int
}

// BuildIndex parses a sheet of string cells into a schedule index. The
// header row is the first of the leading rows whose first cell contains
// "login"; named columns resolve by case-insensitive substring. A
// resolution failure returns an empty index and an error naming what was
// missing. Individual bad rows or ranges are logged and skipped; they
// never abort the batch.
func BuildIndex(rows [][]string) (*Index, error) {
	ix := NewIndex()

	headerRow := -1
	for i := 0; i < headerScanRows && i < len(rows); i++ {
		if len(rows[i]) > 0 && strings.Contains(strings.ToLower(rows[i][0]), "login") {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return ix, fmt.Errorf("schedule header row not found")
	}

	cols, err := resolveColumns(rows[headerRow])
	if err != nil {
		return ix, err
	}

	loaded := 0
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		login := strings.ToLower(strings.TrimSpace(cellAt(row, cols.login)))
		if login == "" {
			continue
		}

		labels := [3]string{
			cellAt(row, cols.break10),
			cellAt(row, cols.break20),
			cellAt(row, cols.break30),
		}
		var windows []domain.ScheduleWindow
		for _, label := range labels {
			windows = append(windows, ParseWindows(label)...)
		}
		if len(windows) == 0 {
			continue
		}

		manager := "N/A"
		if cols.manager != -1 {
			if m := cellAt(row, cols.manager); m != "" {
				manager = m
			}
		}
		for j, label := range labels {
			if label == "" {
				labels[j] = "N/A"
			}
		}

		ix.entries[login] = domain.ScheduleEntry{
			Identity:  login,
			Manager:   manager,
			Windows:   windows,
			RawLabels: labels,
		}
		loaded++
	}

	log.Printf("schedule index built: %d entries", loaded)
	return ix, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{login: -1, manager: -1, break10: -1, break20: -1, break30: -1}
	for i, h := range header {
		lower := strings.ToLower(h)
		switch {
		case strings.Contains(lower, "login") && cols.login == -1:
			cols.login = i
		case strings.Contains(lower, "manager") && cols.manager == -1:
			cols.manager = i
		case strings.Contains(lower, "break") && strings.Contains(h, "10") && cols.break10 == -1:
			cols.break10 = i
		case strings.Contains(lower, "break") && strings.Contains(h, "20") && cols.break20 == -1:
			cols.break20 = i
		case strings.Contains(lower, "break") && strings.Contains(h, "30") && cols.break30 == -1:
			cols.break30 = i
		}
	}

	var missing []string
	if cols.login == -1 {
		missing = append(missing, "login")
	}
	if cols.break10 == -1 {
		missing = append(missing, "break (10)")
	}
	if cols.break20 == -1 {
		missing = append(missing, "break (20)")
	}
	if cols.break30 == -1 {
		missing = append(missing, "break (30)")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("schedule columns not found: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// ParseWindows extracts zero or more "H:MM-H:MM" ranges from a break cell.
// Ranges are comma or semicolon separated. A range running backwards
// (start after end) is malformed; it is logged and yields no window since
// the schedule format has no wraparound.
func ParseWindows(text string) []domain.ScheduleWindow {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var windows []domain.ScheduleWindow
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' }) {
		m := rangeRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		start := atoi(m[1])*60 + atoi(m[2])
		end := atoi(m[3])*60 + atoi(m[4])
		if start > end {
			log.Printf("schedule range '%s' runs backwards, skipped", strings.TrimSpace(part))
			continue
		}
		windows = append(windows, domain.ScheduleWindow{Start: start, End: end})
	}
	return windows
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
