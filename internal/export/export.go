// Package export renders records and aggregates as CSV text and as the
// live summary view. The CSV dialect is the one the downstream tooling
// already ingests: every field double-quoted with internal quotes doubled,
// rows terminated by a bare carriage return.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"connectvision/internal/aggregate"
	"connectvision/internal/domain"
)

// rowSep is carriage-return only. Deliberate: the consumers of these files
// choke on \r\n, so do not "fix" this to a standard line ending.
const rowSep = "\r"

var ErrNothingToExport = errors.New("nothing to export")

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// RecordsCSV renders the data block: one quoted header row, then one row
// per record with fields pulled from the record's raw cells in header
// order. With highlightedOnly set, unlabeled records are dropped and a
// Highlight Status column is appended.
func RecordsCSV(records []domain.Record, labels []domain.Label, headers []string, highlightedOnly bool) (string, error) {
	cols := headers
	if highlightedOnly {
		cols = append(append([]string(nil), headers...), "Highlight Status")
	}

	var b strings.Builder
	quoted := make([]string, len(cols))
	for i, h := range cols {
		quoted[i] = quote(h)
	}
	b.WriteString(strings.Join(quoted, ","))
	b.WriteString(rowSep)

	written := 0
	for i, rec := range records {
		label := domain.LabelNone
		if i < len(labels) {
			label = labels[i]
		}
		if highlightedOnly && label.IsZero() {
			continue
		}
		fields := make([]string, 0, len(cols))
		for _, h := range headers {
			fields = append(fields, quote(rec.RawCells[h]))
		}
		if highlightedOnly {
			fields = append(fields, quote(string(label)))
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString(rowSep)
		written++
	}
	if written == 0 {
		return "", ErrNothingToExport
	}
	return b.String(), nil
}

// SummaryBlock is the aggregate section appended after a full export:
// blank separator rows, a title, the Activity/HC header, one row per
// category ascending and a trailing Total. HC stays unquoted, matching
// what the sheet templates expect.
func SummaryBlock(s aggregate.Summary) string {
	var b strings.Builder
	b.WriteString(rowSep + rowSep + rowSep)
	b.WriteString(quote("=== ACTIVITY SUMMARY ===") + rowSep)
	b.WriteString(`"Activity","HC","Highest Duration","Agent"` + rowSep)
	for _, name := range s.Categories() {
		e := s.PerCategory[name]
		fmt.Fprintf(&b, "%s,%d,%s,%s%s", quote(name), e.Count, quote(e.MaxDurationText), quote(e.HolderIdentity), rowSep)
	}
	fmt.Fprintf(&b, `"Total",%d,"",""%s`, s.TotalCount, rowSep)
	return b.String()
}

// FullCSV is the combined export: the complete data block plus the
// aggregate summary.
func FullCSV(records []domain.Record, labels []domain.Label, headers []string, s aggregate.Summary) (string, error) {
	data, err := RecordsCSV(records, labels, headers, false)
	if err != nil {
		return "", err
	}
	return data + SummaryBlock(s), nil
}

// ActivityCSV is the standalone summary table, unquoted.
func ActivityCSV(s aggregate.Summary) string {
	var b strings.Builder
	b.WriteString("Activity,HC,Highest Duration,Agent" + rowSep)
	for _, name := range s.Categories() {
		e := s.PerCategory[name]
		fmt.Fprintf(&b, "%s,%d,%s,%s%s", name, e.Count, e.MaxDurationText, e.HolderIdentity, rowSep)
	}
	fmt.Fprintf(&b, "Total,%d,,%s", s.TotalCount, rowSep)
	return b.String()
}

// ViolationsCSV renders the out-of-schedule list in first-seen order.
func ViolationsCSV(violations []domain.Violation) (string, error) {
	if len(violations) == 0 {
		return "", ErrNothingToExport
	}
	var b strings.Builder
	b.WriteString(`"Login","Manager","Activity","Duration","Break (10 Mins)","Break (20 Mins)","Break (30 Mins)"` + rowSep)
	for _, v := range violations {
		fields := []string{
			quote(strings.ToLower(v.Identity)),
			quote(v.Manager),
			quote(capitalize(v.Category)),
			quote(v.DurationText),
			quote(v.RawLabels[0]),
			quote(v.RawLabels[1]),
			quote(v.RawLabels[2]),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteString(rowSep)
	}
	return b.String(), nil
}

// Filename stamps an export name with the local wall clock.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("2006-01-02_15-04-05"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
