// Package normalize turns scraped rows into typed records. Everything that
// is not a real data row — column headers, the activity-summary pseudo rows,
// schedule artifacts that leak into the live grid, stale rows left by partial
// renders — is filtered out here so the classifier only ever sees records.
package normalize

import (
	"regexp"
	"strings"

	"connectvision/internal/domain"
	"connectvision/internal/timeparse"
)

var (
	timeRe        = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	strictClockRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	timeRangeRe   = regexp.MustCompile(`^\d{2}:\d{2}-\d{2}:\d{2}$`)
	letterRe      = regexp.MustCompile(`[a-zA-Z]`)
	loginRe       = regexp.MustCompile(`[a-zA-Z]{6,8}`)
)

// AgentHeaders is the fixed column order of the agent-status grid. Raw cells
// are stored under these names for export.
var AgentHeaders = []string{
	"Agent Login", "Channels", "Activity", "Next activity", "Duration",
	"Agent Hierarchy", "Routing Profile", "Capacity", "Active", "Availability",
	"Contact State", "Duration_Contact", "Queue", "Avg ACW",
	"Agent non-response", "Handled in", "Handled out", "AHT", "Occupancy",
}

// summaryLabels are first-cell values that mark section or pseudo-header
// rows rather than agents.
var summaryLabels = []string{
	"=== ACTIVITY SUMMARY ===", "Activity", "Total", "After contact work",
	"Available", "On contact", "Break", "Lunch", "Personal", "Training",
	"Meeting", "Project", "Manager 1-1", "Incoming", "Missed", "Outage",
	"Manager Approved", "System/Power/Internet Outage", "Skip Meeting",
	"Start Up", "Team Huddle",
}

const (
	agentIdentityCol = 0
	agentActivityCol = 2
	agentDurationCol = 4
	maxHeaderCells   = 5
)

// IsSummaryRow reports whether the identity cell names a section marker or
// activity pseudo-header instead of an agent.
func IsSummaryRow(identity string) bool {
	if identity == "" {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(identity))
	for _, label := range summaryLabels {
		if lower == strings.ToLower(label) {
			return true
		}
	}
	return false
}

// IsTimeRange reports whether a cell holds a schedule window ("22:15-22:25")
// rather than a duration. Such rows are schedule artifacts, not records.
func IsTimeRange(text string) bool {
	return timeRangeRe.MatchString(text)
}

// ActiveIdentities collects the logins that look genuinely live: their row
// carries a Voice/Chat channel marker and a strict HH:MM:SS duration.
// Rows left behind by partial renders have neither and get suppressed.
func ActiveIdentities(snap domain.Snapshot) map[string]bool {
	active := make(map[string]bool)
	for _, table := range snap.Tables {
		for _, row := range table.Rows {
			if len(row.Cells) < 3 {
				continue
			}
			hasChannel := false
			hasDuration := false
			for _, cell := range row.Cells {
				if strings.Contains(cell, "Voice") || strings.Contains(cell, "Chat") {
					hasChannel = true
				}
				if strictClockRe.MatchString(cell) {
					hasDuration = true
				}
			}
			if !hasChannel || !hasDuration {
				continue
			}
			if login := loginRe.FindString(row.Cells[agentIdentityCol]); login != "" {
				active[strings.ToLower(login)] = true
			}
		}
	}
	return active
}

// AgentRecords normalizes an agent-status snapshot. Identities are
// deduplicated within the pass; the first occurrence wins.
func AgentRecords(snap domain.Snapshot) []domain.Record {
	active := ActiveIdentities(snap)
	seen := make(map[string]bool)
	var records []domain.Record

	for _, table := range snap.Tables {
		for _, row := range table.Rows {
			rec, ok := agentRecord(row, active)
			if !ok {
				continue
			}
			key := strings.ToLower(rec.Identity)
			if seen[key] {
				continue
			}
			seen[key] = true
			records = append(records, rec)
		}
	}
	return records
}

func agentRecord(row domain.RawRow, active map[string]bool) (domain.Record, bool) {
	cells := row.Cells
	if len(cells) <= 2 || row.HeaderCells > maxHeaderCells {
		return domain.Record{}, false
	}

	identity := strings.TrimSpace(cells[agentIdentityCol])
	if identity == "" || identity == "Agent Login" || IsSummaryRow(identity) {
		return domain.Record{}, false
	}

	login := strings.ToLower(loginRe.FindString(identity))
	if login == "" || !active[login] {
		return domain.Record{}, false
	}

	durationText := cellAt(cells, agentDurationCol)
	if IsTimeRange(durationText) {
		return domain.Record{}, false
	}
	for _, cell := range cells {
		if IsTimeRange(strings.TrimSpace(cell)) {
			return domain.Record{}, false
		}
	}

	category := cellAt(cells, agentActivityCol)
	if !letterRe.MatchString(category) {
		return domain.Record{}, false
	}

	raw := make(map[string]string, len(AgentHeaders))
	for j, name := range AgentHeaders {
		raw[name] = cellAt(cells, j)
	}

	return domain.Record{
		Identity:        identity,
		Category:        category,
		DurationText:    durationText,
		DurationMinutes: timeparse.Duration(durationText),
		RawCells:        raw,
	}, true
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
