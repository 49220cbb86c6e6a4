package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"connectvision/internal/domain"
	"connectvision/internal/timeparse"
)

// fullAgeRe is the complete day/hour/minute rendering the task table uses
// for settled rows. Partially rendered ages are skipped for one cycle
// rather than misread.
var fullAgeRe = regexp.MustCompile(`\d+d\s+\d+h\s+\d+m`)

// WorkItemSchema is the resolved column layout of the task table.
type WorkItemSchema struct {
	ID       int
	Category int
	Severity int
	Age      int
	Headers  []string
}

// ResolveWorkItemSchema locates the ID, Category, Severity and Age columns
// by exact header match. The error names every column that is missing.
func ResolveWorkItemSchema(headers []string) (WorkItemSchema, error) {
	schema := WorkItemSchema{ID: -1, Category: -1, Severity: -1, Age: -1, Headers: headers}
	for i, h := range headers {
		switch h {
		case "ID":
			schema.ID = i
		case "Category":
			schema.Category = i
		case "Severity":
			schema.Severity = i
		case "Age":
			schema.Age = i
		}
	}
	var missing []string
	if schema.Category == -1 {
		missing = append(missing, "Category")
	}
	if schema.Severity == -1 {
		missing = append(missing, "Severity")
	}
	if schema.Age == -1 {
		missing = append(missing, "Age")
	}
	if len(missing) > 0 {
		return schema, fmt.Errorf("work-item columns not found: %s", strings.Join(missing, ", "))
	}
	return schema, nil
}

// WorkItemRecords normalizes a task-table snapshot against a resolved
// schema. Rows whose age cell is not a full "Xd Yh Zm" rendering are
// excluded; identities are deduplicated first-wins.
func WorkItemRecords(snap domain.Snapshot, schema WorkItemSchema) []domain.Record {
	need := schema.Age
	if schema.Category > need {
		need = schema.Category
	}
	if schema.Severity > need {
		need = schema.Severity
	}

	seen := make(map[string]bool)
	var records []domain.Record
	for _, table := range snap.Tables {
		for _, row := range table.Rows {
			cells := row.Cells
			if len(cells) == 0 || row.HeaderCells > 0 || len(cells) <= need {
				continue
			}

			ageText := cellAt(cells, schema.Age)
			if !fullAgeRe.MatchString(ageText) {
				continue
			}

			identity := cellAt(cells, schema.ID)
			if identity == "" {
				// no ID column resolved (or empty cell): key on position-free
				// content so dedupe still holds
				identity = cellAt(cells, schema.Category) + "/" + ageText
			}
			key := strings.ToLower(identity)
			if seen[key] {
				continue
			}
			seen[key] = true

			raw := make(map[string]string, len(schema.Headers))
			for j, name := range schema.Headers {
				raw[name] = cellAt(cells, j)
			}

			records = append(records, domain.Record{
				Identity:        identity,
				Category:        cellAt(cells, schema.Category),
				Severity:        cellAt(cells, schema.Severity),
				DurationText:    ageText,
				DurationMinutes: timeparse.Age(ageText),
				RawCells:        raw,
			})
		}
	}
	return records
}
