// Package scrape turns a saved dashboard page into the cell-text snapshot the
// pipeline consumes. It does no interpretation: every table body, every row,
// every trimmed cell, plus a count of header-tag cells per row.
package scrape

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"connectvision/internal/domain"
)

// Load reads the snapshot HTML at path. A page without tables yields an
// empty snapshot, not an error; the pipeline treats that as "no data".
func Load(path string) (domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (domain.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse snapshot html: %w", err)
	}

	snap := domain.Snapshot{CapturedAt: time.Now()}

	seen := make(map[string]bool)
	doc.Find("thead th, th").Each(func(_ int, th *goquery.Selection) {
		text := strings.TrimSpace(th.Text())
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		snap.Headers = append(snap.Headers, text)
	})

	doc.Find("table tbody").Each(func(_ int, tbody *goquery.Selection) {
		var table domain.Table
		tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row domain.RawRow
			tr.Children().Each(func(_ int, cell *goquery.Selection) {
				name := goquery.NodeName(cell)
				if name != "td" && name != "th" {
					return
				}
				if name == "th" {
					row.HeaderCells++
				}
				row.Cells = append(row.Cells, strings.TrimSpace(cell.Text()))
			})
			table.Rows = append(table.Rows, row)
		})
		snap.Tables = append(snap.Tables, table)
	})
	return snap, nil
}
