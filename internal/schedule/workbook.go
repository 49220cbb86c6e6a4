package schedule

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook reads the first sheet of an .xlsx file into rows of string
// cells. Sparse rows keep their positional gaps as empty strings, which is
// what BuildIndex expects.
func Workbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("schedule workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read schedule sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// LoadIndex is the one-call path from workbook file to index.
func LoadIndex(path string) (*Index, error) {
	rows, err := Workbook(path)
	if err != nil {
		return NewIndex(), err
	}
	return BuildIndex(rows)
}
