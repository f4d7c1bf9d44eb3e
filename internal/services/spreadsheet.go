package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by the header labels of its sheet.
// Cells missing from a row resolve to the empty string.
type Row map[string]string

// Workbook wraps an opened xlsx file and knows which sheets the tracker
// cares about. The source file is a human-maintained workbook, so sheet
// names are matched loosely.
type Workbook struct {
	f *excelize.File
}

func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// PrimarySheetName returns the first sheet whose name contains "cost-share".
func (w *Workbook) PrimarySheetName() (string, bool) {
	for _, name := range w.f.GetSheetList() {
		if strings.Contains(strings.ToLower(name), "cost-share") {
			return name, true
		}
	}
	return "", false
}

// ContactSheetName returns the auxiliary master-database sheet. The expanded
// variant is preferred; a plain "master database" sheet is accepted as a
// fallback. Absence is not an error, older extracts ship without one.
func (w *Workbook) ContactSheetName() (string, bool) {
	var fallback string
	for _, name := range w.f.GetSheetList() {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "master database") {
			continue
		}
		if strings.Contains(lower, "expanded") {
			return name, true
		}
		if fallback == "" {
			fallback = name
		}
	}
	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// SheetRows reads a sheet into ordered rows keyed by the header row.
// Trailing cells the header does not cover are dropped; short rows default
// the remaining columns to "".
func (w *Workbook) SheetRows(sheet string) ([]Row, error) {
	raw, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	headers := raw[0]
	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			header = strings.TrimSpace(header)
			if header == "" {
				continue
			}
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
