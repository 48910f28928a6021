package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hms-analytics/internal/stats"
)

// Sheet is one named tab handed to the workbook sink: a header row and
// uniform-shape data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// BuildWorkbook assembles the sheets, in order, into one xlsx file. Every
// cell passes through the stats normalizer on the way in, so no wide
// integer or exact decimal crosses the spreadsheet boundary raw.
func BuildWorkbook(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("rename first sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
			}
		}

		header := make([]any, len(sheet.Header))
		for j, name := range sheet.Header {
			header[j] = name
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header of %q: %w", sheet.Name, err)
		}

		for rowIdx, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			normalized := stats.Normalize(row).([]any)
			if err := f.SetSheetRow(sheet.Name, cell, &normalized); err != nil {
				return nil, fmt.Errorf("write row %d of %q: %w", rowIdx+2, sheet.Name, err)
			}
		}
	}
	return f, nil
}
