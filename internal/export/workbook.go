// =============================================================================
// Dashboard Tools - Workbook Writer
// =============================================================================
//
// Thin helpers over excelize shared by every report: one styled header row,
// data rows below it, fixed column widths.
//
// =============================================================================

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/orangedata/dashtools/pkg/utils"
)

// Sheet describes one worksheet of a report.
type Sheet struct {
	Name string

	// Preamble rows are written above the header, e.g. a title block.
	Preamble [][]any

	Headers []string
	Widths  []float64
	Rows    [][]any
}

// NewWorkbook builds a workbook holding the given sheets, in order.
func NewWorkbook(sheets ...Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	row := 1
	for _, values := range sheet.Preamble {
		if err := setRow(f, sheet.Name, row, values); err != nil {
			return err
		}
		row++
	}

	headerRow := row
	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := setRow(f, sheet.Name, headerRow, header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#F4B183"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet.Name, headerRow, headerRow, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for _, values := range sheet.Rows {
		row++
		if err := setRow(f, sheet.Name, row, values); err != nil {
			return err
		}
	}

	for i, w := range sheet.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheet.Name, col, col, w); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// Save writes the workbook to path, creating parent directories.
func Save(f *excelize.File, path string) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
