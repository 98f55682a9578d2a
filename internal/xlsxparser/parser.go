// =============================================================================
// Dashboard Tools - XLSX Target Sheet Parser
// =============================================================================
//
// This module reads proposed store targets back from a workbook. The usual
// input is a Targets_<month>.xlsx produced by the targets command, with the
// NEW TARGET column filled in by hand:
//
//   | Store ID | Store Name | LY Sales | ... | NEW TARGET | Growth % |
//   |----------|------------|----------|-----|------------|----------|
//   | 101      | Beta Mall  | 1500     | ... | 1800       | 20.0%    |
//
// Columns are located by header text, not position, so title rows above the
// header and extra columns are tolerated.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrHeaderNotFound is returned when no row carries both configured headers.
var ErrHeaderNotFound = errors.New("header row not found")

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// TargetColumns tells the parser where to find its data.
type TargetColumns struct {
	// Sheet is the worksheet to read. Empty selects the first sheet.
	Sheet string

	// StoreIDHeader is the header text of the store id column.
	// Default: "Store ID"
	StoreIDHeader string

	// TargetHeader is the header text of the new target column.
	// Default: "NEW TARGET"
	TargetHeader string
}

// DefaultTargetColumns matches the layout of the targets report.
func DefaultTargetColumns() TargetColumns {
	return TargetColumns{
		StoreIDHeader: "Store ID",
		TargetHeader:  "NEW TARGET",
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseTargets reads store targets from an XLSX file using the default columns.
func ParseTargets(path string) (map[string]float64, error) {
	return ParseTargetsWithConfig(path, DefaultTargetColumns())
}

// ParseTargetsWithConfig reads store targets using a custom column configuration.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - columns: The sheet and header configuration.
//
// RETURNS:
//   - Targets keyed by store id. Rows without a store id (such as a totals
//     row) or without a target are skipped.
//   - An error if the file cannot be read, the header row is missing, or a
//     target is not a non-negative number.
func ParseTargetsWithConfig(path string, columns TargetColumns) (map[string]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets workbook: %w", err)
	}
	defer f.Close()

	sheetName := columns.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("targets workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	headerRow, idCol, targetCol := findHeader(rows, columns)
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: %q and %q in sheet %s", ErrHeaderNotFound, columns.StoreIDHeader, columns.TargetHeader, sheetName)
	}

	targets := make(map[string]float64)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		id := cell(row, idCol)
		raw := cell(row, targetCol)
		if id == "" || raw == "" {
			continue
		}

		value, err := parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("error parsing row %d: %w", i+1, err)
		}
		targets[id] = value
	}

	return targets, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// findHeader returns the index of the first row carrying both headers and the
// positions of the two columns, or -1 when there is none.
func findHeader(rows [][]string, columns TargetColumns) (int, int, int) {
	for i, row := range rows {
		idCol, targetCol := -1, -1
		for j, value := range row {
			value = strings.TrimSpace(value)
			switch {
			case strings.EqualFold(value, columns.StoreIDHeader):
				idCol = j
			case strings.EqualFold(value, columns.TargetHeader):
				targetCol = j
			}
		}
		if idCol >= 0 && targetCol >= 0 {
			return i, idCol, targetCol
		}
	}
	return -1, -1, -1
}

func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount accepts plain and thousands-separated numbers ("250,000").
func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid target %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative target %q", raw)
	}
	return v, nil
}
