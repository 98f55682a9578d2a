// =============================================================================
// Dashboard Tools - Target Setting Report
// =============================================================================
//
// This module prepares next month's sales targets from the same month of the
// previous year:
//
//   month 2026-04  ->  last-year prefix 2025-04
//
// For every listed store it sums last year's sales, targets and visitors,
// derives the customer value (sales per visitor), and compares a proposed
// new target against last year's sales.
//
// =============================================================================

package targets

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/export"
	"github.com/orangedata/dashtools/internal/xlsxparser"
)

// SheetName is the worksheet name of the report.
const SheetName = "Targets"

// ErrInvalidMonth is returned for a month not in YYYY-MM form.
var ErrInvalidMonth = errors.New("invalid month")

var headers = []string{
	"Store ID", "Store Name", "LY Sales", "LY Target", "LY Visitors", "LY Cust Val", "NEW TARGET", "Growth %",
}

var widths = []float64{10, 25, 14, 14, 12, 12, 14, 10}

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Row is one store of the report.
type Row struct {
	StoreID   string
	StoreName string

	LYSales    float64
	LYTarget   float64
	LYVisitors float64

	NewTarget float64
}

// CustomerValue is last year's sales per visitor, 0 without visitors.
func (r Row) CustomerValue() float64 {
	if r.LYVisitors <= 0 {
		return 0
	}
	return r.LYSales / r.LYVisitors
}

// Growth is the change of the new target over last year's sales, in percent.
// Without last-year sales any positive target counts as 100%.
func (r Row) Growth() float64 {
	switch {
	case r.LYSales > 0:
		return (r.NewTarget - r.LYSales) / r.LYSales * 100
	case r.NewTarget > 0:
		return 100
	default:
		return 0
	}
}

// GrowthText formats Growth with one decimal.
func (r Row) GrowthText() string {
	return fmt.Sprintf("%.1f%%", r.Growth())
}

// Report is the full target-setting report.
type Report struct {
	Month    string
	LYPrefix string
	Rows     []Row
}

// Totals sums every row.
func (r *Report) Totals() Row {
	var t Row
	for _, row := range r.Rows {
		t.LYSales += row.LYSales
		t.LYTarget += row.LYTarget
		t.LYVisitors += row.LYVisitors
		t.NewTarget += row.NewTarget
	}
	return t
}

// HasNewTargets reports whether any store got a positive new target.
func (r *Report) HasNewTargets() bool {
	for _, row := range r.Rows {
		if row.NewTarget > 0 {
			return true
		}
	}
	return false
}

// =============================================================================
// BUILDING THE REPORT
// =============================================================================

// DefaultMonth is the calendar month after now, as YYYY-MM.
func DefaultMonth(now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, 1, 0).Format("2006-01")
}

// LastYearPrefix returns the YYYY-MM date prefix one year before month.
func LastYearPrefix(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", fmt.Errorf("%w: %q, expected YYYY-MM", ErrInvalidMonth, month)
	}
	return t.AddDate(-1, 0, 0).Format("2006-01"), nil
}

// Build aggregates last year's figures for every store not excluded.
//
// PARAMETERS:
//   - data: The management document.
//   - month: The target month, YYYY-MM.
//   - newTargets: Proposed targets keyed by store id; may be nil.
//   - excluded: Store ids left out of the report.
func Build(data *dataset.ManagementData, month string, newTargets map[string]float64, excluded []string) (*Report, error) {
	prefix, err := LastYearPrefix(month)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	stats := make(map[string]*Row)
	for _, id := range data.StoreIDs() {
		if _, ok := skip[id]; ok {
			continue
		}
		stats[id] = &Row{
			StoreID:   id,
			StoreName: data.StoreName(id),
			NewTarget: newTargets[id],
		}
	}

	sum := func(series []dataset.DailyValue, add func(*Row, float64)) {
		for _, v := range series {
			if !strings.HasPrefix(v.Date, prefix) {
				continue
			}
			if row, ok := stats[v.StoreID]; ok {
				add(row, v.Value)
			}
		}
	}
	sum(data.Sales, func(r *Row, v float64) { r.LYSales += v })
	sum(data.Targets, func(r *Row, v float64) { r.LYTarget += v })
	sum(data.Visitors, func(r *Row, v float64) { r.LYVisitors += v })

	report := &Report{Month: month, LYPrefix: prefix}
	for _, row := range stats {
		report.Rows = append(report.Rows, *row)
	}

	coll := export.NewCollator()
	sort.Slice(report.Rows, func(i, j int) bool {
		a, b := report.Rows[i], report.Rows[j]
		if c := coll.CompareString(a.StoreName, b.StoreName); c != 0 {
			return c < 0
		}
		return a.StoreID < b.StoreID
	})

	return report, nil
}

// LoadNewTargets reads proposed targets keyed by store id. An .xlsx file is
// read through the NEW TARGET column of a filled-in targets report; any other
// file is a YAML mapping.
//
// EXAMPLE:
//   "101": 250000
//   "102": 180000
func LoadNewTargets(path string) (map[string]float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.ParseTargets(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var raw map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}
	for id, v := range raw {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid target %v for store %s", v, id)
		}
	}
	return raw, nil
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook renders the report with its title block and a totals row.
func Workbook(report *Report) (*excelize.File, error) {
	rows := make([][]any, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		rows = append(rows, []any{
			r.StoreID,
			r.StoreName,
			r.LYSales,
			r.LYTarget,
			r.LYVisitors,
			math.Round(r.CustomerValue()),
			r.NewTarget,
			r.GrowthText(),
		})
	}

	t := report.Totals()
	rows = append(rows, []any{
		"", "المجموع (Total)", t.LYSales, t.LYTarget, t.LYVisitors, "-", t.NewTarget, "-",
	})

	return export.NewWorkbook(export.Sheet{
		Name: SheetName,
		Preamble: [][]any{
			{"Target Setting Report"},
			{"Month:", report.Month},
			{},
		},
		Headers: headers,
		Widths:  widths,
		Rows:    rows,
	})
}
