package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}

	path := filepath.Join(t.TempDir(), "targets.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseTargets(t *testing.T) {
	path := writeWorkbook(t, "Targets", [][]any{
		{"Target Setting Report"},
		{"Month:", "2026-04"},
		{},
		{"Store ID", "Store Name", "LY Sales", "NEW TARGET", "Growth %"},
		{"101", "Beta Mall", 1500, 1800, "20.0%"},
		{"102", "Alpha Center", 400, "250,000", "-"},
		{"103", "Gamma Outlet", 0, "", "0.0%"},
		{},
		{"", "Total", 1900, 251800, "-"},
	})

	got, err := ParseTargets(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"101": 1800, "102": 250000}, got)
}

func TestParseTargetsCustomColumns(t *testing.T) {
	path := writeWorkbook(t, "Plan", [][]any{
		{"branch", "goal"},
		{"7", 90.5},
	})

	got, err := ParseTargetsWithConfig(path, TargetColumns{Sheet: "Plan", StoreIDHeader: "Branch", TargetHeader: "Goal"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"7": 90.5}, got)
}

func TestParseTargetsErrors(t *testing.T) {
	noHeader := writeWorkbook(t, "Targets", [][]any{{"id", "value"}, {"1", 5}})
	_, err := ParseTargets(noHeader)
	assert.ErrorIs(t, err, ErrHeaderNotFound)

	negative := writeWorkbook(t, "Targets", [][]any{{"Store ID", "NEW TARGET"}, {"1", -5}})
	_, err = ParseTargets(negative)
	assert.ErrorContains(t, err, "row 2")

	text := writeWorkbook(t, "Targets", [][]any{{"Store ID", "NEW TARGET"}, {"1", "soon"}})
	_, err = ParseTargets(text)
	assert.ErrorContains(t, err, `invalid target "soon"`)

	_, err = ParseTargets(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
