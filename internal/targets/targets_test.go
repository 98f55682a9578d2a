package targets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/internal/export"
)

const doc = `{
	"stores": {"0": "Warehouse", "9999": "Online", "1": "Beta Mall", "2": "Alpha Center", "3": "Gamma Outlet"},
	"sales": [
		["2025-04-01", "1", 1000], ["2025-04-15", "1", 500], ["2025-04-03", "2", 400],
		["2025-05-01", "1", 777], ["2026-04-01", "1", 888], ["2025-04-02", "0", 50]
	],
	"targets": [["2025-04-01", "1", 1200], ["2025-04-01", "2", 300]],
	"visitors": [["2025-04-01", "1", 100], ["2025-04-10", "1", 50]]
}`

func management(t *testing.T) *dataset.ManagementData {
	t.Helper()
	var data dataset.ManagementData
	require.NoError(t, json.Unmarshal([]byte(doc), &data))
	return &data
}

func TestDefaultMonth(t *testing.T) {
	assert.Equal(t, "2026-11", DefaultMonth(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2027-01", DefaultMonth(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestLastYearPrefix(t *testing.T) {
	got, err := LastYearPrefix("2026-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-04", got)

	_, err = LastYearPrefix("2026-4")
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, err = LastYearPrefix("April")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestBuild(t *testing.T) {
	report, err := Build(management(t), "2026-04", map[string]float64{"1": 1800, "3": 100}, []string{"0", "9999"})
	require.NoError(t, err)

	assert.Equal(t, "2025-04", report.LYPrefix)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "Alpha Center", report.Rows[0].StoreName)
	assert.Equal(t, "Beta Mall", report.Rows[1].StoreName)
	assert.Equal(t, "Gamma Outlet", report.Rows[2].StoreName)

	beta := report.Rows[1]
	assert.Equal(t, 1500.0, beta.LYSales)
	assert.Equal(t, 1200.0, beta.LYTarget)
	assert.Equal(t, 150.0, beta.LYVisitors)
	assert.Equal(t, 10.0, beta.CustomerValue())
	assert.Equal(t, 1800.0, beta.NewTarget)
	assert.InDelta(t, 20.0, beta.Growth(), 1e-9)
	assert.Equal(t, "20.0%", beta.GrowthText())

	alpha := report.Rows[0]
	assert.Zero(t, alpha.CustomerValue())
	assert.Equal(t, "-100.0%", alpha.GrowthText())

	gamma := report.Rows[2]
	assert.Equal(t, 100.0, gamma.Growth())

	totals := report.Totals()
	assert.Equal(t, 1900.0, totals.LYSales)
	assert.Equal(t, 1900.0, totals.NewTarget)
	assert.True(t, report.HasNewTargets())
}

func TestBuildWithoutTargets(t *testing.T) {
	report, err := Build(management(t), "2026-04", nil, nil)
	require.NoError(t, err)
	require.Len(t, report.Rows, 5)
	assert.False(t, report.HasNewTargets())
	for _, r := range report.Rows {
		if r.LYSales == 0 {
			assert.Zero(t, r.Growth())
		}
	}
}

func TestLoadNewTargets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\"1\": 1800\n\"2\": 250.5\n"), 0o644))

	got, err := LoadNewTargets(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"1": 1800, "2": 250.5}, got)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("\"1\": -5\n"), 0o644))
	_, err = LoadNewTargets(bad)
	assert.Error(t, err)

	_, err = LoadNewTargets(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWorkbook(t *testing.T) {
	report, err := Build(management(t), "2026-04", map[string]float64{"1": 1800}, []string{"0", "9999"})
	require.NoError(t, err)

	f, err := Workbook(report)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 8)

	assert.Equal(t, []string{"Target Setting Report"}, rows[0])
	assert.Equal(t, []string{"Month:", "2026-04"}, rows[1])
	assert.Empty(t, rows[2])
	assert.Equal(t, headers, rows[3])
	assert.Equal(t, []string{"1", "Beta Mall", "1500", "1200", "150", "10", "1800", "20.0%"}, rows[5])
	assert.Equal(t, "المجموع (Total)", rows[7][1])
}

func TestLoadNewTargetsFromReport(t *testing.T) {
	report, err := Build(management(t), "2026-04", map[string]float64{"1": 1800, "2": 0}, []string{"0", "9999"})
	require.NoError(t, err)

	f, err := Workbook(report)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "Targets_2026-04.xlsx")
	require.NoError(t, export.Save(f, path))
	require.NoError(t, f.Close())

	got, err := LoadNewTargets(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"1": 1800, "2": 0, "3": 0}, got)
}
