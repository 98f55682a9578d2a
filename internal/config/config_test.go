package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "employees_data.json", cfg.EmployeesFile)
	assert.Equal(t, "management_data.json", cfg.ManagementFile)
	assert.Equal(t, "بشاير", cfg.Duplicates.TargetName)
	assert.Equal(t, []string{"01-16"}, cfg.Duplicates.DatePatterns)
	assert.Equal(t, []string{"01-16", "16/1"}, cfg.Duplicates.ResolvedDatePatterns)
	assert.Equal(t, "assets/amiri_font.js", cfg.Font.OutputPath)
	assert.Equal(t, "amiriFontBase64", cfg.Font.VariableName)
	assert.Equal(t, 60*time.Second, cfg.Font.Timeout)
	assert.Equal(t, []string{"unknown", "online"}, cfg.Managers.Exclude)
	assert.Equal(t, []string{"0", "9999"}, cfg.Targets.ExcludedStores)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing default file uses defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load(DefaultConfigFile)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		doc := `
employees_file: /data/emp.json
log_level: debug
duplicates:
  target_name: Sara
  date_patterns: ["02-01", "1/2"]
font:
  timeout: 5s
managers:
  exclude: []
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/data/emp.json", cfg.EmployeesFile)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "Sara", cfg.Duplicates.TargetName)
		assert.Equal(t, []string{"02-01", "1/2"}, cfg.Duplicates.DatePatterns)
		assert.Equal(t, 5*time.Second, cfg.Font.Timeout)
		assert.Empty(t, cfg.Managers.Exclude)
		assert.Equal(t, "management_data.json", cfg.ManagementFile)
	})
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"log level", "log_level: loud"},
		{"font url", "font:\n  url: ftp://example.com/font.ttf"},
		{"variable name", "font:\n  variable_name: 1font"},
		{"negative timeout", "font:\n  timeout: -1s"},
		{"blank target", "duplicates:\n  target_name: '   '"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("employees_file: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}
