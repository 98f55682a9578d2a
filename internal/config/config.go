// =============================================================================
// Dashboard Tools - Configuration Module
// =============================================================================
//
// This module loads the YAML configuration shared by every command. All keys
// are optional: the defaults reproduce the values the dashboard maintainers
// used when each tool was a standalone script, with data files resolved
// relative to the working directory.
//
// CONFIGURATION FILE (config.yaml):
//   employees_file: employees_data.json
//   management_file: management_data.json
//   duplicates:
//     target_name: بشاير
//     date_patterns: ["01-16"]
//   font:
//     url: https://raw.githubusercontent.com/...
//   managers:
//     output_path: managers_list.txt
//
// Command-line flags override whatever is loaded here.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path used when --config is not given.
const DefaultConfigFile = "config.yaml"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DATA FILES
	// =========================================================================

	// EmployeesFile is the employees_data.json document (history, employee_names).
	EmployeesFile string `yaml:"employees_file"`

	// ManagementFile is the management_data.json document (stores, store_meta, series).
	ManagementFile string `yaml:"management_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional file that receives a copy of the log output.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// TOOL SETTINGS
	// =========================================================================

	Duplicates DuplicatesConfig `yaml:"duplicates"`
	Font       FontConfig       `yaml:"font"`
	Managers   ManagersConfig   `yaml:"managers"`
	Export     ExportConfig     `yaml:"export"`
	Targets    TargetsConfig    `yaml:"targets"`
}

// DuplicatesConfig configures the duplicate record checker.
type DuplicatesConfig struct {
	// TargetName is the substring searched for in record names and,
	// when ids are resolved, in employee display names.
	TargetName string `yaml:"target_name"`

	// DatePatterns are substrings a record date must contain (any of them).
	DatePatterns []string `yaml:"date_patterns"`

	// ResolvedDatePatterns replace DatePatterns when ids are resolved
	// through the employee name index.
	ResolvedDatePatterns []string `yaml:"resolved_date_patterns"`
}

// FontConfig configures the font fetcher.
type FontConfig struct {
	URL          string        `yaml:"url"`
	OutputPath   string        `yaml:"output_path"`
	VariableName string        `yaml:"variable_name"`
	Banner       string        `yaml:"banner"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ManagersConfig configures the manager list extractor.
type ManagersConfig struct {
	OutputPath string `yaml:"output_path"`

	// Exclude lists sentinel manager values, compared case-insensitively.
	// "unknown" and "online" are always excluded in addition.
	Exclude []string `yaml:"exclude"`
}

// ExportConfig configures the workbook exports.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`

	// FileNameFormat is expanded by utils.GenerateOutputFileName.
	// Placeholders: {report}, {start}, {end}, {month}, {date}, {timestamp}, {uuid}
	FileNameFormat string `yaml:"file_name_format"`
}

// TargetsConfig configures the target-setting report.
type TargetsConfig struct {
	// ExcludedStores are store ids never listed in the report.
	ExcludedStores []string `yaml:"excluded_stores"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. An empty path, or the
//     default path when no such file exists, yields Default().
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && configPath == DefaultConfigFile {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.EmployeesFile == "" {
		cfg.EmployeesFile = "employees_data.json"
	}
	if cfg.ManagementFile == "" {
		cfg.ManagementFile = "management_data.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.Duplicates.TargetName == "" {
		cfg.Duplicates.TargetName = "بشاير"
	}
	if len(cfg.Duplicates.DatePatterns) == 0 {
		cfg.Duplicates.DatePatterns = []string{"01-16"}
	}
	if len(cfg.Duplicates.ResolvedDatePatterns) == 0 {
		cfg.Duplicates.ResolvedDatePatterns = []string{"01-16", "16/1"}
	}

	if cfg.Font.URL == "" {
		cfg.Font.URL = "https://raw.githubusercontent.com/google/fonts/main/ofl/amiri/Amiri-Regular.ttf"
	}
	if cfg.Font.OutputPath == "" {
		cfg.Font.OutputPath = "assets/amiri_font.js"
	}
	if cfg.Font.VariableName == "" {
		cfg.Font.VariableName = "amiriFontBase64"
	}
	if cfg.Font.Banner == "" {
		cfg.Font.Banner = "Amiri Regular Font Base64"
	}
	if cfg.Font.Timeout == 0 {
		cfg.Font.Timeout = 60 * time.Second
	}

	if cfg.Managers.OutputPath == "" {
		cfg.Managers.OutputPath = "managers_list.txt"
	}
	if cfg.Managers.Exclude == nil {
		cfg.Managers.Exclude = []string{"unknown", "online"}
	}

	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}
	if cfg.Export.FileNameFormat == "" {
		cfg.Export.FileNameFormat = "{report}_{start}_{end}.xlsx"
	}

	if cfg.Targets.ExcludedStores == nil {
		cfg.Targets.ExcludedStores = []string{"0", "9999"}
	}
}

// Validate checks the configuration for values no command can work with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}

	if strings.TrimSpace(c.Duplicates.TargetName) == "" {
		return fmt.Errorf("%w: duplicates.target_name is blank", ErrInvalid)
	}
	if c.Font.Timeout < 0 {
		return fmt.Errorf("%w: font.timeout must not be negative", ErrInvalid)
	}
	if !strings.HasPrefix(c.Font.URL, "http://") && !strings.HasPrefix(c.Font.URL, "https://") {
		return fmt.Errorf("%w: font.url %q is not an http(s) URL", ErrInvalid, c.Font.URL)
	}
	if !isIdentifier(c.Font.VariableName) {
		return fmt.Errorf("%w: font.variable_name %q is not a valid identifier", ErrInvalid, c.Font.VariableName)
	}
	if strings.Contains(c.Font.Banner, "\n") {
		return fmt.Errorf("%w: font.banner must be a single line", ErrInvalid)
	}

	return nil
}

// isIdentifier reports whether s can be used as a script variable name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
