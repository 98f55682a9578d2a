// =============================================================================
// Dashboard Tools - File Utilities
// =============================================================================
//
// This module provides the file helpers shared by the commands that produce
// artifacts:
//   - Output file naming from a placeholder format
//   - Writing files with their parent directories created on demand
//
// WRITE STRATEGY:
//   Files are written to a temporary sibling and renamed into place, so a
//   failed run never leaves a truncated artifact at the target path.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFile writes data to path, creating parent directories as needed.
//
// PARAMETERS:
//   - path: The destination file.
//   - data: The full file content.
//
// RETURNS:
//   - An error if the directory cannot be created or the file cannot be written.
func WriteFile(path string, data []byte) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               any key of params, e.g. {report}, {start}, {end}
//   - params: A map of placeholder values.
//   - ext: The extension the result must carry (e.g. ".xlsx").
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{report}_{start}_{end}.xlsx"
//   params: {"report": "Store_Sales", "start": "2024-01-01", "end": "2024-01-31"}
//   output: "Store_Sales_2024-01-01_2024-01-31.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	for key, value := range params {
		replacements["{"+key+"}"] = sanitizeFileNamePart(value)
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// sanitizeFileNamePart replaces path separators so a parameter value can
// never move the output outside of its directory.
func sanitizeFileNamePart(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-", "..", "_").Replace(s)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
