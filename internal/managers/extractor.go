// Package managers extracts the distinct area-manager names from store
// metadata and writes them as a plain-text list.
package managers

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/pkg/utils"
)

// DefaultExclude are the sentinel manager values that never name a person.
var DefaultExclude = []string{"unknown", "online"}

// Extract returns each distinct manager of meta exactly once, sorted
// ascending. Empty managers, DefaultExclude values and exclude entries,
// compared case-insensitively, are skipped.
func Extract(meta map[string]dataset.StoreMeta, exclude []string) []string {
	fold := cases.Fold()

	excluded := make(map[string]struct{}, len(DefaultExclude)+len(exclude))
	for _, e := range slices.Concat(DefaultExclude, exclude) {
		excluded[fold.String(e)] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, m := range meta {
		if m.Manager == "" {
			continue
		}
		if _, skip := excluded[fold.String(m.Manager)]; skip {
			continue
		}
		seen[m.Manager] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Format renders the list file content.
func Format(names []string) string {
	var b strings.Builder
	b.WriteString("Found Managers:\n")
	for _, name := range names {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

// Write renders names and writes them to path, creating parent directories.
func Write(path string, names []string) error {
	return utils.WriteFile(path, []byte(Format(names)))
}
