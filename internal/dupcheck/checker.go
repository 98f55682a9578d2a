// =============================================================================
// Dashboard Tools - Duplicate Record Checker
// =============================================================================
//
// This module scans the employee history for the records of one employee on
// one day and reports exact duplicates among them.
//
// MATCHING:
//   Name  - the record name contains the target substring, or, when ids are
//           resolved, contains any id whose display name contains the target.
//   Date  - the record date contains any of the configured substrings.
//
// DUPLICATES:
//   Matching records are tallied by their full serialized tuple. A tuple is
//   reported when it occurs more than once. Records that differ in any of
//   the six fields (including number formatting) are distinct.
//
// ORDERING:
//   Stores are visited in ascending code order, records in file order.
//   Duplicates are listed in order of first occurrence.
//
// =============================================================================

package dupcheck

import (
	"errors"
	"sort"
	"strings"

	"github.com/orangedata/dashtools/internal/dataset"
)

// ErrNoTarget is returned when the checker is built without a target name.
var ErrNoTarget = errors.New("target name is empty")

// =============================================================================
// OPTIONS AND RESULTS
// =============================================================================

// Options configures a check.
type Options struct {
	// TargetName is the substring searched for in record names.
	TargetName string

	// DatePatterns are substrings a record date must contain (any of them).
	// An empty list accepts every date.
	DatePatterns []string

	// ResolveIDs looks the target up in the employee name index first and
	// accepts records whose name contains any of the resolved ids.
	ResolveIDs bool
}

// Match is one record selected by the check.
type Match struct {
	Store  string
	Record dataset.Record
}

// Duplicate is a tuple that occurred more than once among the matches.
type Duplicate struct {
	Record dataset.Record
	Count  int
}

// ResolvedID is an employee id whose display name contains the target.
type ResolvedID struct {
	ID   string
	Name string
}

// Result is the outcome of a check.
type Result struct {
	Options     Options
	ResolvedIDs []ResolvedID
	Matches     []Match
	Duplicates  []Duplicate
}

// HasDuplicates reports whether any tuple occurred more than once.
func (r *Result) HasDuplicates() bool {
	return len(r.Duplicates) > 0
}

// =============================================================================
// CHECK
// =============================================================================

// Check runs the duplicate check over an employee dataset.
//
// PARAMETERS:
//   - data: The decoded employees document.
//   - opts: The target and date selection.
//
// RETURNS:
//   - The matches and the duplicates among them.
//   - ErrNoTarget if opts.TargetName is empty.
func Check(data *dataset.EmployeeData, opts Options) (*Result, error) {
	if opts.TargetName == "" {
		return nil, ErrNoTarget
	}

	result := &Result{Options: opts}

	if opts.ResolveIDs {
		result.ResolvedIDs = ResolveIDs(data.EmployeeNames, opts.TargetName)
	}

	ids := make([]string, 0, len(result.ResolvedIDs))
	for _, r := range result.ResolvedIDs {
		ids = append(ids, r.ID)
	}

	for _, store := range data.StoreCodes() {
		for _, rec := range data.History[store] {
			if !matchesName(rec.Name, opts.TargetName, ids) {
				continue
			}
			if !matchesDate(rec.Date, opts.DatePatterns) {
				continue
			}
			result.Matches = append(result.Matches, Match{Store: store, Record: rec})
		}
	}

	result.Duplicates = CountDuplicates(result.Matches)
	return result, nil
}

// ResolveIDs returns the ids whose display name contains target, sorted by id.
func ResolveIDs(names map[string]string, target string) []ResolvedID {
	var resolved []ResolvedID
	for id, name := range names {
		if strings.Contains(name, target) {
			resolved = append(resolved, ResolvedID{ID: id, Name: name})
		}
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].ID < resolved[j].ID
	})
	return resolved
}

// CountDuplicates tallies matches by full tuple and returns every tuple seen
// more than once, in order of first occurrence.
func CountDuplicates(matches []Match) []Duplicate {
	counts := make(map[string]int, len(matches))
	var order []dataset.Record

	for _, m := range matches {
		key := m.Record.Key()
		if counts[key] == 0 {
			order = append(order, m.Record)
		}
		counts[key]++
	}

	var dups []Duplicate
	for _, rec := range order {
		if n := counts[rec.Key()]; n > 1 {
			dups = append(dups, Duplicate{Record: rec, Count: n})
		}
	}
	return dups
}

func matchesName(name, target string, ids []string) bool {
	for _, id := range ids {
		if strings.Contains(name, id) {
			return true
		}
	}
	return strings.Contains(name, target)
}

func matchesDate(date string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if strings.Contains(date, p) {
			return true
		}
	}
	return false
}
