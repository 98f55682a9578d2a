package export

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/orangedata/dashtools/internal/dataset"
)

// AllValues is the filter value that disables a filter, as in the dashboard
// drop-downs.
const AllValues = "all"

// ErrInvalidPeriod is returned for malformed or inverted date ranges.
var ErrInvalidPeriod = errors.New("invalid period")

// ErrNoData is returned when a report selects no rows.
var ErrNoData = errors.New("no data for the selected period")

// Filter narrows a report to stores matching every non-empty field.
type Filter struct {
	Manager string
	City    string
	Type    string
	Branch  string
}

// Pass reports whether a store passes the filter.
func (f Filter) Pass(storeID string, meta dataset.StoreMeta) bool {
	if active(f.Branch) && storeID != f.Branch {
		return false
	}
	if active(f.Manager) && meta.Manager != f.Manager {
		return false
	}
	if active(f.City) && meta.City != f.City {
		return false
	}
	if active(f.Type) && meta.Type != f.Type {
		return false
	}
	return true
}

// IsZero reports whether no field of the filter is active.
func (f Filter) IsZero() bool {
	return !active(f.Branch) && !active(f.Manager) && !active(f.City) && !active(f.Type)
}

func active(v string) bool {
	return v != "" && v != AllValues
}

// Period is an inclusive range of ISO dates (YYYY-MM-DD).
type Period struct {
	Start string
	End   string
}

// Validate checks both bounds are ISO dates and Start is not after End.
func (p Period) Validate() error {
	start, err := time.Parse(time.DateOnly, p.Start)
	if err != nil {
		return fmt.Errorf("%w: start date %q", ErrInvalidPeriod, p.Start)
	}
	end, err := time.Parse(time.DateOnly, p.End)
	if err != nil {
		return fmt.Errorf("%w: end date %q", ErrInvalidPeriod, p.End)
	}
	if start.After(end) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidPeriod, p.Start, p.End)
	}
	return nil
}

// Contains compares as strings, which orders ISO dates correctly.
func (p Period) Contains(date string) bool {
	return date >= p.Start && date <= p.End
}

// NewCollator returns the collator used to order store and employee names.
func NewCollator() *collate.Collator {
	return collate.New(language.Arabic)
}
