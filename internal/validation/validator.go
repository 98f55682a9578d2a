// =============================================================================
// Dashboard Tools - Dataset Validation Engine
// =============================================================================
//
// This module checks the dashboard datasets against their positional
// conventions. The tools themselves decode leniently; this is where a
// malformed entry becomes visible.
//
// CHECKS:
//   employees_data.json
//     - every history record has six fields
//     - date and name are non-empty strings
//     - sales, transactions, items, max ticket are JSON numbers
//     - dates not in YYYY-MM-DD form (warning)
//     - employee_names values are non-empty (warning)
//   management_data.json
//     - every series entry is [date, store id, value] with a numeric value
//     - series store ids unknown to the stores mapping (warning)
//     - store_meta entries without a manager (warning)
//
// ERROR HANDLING:
//   - Findings are collected, never returned early
//   - Each finding names the source, store, entry index and field
//   - Warnings never fail a run unless TreatWarningsAsErrors is set
//
// =============================================================================

package validation

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/orangedata/dashtools/internal/dataset"
	"github.com/orangedata/dashtools/pkg/utils"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Source names the dataset section, e.g. "history" or "sales".
	Source string

	// Store is the store code or id the entry belongs to, if any.
	Store string

	// Index is the zero-based position of the entry in its list, or -1.
	Index int

	// Field is the name of the field that failed validation.
	Field string

	// Value is the raw JSON of the offending field.
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var loc strings.Builder
	loc.WriteString(e.Source)
	if e.Store != "" {
		loc.WriteString(" store ")
		loc.WriteString(e.Store)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&loc, " #%d", e.Index)
	}
	if e.Field != "" {
		loc.WriteString(" field '")
		loc.WriteString(e.Field)
		loc.WriteString("'")
	}

	msg := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), loc.String(), e.Message)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: %s)", e.Value)
	}
	return msg
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, including warnings.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// EntriesValidated is the total number of records and series entries checked.
	EntriesValidated int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// TreatWarningsAsErrors makes any warning fail the result.
	TreatWarningsAsErrors bool

	// SkipDateFormat disables the YYYY-MM-DD warning for history dates.
	SkipDateFormat bool
}

// Validator checks datasets.
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a new Validator with the given options.
func NewValidator(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// Validate checks whichever datasets are non-nil and returns the combined result.
func (v *Validator) Validate(emp *dataset.EmployeeData, mgmt *dataset.ManagementData) *ValidationResult {
	result := &ValidationResult{}

	if emp != nil {
		v.validateEmployees(emp, result)
	}
	if mgmt != nil {
		v.validateManagement(mgmt, result)
	}

	result.IsValid = result.ErrorCount == 0
	if v.options.TreatWarningsAsErrors && result.WarningCount > 0 {
		result.IsValid = false
	}
	return result
}

func (v *Validator) validateEmployees(data *dataset.EmployeeData, result *ValidationResult) {
	for _, store := range data.StoreCodes() {
		for i, rec := range data.History[store] {
			result.EntriesValidated++
			v.validateRecord(store, i, rec, result)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(data.EmployeeNames)) {
		if strings.TrimSpace(data.EmployeeNames[id]) == "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Source:   "employee_names",
				Index:    -1,
				Field:    id,
				Message:  "employee has no display name",
			})
		}
	}
}

func (v *Validator) validateRecord(store string, index int, rec dataset.Record, result *ValidationResult) {
	finding := func(severity string, field int, msg string) {
		e := &ValidationError{
			Severity: severity,
			Source:   "history",
			Store:    store,
			Index:    index,
			Message:  msg,
		}
		if field >= 0 && field < dataset.RecordWidth {
			e.Field = dataset.FieldNames[field]
			e.Value = string(rec.Field(field))
		}
		result.add(e)
	}

	if rec.Width() != dataset.RecordWidth {
		finding(SeverityError, -1, fmt.Sprintf("record has %d fields, expected %d", rec.Width(), dataset.RecordWidth))
	}

	for _, field := range []int{dataset.FieldDate, dataset.FieldName} {
		raw := rec.Field(field)
		if raw == nil {
			continue
		}
		s, ok := dataset.StringField(raw)
		switch {
		case !ok:
			finding(SeverityError, field, "must be a string")
		case strings.TrimSpace(s) == "":
			finding(SeverityError, field, "must not be empty")
		}
	}

	if !v.options.SkipDateFormat && rec.Date != "" {
		if _, err := time.Parse(time.DateOnly, rec.Date); err != nil {
			finding(SeverityWarning, dataset.FieldDate, "date is not in YYYY-MM-DD form")
		}
	}

	for _, field := range []int{dataset.FieldSales, dataset.FieldTransactions, dataset.FieldItems, dataset.FieldMaxTicket} {
		raw := rec.Field(field)
		if raw == nil {
			continue
		}
		if !isJSONNumber(raw) {
			finding(SeverityError, field, "must be a number")
		}
	}
}

func (v *Validator) validateManagement(data *dataset.ManagementData, result *ValidationResult) {
	series := []struct {
		name   string
		values []dataset.DailyValue
	}{
		{"sales", data.Sales},
		{"transactions", data.Transactions},
		{"visitors", data.Visitors},
		{"targets", data.Targets},
	}

	for _, s := range series {
		for i, entry := range s.values {
			result.EntriesValidated++
			validateDailyValue(s.name, i, entry, data, result)
		}
	}

	for _, id := range data.MetaIDs() {
		if strings.TrimSpace(data.StoreMeta[id].Manager) == "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Source:   "store_meta",
				Store:    id,
				Index:    -1,
				Field:    "manager",
				Message:  "store has no manager",
			})
		}
	}
}

func validateDailyValue(source string, index int, entry dataset.DailyValue, data *dataset.ManagementData, result *ValidationResult) {
	base := ValidationError{Source: source, Store: entry.StoreID, Index: index}

	if entry.Width() != 3 {
		e := base
		e.Severity = SeverityError
		e.Message = fmt.Sprintf("entry has %d fields, expected 3", entry.Width())
		result.add(&e)
	}

	if raw := entry.Field(0); raw != nil {
		if s, ok := dataset.StringField(raw); !ok || s == "" {
			e := base
			e.Severity = SeverityError
			e.Field = "date"
			e.Value = string(raw)
			e.Message = "must be a non-empty string"
			result.add(&e)
		}
	}

	if entry.Width() > 1 && entry.StoreID == "" {
		e := base
		e.Severity = SeverityError
		e.Field = "store"
		e.Value = string(entry.Field(1))
		e.Message = "must be a string or number store id"
		result.add(&e)
	}

	if raw := entry.Field(2); raw != nil && !isJSONNumber(raw) {
		e := base
		e.Severity = SeverityError
		e.Field = "value"
		e.Value = string(raw)
		e.Message = "must be a number"
		result.add(&e)
	}

	if entry.StoreID != "" && len(data.Stores) > 0 {
		if _, ok := data.Stores[entry.StoreID]; !ok {
			e := base
			e.Severity = SeverityWarning
			e.Field = "store"
			e.Message = "store id is not listed in stores"
			result.add(&e)
		}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func isJSONNumber(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return false
	}
	c := s[0]
	if c != '-' && (c < '0' || c > '9') {
		return false
	}
	_, ok := dataset.NumberField(raw)
	return ok
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation findings for display or logging.
//
// PARAMETERS:
//   - errors: The validation findings to format.
//
// RETURNS:
//   - A formatted string containing all findings.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation findings to a log file.
//
// PARAMETERS:
//   - errors: The validation findings to write.
//   - filePath: The path to the output file.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	header := fmt.Sprintf("Dashboard Tools - Validation Log\nGenerated: %s\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"))

	return utils.WriteFile(filePath, []byte(header+FormatErrors(errors)))
}
