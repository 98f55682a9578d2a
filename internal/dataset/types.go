// =============================================================================
// Dashboard Tools - Dataset Types
// =============================================================================
//
// This package models the two JSON documents the dashboard is built from:
//
//   employees_data.json
//     history         : store code -> ordered list of positional records
//     employee_names  : employee id -> display name
//
//   management_data.json
//     stores          : store id -> display name
//     store_meta      : store id -> {manager, city, type}
//     sales           : [date, store id, value] entries
//     transactions    : [date, store id, value] entries
//     visitors        : [date, store id, value] entries
//     targets         : [date, store id, value] entries
//
// Nothing here has a lifecycle beyond a single command run. Documents are
// read once, held in memory, and discarded on exit.
//
// =============================================================================

package dataset

import (
	"sort"
)

// =============================================================================
// EMPLOYEE DATA
// =============================================================================

// EmployeeData is the decoded content of employees_data.json.
type EmployeeData struct {
	// History maps a store code to its records, in file order.
	History map[string][]Record `json:"history"`

	// EmployeeNames maps an employee id to its display name.
	EmployeeNames map[string]string `json:"employee_names"`
}

// StoreCodes returns the history store codes in ascending order.
func (d *EmployeeData) StoreCodes() []string {
	return sortedKeys(d.History)
}

// =============================================================================
// MANAGEMENT DATA
// =============================================================================

// ManagementData is the decoded content of management_data.json.
type ManagementData struct {
	Stores       map[string]string    `json:"stores"`
	StoreMeta    map[string]StoreMeta `json:"store_meta"`
	Sales        []DailyValue         `json:"sales"`
	Transactions []DailyValue         `json:"transactions"`
	Visitors     []DailyValue         `json:"visitors"`
	Targets      []DailyValue         `json:"targets"`
}

// StoreMeta is the metadata attached to a store.
// All fields are optional; a JSON null decodes to the empty string.
type StoreMeta struct {
	Manager string `json:"manager"`
	City    string `json:"city"`
	Type    string `json:"type"`
}

// StoreName returns the display name of a store, falling back to its id.
func (d *ManagementData) StoreName(id string) string {
	if d != nil {
		if name, ok := d.Stores[id]; ok && name != "" {
			return name
		}
	}
	return id
}

// Meta returns the metadata of a store, or the zero value when absent.
func (d *ManagementData) Meta(id string) StoreMeta {
	if d == nil {
		return StoreMeta{}
	}
	return d.StoreMeta[id]
}

// StoreIDs returns the ids of the stores mapping in ascending order.
func (d *ManagementData) StoreIDs() []string {
	return sortedKeys(d.Stores)
}

// MetaIDs returns the ids of the store_meta mapping in ascending order.
func (d *ManagementData) MetaIDs() []string {
	return sortedKeys(d.StoreMeta)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
