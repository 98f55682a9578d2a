package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadEmployees reads and decodes an employees_data.json document.
//
// PARAMETERS:
//   - path: The path to the JSON document.
//
// RETURNS:
//   - The decoded document. Missing top-level keys decode to empty maps.
//   - An error if the file cannot be read or is not valid JSON.
func LoadEmployees(path string) (*EmployeeData, error) {
	var data EmployeeData
	if err := decodeFile(path, &data); err != nil {
		return nil, err
	}
	if data.History == nil {
		data.History = map[string][]Record{}
	}
	if data.EmployeeNames == nil {
		data.EmployeeNames = map[string]string{}
	}
	return &data, nil
}

// LoadManagement reads and decodes a management_data.json document.
func LoadManagement(path string) (*ManagementData, error) {
	var data ManagementData
	if err := decodeFile(path, &data); err != nil {
		return nil, err
	}
	if data.Stores == nil {
		data.Stores = map[string]string{}
	}
	if data.StoreMeta == nil {
		data.StoreMeta = map[string]StoreMeta{}
	}
	return &data, nil
}

// DecodeEmployees decodes an employees document from a reader.
func DecodeEmployees(r io.Reader) (*EmployeeData, error) {
	var data EmployeeData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse employee data: %w", err)
	}
	if data.History == nil {
		data.History = map[string][]Record{}
	}
	if data.EmployeeNames == nil {
		data.EmployeeNames = map[string]string{}
	}
	return &data, nil
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
