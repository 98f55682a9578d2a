package export

import (
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/orangedata/dashtools/internal/dataset"
)

// EmployeeSalesSheet is the worksheet name of the employee sales report.
const EmployeeSalesSheet = "Employee Sales"

var employeeSalesHeaders = []string{
	"التاريخ",
	"المعرض",
	"اسم الموظف",
	"المبيعات",
	"عدد الفواتير",
}

var employeeSalesWidths = []float64{12, 25, 25, 10, 10}

// EmployeeSalesRow is one history record within the report period.
type EmployeeSalesRow struct {
	Date         string
	StoreID      string
	StoreName    string
	EmployeeID   string
	EmployeeName string
	Sales        float64
	Transactions float64
}

// EmployeeSales lists the history records within the period.
//
// PARAMETERS:
//   - emp: The employees document.
//   - mgmt: The management document, used for store names and the filter.
//     When nil, the filter is not applied and store codes are shown as is.
//   - period: The inclusive date range.
//   - filter: The store filter.
//
// RETURNS:
//   - Rows sorted by date, store name, employee name.
//   - ErrInvalidPeriod for a malformed period, ErrNoData when nothing matched.
func EmployeeSales(emp *dataset.EmployeeData, mgmt *dataset.ManagementData, period Period, filter Filter) ([]EmployeeSalesRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	var rows []EmployeeSalesRow
	for _, store := range emp.StoreCodes() {
		if mgmt != nil && !filter.Pass(store, mgmt.Meta(store)) {
			continue
		}
		storeName := mgmt.StoreName(store)

		for _, rec := range emp.History[store] {
			if !period.Contains(rec.Date) {
				continue
			}
			rows = append(rows, EmployeeSalesRow{
				Date:         rec.Date,
				StoreID:      store,
				StoreName:    storeName,
				EmployeeID:   rec.Name,
				EmployeeName: ResolveEmployeeName(emp.EmployeeNames, rec.Name),
				Sales:        rec.Sales,
				Transactions: rec.Transactions,
			})
		}
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}

	coll := NewCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if c := coll.CompareString(a.StoreName, b.StoreName); c != 0 {
			return c < 0
		}
		return coll.CompareString(a.EmployeeName, b.EmployeeName) < 0
	})

	return rows, nil
}

// ResolveEmployeeName maps a record's employee field to a display name:
// the name index entry when present, else the segment after the first "-"
// ("1043 - Sara" -> "Sara"), else the field itself.
func ResolveEmployeeName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	if strings.Contains(id, "-") {
		if name := strings.TrimSpace(strings.Split(id, "-")[1]); name != "" {
			return name
		}
	}
	return id
}

// EmployeeSalesWorkbook renders employee sales rows as a workbook.
func EmployeeSalesWorkbook(rows []EmployeeSalesRow) (*excelize.File, error) {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{
			r.Date,
			r.StoreName,
			r.EmployeeName,
			r.Sales,
			r.Transactions,
		})
	}

	return NewWorkbook(Sheet{
		Name:    EmployeeSalesSheet,
		Headers: employeeSalesHeaders,
		Widths:  employeeSalesWidths,
		Rows:    values,
	})
}
