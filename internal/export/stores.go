package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/orangedata/dashtools/internal/dataset"
)

// StoreSalesSheet is the worksheet name of the store sales report.
const StoreSalesSheet = "Store Sales"

var storeSalesHeaders = []string{
	"التاريخ",
	"المعرض",
	"المدينة",
	"مدير المنطقة",
	"المبيعات",
	"عدد الفواتير",
	"الزوار",
	"متوسط الفاتورة",
	"نسبة التحويل",
}

var storeSalesWidths = []float64{12, 25, 10, 15, 10, 10, 10, 10, 10}

// StoreSalesRow aggregates one store on one day.
type StoreSalesRow struct {
	Date      string
	StoreID   string
	StoreName string
	City      string
	Manager   string

	Sales        float64
	Transactions float64
	Visitors     float64
}

// AvgTicket is sales per transaction rounded to a whole amount, 0 without
// transactions.
func (r StoreSalesRow) AvgTicket() float64 {
	if r.Transactions <= 0 {
		return 0
	}
	return math.Round(r.Sales / r.Transactions)
}

// Conversion is transactions per visitor as a percentage with one decimal.
func (r StoreSalesRow) Conversion() string {
	if r.Visitors <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", r.Transactions/r.Visitors*100)
}

// StoreSales aggregates the sales, transactions and visitors series per
// (date, store) within the period for stores passing the filter.
//
// RETURNS:
//   - Rows sorted by date, then store display name.
//   - ErrInvalidPeriod for a malformed period, ErrNoData when nothing matched.
func StoreSales(data *dataset.ManagementData, period Period, filter Filter) ([]StoreSalesRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	type key struct{ date, store string }
	rows := make(map[key]*StoreSalesRow)

	entry := func(date, store string) *StoreSalesRow {
		k := key{date, store}
		if r, ok := rows[k]; ok {
			return r
		}
		meta := data.Meta(store)
		r := &StoreSalesRow{
			Date:      date,
			StoreID:   store,
			StoreName: data.StoreName(store),
			City:      orDash(meta.City),
			Manager:   orDash(meta.Manager),
		}
		rows[k] = r
		return r
	}

	accumulate := func(series []dataset.DailyValue, add func(*StoreSalesRow, float64)) {
		for _, v := range series {
			if !period.Contains(v.Date) || !filter.Pass(v.StoreID, data.Meta(v.StoreID)) {
				continue
			}
			add(entry(v.Date, v.StoreID), v.Value)
		}
	}

	accumulate(data.Sales, func(r *StoreSalesRow, v float64) { r.Sales += v })
	accumulate(data.Transactions, func(r *StoreSalesRow, v float64) { r.Transactions += v })
	accumulate(data.Visitors, func(r *StoreSalesRow, v float64) { r.Visitors += v })

	if len(rows) == 0 {
		return nil, ErrNoData
	}

	out := make([]StoreSalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}

	coll := NewCollator()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if c := coll.CompareString(a.StoreName, b.StoreName); c != 0 {
			return c < 0
		}
		return a.StoreID < b.StoreID
	})

	return out, nil
}

// StoreSalesWorkbook renders store sales rows as a workbook.
func StoreSalesWorkbook(rows []StoreSalesRow) (*excelize.File, error) {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{
			r.Date,
			r.StoreName,
			r.City,
			r.Manager,
			r.Sales,
			r.Transactions,
			r.Visitors,
			r.AvgTicket(),
			r.Conversion(),
		})
	}

	return NewWorkbook(Sheet{
		Name:    StoreSalesSheet,
		Headers: storeSalesHeaders,
		Widths:  storeSalesWidths,
		Rows:    values,
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
