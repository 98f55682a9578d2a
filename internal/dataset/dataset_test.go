package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUnmarshal(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`["2024-01-16", "بشاير-01", 100, 2, 3, 50.5]`), &r))

	assert.Equal(t, "2024-01-16", r.Date)
	assert.Equal(t, "بشاير-01", r.Name)
	assert.Equal(t, 100.0, r.Sales)
	assert.Equal(t, 2.0, r.Transactions)
	assert.Equal(t, 3.0, r.Items)
	assert.Equal(t, 50.5, r.MaxTicket)
	assert.Equal(t, RecordWidth, r.Width())
	assert.Equal(t, `["2024-01-16","بشاير-01",100,2,3,50.5]`, r.Key())
}

func TestRecordUnmarshalLenient(t *testing.T) {
	t.Run("short record", func(t *testing.T) {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(`["2024-01-16"]`), &r))
		assert.Equal(t, "2024-01-16", r.Date)
		assert.Empty(t, r.Name)
		assert.Equal(t, 1, r.Width())
		assert.Nil(t, r.Field(FieldName))
	})

	t.Run("numeric strings", func(t *testing.T) {
		var r Record
		require.NoError(t, json.Unmarshal([]byte(`["2024-01-16","x"," 12.5 ","3",null,true]`), &r))
		assert.Equal(t, 12.5, r.Sales)
		assert.Equal(t, 3.0, r.Transactions)
		assert.Zero(t, r.Items)
		assert.Zero(t, r.MaxTicket)
	})

	t.Run("not an array", func(t *testing.T) {
		var r Record
		err := json.Unmarshal([]byte(`{"date":"2024-01-16"}`), &r)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotArray)
	})
}

func TestRecordKeyIgnoresWhitespaceOnly(t *testing.T) {
	var a, b, c Record
	require.NoError(t, json.Unmarshal([]byte(`["d","n",100,2,3,50]`), &a))
	require.NoError(t, json.Unmarshal([]byte("[ \"d\" , \"n\", 100, 2, 3, 50 ]"), &b))
	require.NoError(t, json.Unmarshal([]byte(`["d","n",100.0,2,3,50]`), &c))

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestRecordKeyCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"trailing zero in float", `["d","n",100,2,3,50.5]`, `["d","n",100,2,3,50.50]`, true},
		{"escaped and literal text", `["d","\u0628",1,1,1,1]`, `["d","ب",1,1,1,1]`, true},
		{"exponent float", `["d","n",1E2,1,1,1]`, `["d","n",100.0,1,1,1]`, true},
		{"int and float", `["d","n",100,1,1,1]`, `["d","n",100.0,1,1,1]`, false},
		{"number and numeric string", `["d","n",100,1,1,1]`, `["d","n","100",1,1,1]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a, b Record
			require.NoError(t, json.Unmarshal([]byte(tt.a), &a))
			require.NoError(t, json.Unmarshal([]byte(tt.b), &b))
			if tt.same {
				assert.Equal(t, a.Key(), b.Key())
			} else {
				assert.NotEqual(t, a.Key(), b.Key())
			}
		})
	}
}

func TestRecordKeyText(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`[ "2024-01-16", "a<b", 100.0, 2, 3, 50.50, null, true ]`), &r))
	assert.Equal(t, `["2024-01-16","a<b",100.0,2,3,50.5,null,true]`, r.Key())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["2024-01-16","a<b",100,2,3,50.5,null,true]`, string(out))
}

func TestDailyValueStoreIDForms(t *testing.T) {
	var values []DailyValue
	require.NoError(t, json.Unmarshal([]byte(`[["2024-01-01","12",5],["2024-01-02",7,1.5]]`), &values))
	require.Len(t, values, 2)

	assert.Equal(t, "12", values[0].StoreID)
	assert.Equal(t, 5.0, values[0].Value)
	assert.Equal(t, "7", values[1].StoreID)
	assert.Equal(t, 1.5, values[1].Value)
}

func TestLoadEmployees(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "employees_data.json")
	doc := `{
		"history": {"S2": [["2024-01-16","b",1,1,1,1]], "S1": [["2024-01-15","a",2,2,2,2]]},
		"employee_names": {"E1": "Alice"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	data, err := LoadEmployees(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, data.StoreCodes())
	assert.Equal(t, "Alice", data.EmployeeNames["E1"])
	assert.Equal(t, "a", data.History["S1"][0].Name)
}

func TestLoadEmployeesMissingKeys(t *testing.T) {
	data, err := DecodeEmployees(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, data.History)
	assert.NotNil(t, data.EmployeeNames)
	assert.Empty(t, data.StoreCodes())
}

func TestLoadEmployeesErrors(t *testing.T) {
	_, err := LoadEmployees(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"history": {"S1": [{"x":1}]}}`), 0o644))
	_, err = LoadEmployees(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestLoadManagement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "management_data.json")
	doc := `{
		"stores": {"1": "Riyadh Mall", "2": ""},
		"store_meta": {"1": {"manager": "Omar", "city": "Riyadh", "type": "Showroom"}, "2": {"manager": null}},
		"sales": [["2024-01-01", 1, 100]]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	data, err := LoadManagement(path)
	require.NoError(t, err)
	assert.Equal(t, "Riyadh Mall", data.StoreName("1"))
	assert.Equal(t, "2", data.StoreName("2"))
	assert.Equal(t, "3", data.StoreName("3"))
	assert.Equal(t, "Omar", data.Meta("1").Manager)
	assert.Empty(t, data.Meta("2").Manager)
	assert.Equal(t, []string{"1", "2"}, data.MetaIDs())
	require.Len(t, data.Sales, 1)
	assert.Equal(t, "1", data.Sales[0].StoreID)
}

func TestNilManagementLookups(t *testing.T) {
	var data *ManagementData
	assert.Equal(t, "S1", data.StoreName("S1"))
	assert.Equal(t, StoreMeta{}, data.Meta("S1"))
}
