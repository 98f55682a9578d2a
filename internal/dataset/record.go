package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Positions of the fields inside a history record.
const (
	FieldDate = iota
	FieldName
	FieldSales
	FieldTransactions
	FieldItems
	FieldMaxTicket

	// RecordWidth is the number of fields a well-formed record carries.
	RecordWidth
)

// FieldNames labels the record positions for reports.
var FieldNames = [RecordWidth]string{"date", "name", "sales", "transactions", "items", "max_ticket"}

// ErrNotArray is returned when a positional entry is not a JSON array.
var ErrNotArray = errors.New("entry is not a JSON array")

// =============================================================================
// HISTORY RECORD
// =============================================================================

// Record is one history entry: [date, name, sales, transactions, items, max ticket].
//
// Decoding is lenient. Missing or mistyped positions decode to zero values;
// the raw fields are kept so the validation package can report them.
type Record struct {
	Date         string
	Name         string
	Sales        float64
	Transactions float64
	Items        float64
	MaxTicket    float64

	fields []json.RawMessage
	key    string
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields, key, err := decodePositional(data)
	if err != nil {
		return err
	}

	*r = Record{fields: fields, key: key}
	r.Date, _ = stringAt(fields, FieldDate)
	r.Name, _ = stringAt(fields, FieldName)
	r.Sales, _ = numberAt(fields, FieldSales)
	r.Transactions, _ = numberAt(fields, FieldTransactions)
	r.Items, _ = numberAt(fields, FieldItems)
	r.MaxTicket, _ = numberAt(fields, FieldMaxTicket)
	return nil
}

// MarshalJSON writes the record back as its canonical array (see Key).
func (r Record) MarshalJSON() ([]byte, error) {
	if r.key == "" {
		return []byte("[]"), nil
	}
	return []byte(r.key), nil
}

// Key is the canonical serialization of the decoded tuple. Equal values
// written differently ("50.5" and "50.50", "\u0628" and "ب") share a key;
// integers and floats stay apart ("100" and "100.0").
func (r Record) Key() string {
	return r.key
}

// Width is the number of positional fields the record was decoded from.
func (r Record) Width() int {
	return len(r.fields)
}

// Field returns the raw JSON at position i, or nil when absent.
func (r Record) Field(i int) json.RawMessage {
	if i < 0 || i >= len(r.fields) {
		return nil
	}
	return r.fields[i]
}

// =============================================================================
// DAILY SERIES ENTRY
// =============================================================================

// DailyValue is one [date, store id, value] entry of a management series.
type DailyValue struct {
	Date    string
	StoreID string
	Value   float64

	fields []json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
// Store ids are accepted as JSON strings or numbers.
func (v *DailyValue) UnmarshalJSON(data []byte) error {
	fields, _, err := decodePositional(data)
	if err != nil {
		return err
	}

	*v = DailyValue{fields: fields}
	v.Date, _ = stringAt(fields, 0)
	v.StoreID, _ = idAt(fields, 1)
	v.Value, _ = numberAt(fields, 2)
	return nil
}

// Width is the number of positional fields the entry was decoded from.
func (v DailyValue) Width() int {
	return len(v.fields)
}

// Field returns the raw JSON at position i, or nil when absent.
func (v DailyValue) Field(i int) json.RawMessage {
	if i < 0 || i >= len(v.fields) {
		return nil
	}
	return v.fields[i]
}

// =============================================================================
// FIELD DECODING
// =============================================================================

func decodePositional(data []byte) ([]json.RawMessage, string, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrNotArray, truncate(string(data), 40))
	}
	if fields == nil {
		return nil, "", fmt.Errorf("%w: null", ErrNotArray)
	}

	key, err := canonicalTuple(fields)
	if err != nil {
		return nil, "", err
	}
	return fields, key, nil
}

// =============================================================================
// CANONICAL KEY
// =============================================================================

// canonicalTuple renders decoded fields as a JSON array in one normal form.
func canonicalTuple(fields []json.RawMessage) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, raw := range fields {
		if i > 0 {
			b.WriteByte(',')
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return "", fmt.Errorf("failed to decode field %d: %w", i, err)
		}
		if err := writeCanonical(&b, v); err != nil {
			return "", err
		}
	}
	b.WriteByte(']')
	return b.String(), nil
}

func writeCanonical(b *strings.Builder, v any) error {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case json.Number:
		b.WriteString(canonicalNumber(v))
	case string:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode string: %w", err)
		}
		b.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	case []any:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeCanonical(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case map[string]any:
		b.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(v)) {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeCanonical(b, k); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeCanonical(b, v[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("unexpected JSON value %T", v)
	}
	return nil
}

// canonicalNumber keeps integers as integers and prints floats in their
// shortest form with a fractional part, so 100 and 100.0 stay distinct
// while 50.5 and 50.50 coincide.
func canonicalNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return s
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	out := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(out, ".eIN") {
		out += ".0"
	}
	return out
}

// StringField decodes raw as a JSON string.
func StringField(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// NumberField decodes raw as a JSON number, or a string holding one.
func NumberField(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	if s, ok := StringField(raw); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func stringAt(fields []json.RawMessage, i int) (string, bool) {
	if i >= len(fields) {
		return "", false
	}
	return StringField(fields[i])
}

func numberAt(fields []json.RawMessage, i int) (float64, bool) {
	if i >= len(fields) {
		return 0, false
	}
	return NumberField(fields[i])
}

// idAt reads an identifier that may be serialized as a string or a number.
func idAt(fields []json.RawMessage, i int) (string, bool) {
	if i >= len(fields) {
		return "", false
	}
	if s, ok := StringField(fields[i]); ok {
		return s, true
	}
	if isNull(fields[i]) {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(fields[i], &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
