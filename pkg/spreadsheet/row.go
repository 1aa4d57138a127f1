package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one data row of a sheet. Line is the 1-based sheet row number.
type Row struct {
	Line   int
	values map[string]any
}

// NewRow builds a Row from already typed values.
func NewRow(line int, values map[string]any) Row {
	return Row{Line: line, values: values}
}

// Values returns the underlying header to value mapping.
func (r Row) Values() map[string]any {
	return r.values
}

// Get looks key up exactly, then case-insensitively.
func (r Row) Get(key string) (any, bool) {
	if v, ok := r.values[key]; ok {
		return v, true
	}
	for k, v := range r.values {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// String renders the cell as trimmed text. Numbers use the shortest exact form.
func (r Row) String(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// Decimal reads a numeric cell. ok is false when the cell is absent or blank.
func (r Row) Decimal(key string) (d decimal.Decimal, ok bool, err error) {
	v, present := r.Get(key)
	if !present {
		return decimal.Zero, false, nil
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true, nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, true, fmt.Errorf("%s: %q is not a number", key, val)
		}
		return d, true, nil
	default:
		return decimal.Zero, true, fmt.Errorf("%s: unsupported value %v", key, val)
	}
}
