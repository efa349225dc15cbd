// Package export renders search results for the command line: JSON for
// piping, an aligned text table for reading and XLSX workbooks for
// spreadsheets.
package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
)

// SummaryColumns is the default column set for the text table.
var SummaryColumns = []string{
	"property_id", "street", "city", "state", "zip_code",
	"beds", "full_baths", "sqft", "list_price", "status", "distance_miles",
}

// AllColumns lists every Property column in declaration order.
func AllColumns() []string {
	cols := make([]string, 0, len(columnIndex))
	t := reflect.TypeOf(domain.Property{})
	for i := range t.NumField() {
		cols = append(cols, jsonName(t.Field(i)))
	}
	return cols
}

// columnIndex maps column names to Property field indexes.
var columnIndex = func() map[string]int {
	t := reflect.TypeOf(domain.Property{})
	idx := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		idx[jsonName(t.Field(i))] = i
	}
	return idx
}()

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name
}

// ValidateColumns reports the first unknown column name.
func ValidateColumns(cols []string) error {
	for _, c := range cols {
		if _, ok := columnIndex[c]; !ok {
			return fmt.Errorf("unknown column %q", c)
		}
	}
	return nil
}

// cellValue returns the column's value as a spreadsheet-friendly scalar:
// nil for missing, the number, string or bool for scalar fields and compact
// JSON for nested provider structures.
func cellValue(p domain.Property, col string) any {
	i, ok := columnIndex[col]
	if !ok {
		return nil
	}
	v := reflect.ValueOf(p).Field(i)
	if v.IsNil() {
		return nil
	}
	if v.Kind() == reflect.Pointer {
		return v.Elem().Interface()
	}
	b, err := json.Marshal(v.Interface())
	if err != nil {
		return nil
	}
	return string(b)
}

// cellText formats a cell for the text table.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
