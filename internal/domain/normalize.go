package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
)

// NormalizeRow converts every column of a scraped row into a JSON-safe value.
// Columns are kept even when their value normalizes to nil. The input row and
// any composite values it holds are left untouched.
func NormalizeRow(raw RawRow) NormalizedRow {
	out := make(NormalizedRow, len(raw))
	for k, v := range raw {
		out[k] = NormalizeValue(v)
	}
	return out
}

// NormalizeRows applies NormalizeRow to every row of a table, preserving order.
func NormalizeRows(table RawTable) []NormalizedRow {
	rows := make([]NormalizedRow, len(table))
	for i, raw := range table {
		rows[i] = NormalizeRow(raw)
	}
	return rows
}

// NormalizeValue reduces a provider-native value to nil, bool, int64,
// float64, string, []any or map[string]any. Rules are applied in order:
// missing markers, timestamps, integers, floats, booleans, then composites
// element by element. Values matching no rule are returned unchanged.
func NormalizeValue(v any) any {
	if v == nil || isScalarNA(v) {
		return nil
	}

	switch x := v.(type) {
	case LocalTime:
		return x.Format(localTimestampLayout)
	case time.Time:
		return formatTimestamp(x)
	case *time.Time:
		return formatTimestamp(*x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return normalizeUint(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return normalizeUint(x)
	case json.Number:
		return normalizeNumber(x)
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	case bool:
		return x
	case string:
		return x
	case []byte:
		return string(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = NormalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = NormalizeValue(e)
		}
		return out
	case driver.Valuer:
		inner, err := valuerValue(x)
		if err != nil || reflect.TypeOf(inner) == reflect.TypeOf(v) {
			return v
		}
		return NormalizeValue(inner)
	}

	return normalizeKind(v)
}

// isScalarNA reports whether v is a scalar missing-value marker. Composites
// are never NA, even when empty. A panic while inspecting v means "not NA".
func isScalarNA(v any) (na bool) {
	defer func() {
		if recover() != nil {
			na = false
		}
	}()

	// A nil pointer is missing even when its method set would panic.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}

	switch x := v.(type) {
	case nil:
		return true
	case LocalTime:
		return x.IsZero()
	case naReporter:
		return x.IsNA()
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case time.Time:
		return x.IsZero()
	case *time.Time:
		return x == nil || x.IsZero()
	case driver.Valuer:
		inner, err := x.Value()
		return err == nil && inner == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return false
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(rv.Float())
	default:
		return false
	}
}

// normalizeKind handles named types and composites the type switch in
// NormalizeValue does not list, by their underlying kind.
func normalizeKind(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return normalizeUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(rv.Float())
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		return normalizeSequence(rv)
	case reflect.Array:
		return normalizeSequence(rv)
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = NormalizeValue(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return NormalizeValue(rv.Elem().Interface())
	default:
		return v
	}
}

func normalizeSequence(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = NormalizeValue(rv.Index(i).Interface())
	}
	return out
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// normalizeNumber keeps integral JSON numbers as int64 and everything else
// as float64. Unparseable numbers degrade to their text.
func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return normalizeFloat(f)
	}
	return n.String()
}

// normalizeFloat folds NaN and the infinities to nil; none of them survive
// JSON encoding.
func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// valuerValue calls Value, turning a panic into an error so the value is
// passed through unchanged.
func valuerValue(v driver.Valuer) (inner driver.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("value: %v", r)
		}
	}()
	return v.Value()
}

// localTimestampLayout is ISO-8601 without an offset, fraction trimmed.
const localTimestampLayout = "2006-01-02T15:04:05.999999999"

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
