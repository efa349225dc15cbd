package homeharvest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/domain"
)

// typeDatetime is the Table Schema type pandas uses for datetime64 columns.
const typeDatetime = "datetime"

// table is a DataFrame serialized with to_json(orient="table").
type table struct {
	Schema tableSchema                  `json:"schema"`
	Data   []map[string]json.RawMessage `json:"data"`
}

type tableSchema struct {
	Fields     []tableField `json:"fields"`
	PrimaryKey []string     `json:"primaryKey"`
}

type tableField struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// TZ is set for timezone-aware datetime columns.
	TZ string `json:"tz,omitempty"`
}

// naiveLayouts carry no offset and decode to domain.LocalTime.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// DecodeTable reads a table-oriented DataFrame into raw rows. Null cells
// become domain.NA (domain.NaT in datetime columns) and numbers stay as
// json.Number. Datetimes with an offset (or in a tz column) become
// time.Time, naive ones domain.LocalTime. The index column named by
// primaryKey is dropped.
func DecodeTable(r io.Reader) (domain.RawTable, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var t table
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}

	fields := make(map[string]tableField, len(t.Schema.Fields))
	for _, f := range t.Schema.Fields {
		if !slices.Contains(t.Schema.PrimaryKey, f.Name) {
			fields[f.Name] = f
		}
	}

	rows := make(domain.RawTable, 0, len(t.Data))
	for i, record := range t.Data {
		row := make(domain.RawRow, len(fields))
		for name, f := range fields {
			raw, ok := record[name]
			if !ok {
				row[name] = missingFor(f.Type)
				continue
			}
			v, err := decodeCell(raw, f)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, name, err)
			}
			row[name] = v
		}
		// Columns the schema does not list are still carried.
		for name, raw := range record {
			if _, known := fields[name]; known || slices.Contains(t.Schema.PrimaryKey, name) {
				continue
			}
			v, err := decodeCell(raw, tableField{})
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, name, err)
			}
			row[name] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeCell(raw json.RawMessage, f tableField) (any, error) {
	if len(raw) == 0 {
		return missingFor(f.Type), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if v == nil {
		return missingFor(f.Type), nil
	}

	if f.Type == typeDatetime {
		return parseDatetime(v, f.TZ != ""), nil
	}
	return v, nil
}

// parseDatetime converts an ISO string or epoch milliseconds. Epoch values
// are UTC instants in a tz column and wall-clock times otherwise. Values that
// match neither are kept as-is.
func parseDatetime(v any, zoned bool) any {
	switch x := v.(type) {
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return ts
		}
		for _, layout := range naiveLayouts {
			if ts, err := time.Parse(layout, x); err == nil {
				return domain.LocalTime{Time: ts}
			}
		}
	case json.Number:
		if ms, err := x.Int64(); err == nil {
			ts := time.UnixMilli(ms).UTC()
			if zoned {
				return ts
			}
			return domain.LocalTime{Time: ts}
		}
	}
	return v
}

func missingFor(typ string) domain.Missing {
	if typ == typeDatetime {
		return domain.NaT
	}
	return domain.NA
}
