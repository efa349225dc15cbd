package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyFromRow_KnownColumns(t *testing.T) {
	row := NormalizedRow{
		"property_id":      "9171493045",
		"city":             "San Francisco",
		"beds":             int64(3),
		"full_baths":       2.0,
		"price_per_sqft":   int64(700),
		"latitude":         37.7749,
		"new_construction": false,
		"list_date":        "2024-04-26T00:00:00Z",
		"photos":           []any{map[string]any{"href": "https://ap.rdcpix.com/1.jpg"}},
		"distance_miles":   1.25,
	}

	p := PropertyFromRow(row)

	require.NotNil(t, p.PropertyID)
	assert.Equal(t, "9171493045", *p.PropertyID)
	assert.Equal(t, "San Francisco", *p.City)
	assert.Equal(t, int64(3), *p.Beds)
	assert.Equal(t, int64(2), *p.FullBaths)
	assert.Equal(t, 700.0, *p.PricePerSqft)
	assert.Equal(t, 37.7749, *p.Latitude)
	assert.False(t, *p.NewConstruction)
	assert.Equal(t, "2024-04-26T00:00:00Z", *p.ListDate)
	assert.Equal(t, row["photos"], p.Photos)
	assert.Equal(t, 1.25, *p.DistanceMiles)
	assert.Nil(t, p.Street)
}

func TestPropertyFromRow_Coercion(t *testing.T) {
	tests := []struct {
		name  string
		row   NormalizedRow
		check func(t *testing.T, p Property)
	}{
		{
			"numeric zip code becomes text",
			NormalizedRow{"zip_code": int64(94110)},
			func(t *testing.T, p Property) { assert.Equal(t, "94110", *p.ZipCode) },
		},
		{
			"fractional float into int field is dropped",
			NormalizedRow{"sqft": 1850.5},
			func(t *testing.T, p Property) { assert.Nil(t, p.Sqft) },
		},
		{
			"numeric text into int field",
			NormalizedRow{"list_price": " 1295000 "},
			func(t *testing.T, p Property) { assert.Equal(t, int64(1295000), *p.ListPrice) },
		},
		{
			"integral text float into int field",
			NormalizedRow{"hoa_fee": "450.0"},
			func(t *testing.T, p Property) { assert.Equal(t, int64(450), *p.HOAFee) },
		},
		{
			"non-numeric text into int field is dropped",
			NormalizedRow{"beds": "three"},
			func(t *testing.T, p Property) { assert.Nil(t, p.Beds) },
		},
		{
			"huge float into int field is dropped",
			NormalizedRow{"list_price": 1e19},
			func(t *testing.T, p Property) { assert.Nil(t, p.ListPrice) },
		},
		{
			"numeric text into float field",
			NormalizedRow{"longitude": "-122.4194"},
			func(t *testing.T, p Property) { assert.Equal(t, -122.4194, *p.Longitude) },
		},
		{
			"bool from integer flag",
			NormalizedRow{"new_construction": int64(1)},
			func(t *testing.T, p Property) { assert.True(t, *p.NewConstruction) },
		},
		{
			"bool from text",
			NormalizedRow{"new_construction": "false"},
			func(t *testing.T, p Property) { assert.False(t, *p.NewConstruction) },
		},
		{
			"object into text field is dropped",
			NormalizedRow{"street": map[string]any{"line": "1 Main"}},
			func(t *testing.T, p Property) { assert.Nil(t, p.Street) },
		},
		{
			"nil value stays nil",
			NormalizedRow{"beds": nil, "tags": nil},
			func(t *testing.T, p Property) {
				assert.Nil(t, p.Beds)
				assert.Nil(t, p.Tags)
			},
		},
		{
			"unknown column is ignored",
			NormalizedRow{"favorite_color": "blue"},
			func(t *testing.T, p Property) { assert.Equal(t, Property{}, p) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, PropertyFromRow(tt.row))
		})
	}
}

func TestProperty_JSONShape(t *testing.T) {
	b, err := json.Marshal(PropertyFromRow(NormalizedRow{"city": "Austin"}))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))

	assert.Equal(t, "Austin", out["city"])
	require.Contains(t, out, "list_price")
	assert.Nil(t, out["list_price"])
	assert.NotContains(t, out, "distance_miles")
}

func TestPropertiesFromRows_PreservesOrder(t *testing.T) {
	props := PropertiesFromRows([]NormalizedRow{
		{"property_id": "a"},
		{"property_id": "b"},
	})

	require.Len(t, props, 2)
	assert.Equal(t, "a", *props[0].PropertyID)
	assert.Equal(t, "b", *props[1].PropertyID)
}

func TestPropertyFields_CoverJSONTags(t *testing.T) {
	for _, name := range []string{"property_url", "mls_id", "hoa_fee", "tax_history", "office_phones", "estimates", "distance_miles"} {
		assert.Contains(t, propertyFields, name)
	}
	assert.Equal(t, kindInt, propertyFields["beds"].kind)
	assert.Equal(t, kindFloat, propertyFields["distance_miles"].kind)
	assert.Equal(t, kindAny, propertyFields["photos"].kind)
}
