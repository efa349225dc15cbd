package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() SearchParams {
	return SearchParams{Location: "San Francisco, CA", ListingType: ListingForSale}
}

func TestSearchParams_Validate_Minimal(t *testing.T) {
	assert.NoError(t, validParams().Validate())
}

func TestSearchParams_Validate_AllFieldsAtBounds(t *testing.T) {
	p := validParams()
	p.PastDays = ptr(1)
	p.PastHours = ptr(1)
	p.DateFrom = ptr("2024-01-01")
	p.DateTo = ptr("2024-12-31")
	p.BedsMin = ptr(0)
	p.BedsMax = ptr(0)
	p.BathsMin = ptr(0.0)
	p.BathsMax = ptr(2.5)
	p.SqftMin = ptr(0)
	p.SqftMax = ptr(0)
	p.PriceMin = ptr(0)
	p.PriceMax = ptr(0)
	p.YearBuiltMin = ptr(1800)
	p.YearBuiltMax = ptr(2030)
	p.LotSqftMin = ptr(0)
	p.LotSqftMax = ptr(0)
	p.PropertyType = ptr(PropertyCondo)
	p.Radius = ptr(0.0)
	p.SortBy = ptr(SortListPrice)
	p.Limit = ptr(MaxLimit)
	p.Offset = ptr(0)
	p.Parallel = ptr(false)

	assert.NoError(t, p.Validate())
}

func TestSearchParams_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SearchParams)
		field  string
	}{
		{"empty location", func(p *SearchParams) { p.Location = "" }, "location"},
		{"unknown listing type", func(p *SearchParams) { p.ListingType = "for_lease" }, "listing_type"},
		{"missing listing type", func(p *SearchParams) { p.ListingType = "" }, "listing_type"},
		{"past_days zero", func(p *SearchParams) { p.PastDays = ptr(0) }, "past_days"},
		{"past_hours zero", func(p *SearchParams) { p.PastHours = ptr(0) }, "past_hours"},
		{"date_from not a date", func(p *SearchParams) { p.DateFrom = ptr("yesterday") }, "date_from"},
		{"date_to wrong layout", func(p *SearchParams) { p.DateTo = ptr("12/31/2024") }, "date_to"},
		{"negative beds", func(p *SearchParams) { p.BedsMin = ptr(-1) }, "beds_min"},
		{"negative baths", func(p *SearchParams) { p.BathsMax = ptr(-0.5) }, "baths_max"},
		{"NaN baths", func(p *SearchParams) { p.BathsMin = ptr(math.NaN()) }, "baths_min"},
		{"negative sqft", func(p *SearchParams) { p.SqftMax = ptr(-1) }, "sqft_max"},
		{"negative price", func(p *SearchParams) { p.PriceMin = ptr(-100) }, "price_min"},
		{"year built too old", func(p *SearchParams) { p.YearBuiltMin = ptr(1799) }, "year_built_min"},
		{"year built too new", func(p *SearchParams) { p.YearBuiltMax = ptr(2031) }, "year_built_max"},
		{"negative lot sqft", func(p *SearchParams) { p.LotSqftMin = ptr(-1) }, "lot_sqft_min"},
		{"unknown property type", func(p *SearchParams) { p.PropertyType = ptr(PropertyType("castle")) }, "property_type"},
		{"negative radius", func(p *SearchParams) { p.Radius = ptr(-1.0) }, "radius"},
		{"NaN radius", func(p *SearchParams) { p.Radius = ptr(math.NaN()) }, "radius"},
		{"unknown sort", func(p *SearchParams) { p.SortBy = ptr(SortBy("random")) }, "sort_by"},
		{"limit zero", func(p *SearchParams) { p.Limit = ptr(0) }, "limit"},
		{"limit too large", func(p *SearchParams) { p.Limit = ptr(MaxLimit + 1) }, "limit"},
		{"negative offset", func(p *SearchParams) { p.Offset = ptr(-1) }, "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestSearchParams_Validate_ReportsEveryField(t *testing.T) {
	p := SearchParams{Limit: ptr(0), Radius: ptr(-2.0)}

	err := p.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}
	assert.Equal(t, []string{"location", "listing_type", "radius", "limit"}, fields)
	assert.Contains(t, err.Error(), "invalid search request: location is required")
}

func TestSearchParams_ScrapeRequest_OnlySetFields(t *testing.T) {
	req := validParams().ScrapeRequest()

	assert.Equal(t, map[string]any{
		"location":     "San Francisco, CA",
		"listing_type": "for_sale",
	}, req.Args)
}

func TestSearchParams_ScrapeRequest_ForwardsFilters(t *testing.T) {
	p := validParams()
	p.PastDays = ptr(30)
	p.DateFrom = ptr("2024-01-01")
	p.BedsMin = ptr(2)
	p.BathsMin = ptr(1.5)
	p.PropertyType = ptr(PropertySingleFamily)
	p.Radius = ptr(5.0)
	p.SortBy = ptr(SortListDate)
	p.Limit = ptr(50)
	p.Parallel = ptr(true)

	req := p.ScrapeRequest()

	assert.Equal(t, map[string]any{
		"location":      "San Francisco, CA",
		"listing_type":  "for_sale",
		"past_days":     30,
		"date_from":     "2024-01-01",
		"beds_min":      2,
		"baths_min":     1.5,
		"property_type": []string{"single_family"},
		"radius":        5.0,
		"sort_by":       "list_date",
		"limit":         50,
		"parallel":      true,
	}, req.Args)
}

func TestScrapeRequest_CacheKey(t *testing.T) {
	a := validParams()
	a.Radius = ptr(2.0)
	a.Limit = ptr(10)

	b := validParams()
	b.Limit = ptr(10)
	b.Radius = ptr(2.0)

	c := validParams()
	c.Limit = ptr(11)

	assert.Equal(t, a.ScrapeRequest().CacheKey(), b.ScrapeRequest().CacheKey())
	assert.NotEqual(t, a.ScrapeRequest().CacheKey(), c.ScrapeRequest().CacheKey())
	assert.Equal(t,
		`{"limit":10,"listing_type":"for_sale","location":"San Francisco, CA","radius":2}`,
		a.ScrapeRequest().CacheKey())
}

func TestSearchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&SearchError{Cause: cause})

	assert.Equal(t, "failed to scrape properties: connection refused", err.Error())
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.ErrorIs(t, err, cause)
}
