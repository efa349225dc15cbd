package domain

import (
	"encoding/json"
	"time"
)

// ListingType selects which market segment the scraper searches.
type ListingType string

const (
	ListingForSale   ListingType = "for_sale"
	ListingForRent   ListingType = "for_rent"
	ListingSold      ListingType = "sold"
	ListingPending   ListingType = "pending"
	ListingOffMarket ListingType = "off_market"
)

// Valid reports whether t is a known listing type.
func (t ListingType) Valid() bool {
	switch t {
	case ListingForSale, ListingForRent, ListingSold, ListingPending, ListingOffMarket:
		return true
	default:
		return false
	}
}

// SortBy is the provider-side sort key.
type SortBy string

const (
	SortListDate       SortBy = "list_date"
	SortListPrice      SortBy = "list_price"
	SortSqft           SortBy = "sqft"
	SortBeds           SortBy = "beds"
	SortBaths          SortBy = "baths"
	SortLastUpdateDate SortBy = "last_update_date"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortListDate, SortListPrice, SortSqft, SortBeds, SortBaths, SortLastUpdateDate:
		return true
	default:
		return false
	}
}

// PropertyType narrows results to one kind of building.
type PropertyType string

const (
	PropertySingleFamily PropertyType = "single_family"
	PropertyMultiFamily  PropertyType = "multi_family"
	PropertyCondo        PropertyType = "condo"
	PropertyTownhouse    PropertyType = "townhouse"
	PropertyLand         PropertyType = "land"
	PropertyOther        PropertyType = "other"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertySingleFamily, PropertyMultiFamily, PropertyCondo, PropertyTownhouse, PropertyLand, PropertyOther:
		return true
	default:
		return false
	}
}

// Bounds accepted by Validate.
const (
	MaxLimit     = 10000
	MinYearBuilt = 1800
	MaxYearBuilt = 2030
)

const searchDateFormat = "2006-01-02"

// SearchParams is a property search request. Nil pointers mean "not set"
// and are not forwarded to the scraper.
type SearchParams struct {
	Location    string      `json:"location"`
	ListingType ListingType `json:"listing_type"`

	PastDays  *int    `json:"past_days,omitempty"`
	PastHours *int    `json:"past_hours,omitempty"`
	DateFrom  *string `json:"date_from,omitempty"`
	DateTo    *string `json:"date_to,omitempty"`

	BedsMin      *int     `json:"beds_min,omitempty"`
	BedsMax      *int     `json:"beds_max,omitempty"`
	BathsMin     *float64 `json:"baths_min,omitempty"`
	BathsMax     *float64 `json:"baths_max,omitempty"`
	SqftMin      *int     `json:"sqft_min,omitempty"`
	SqftMax      *int     `json:"sqft_max,omitempty"`
	PriceMin     *int     `json:"price_min,omitempty"`
	PriceMax     *int     `json:"price_max,omitempty"`
	YearBuiltMin *int     `json:"year_built_min,omitempty"`
	YearBuiltMax *int     `json:"year_built_max,omitempty"`
	LotSqftMin   *int     `json:"lot_sqft_min,omitempty"`
	LotSqftMax   *int     `json:"lot_sqft_max,omitempty"`

	PropertyType *PropertyType `json:"property_type,omitempty"`

	Radius   *float64 `json:"radius,omitempty"`
	SortBy   *SortBy  `json:"sort_by,omitempty"`
	Limit    *int     `json:"limit,omitempty"`
	Offset   *int     `json:"offset,omitempty"`
	Parallel *bool    `json:"parallel,omitempty"`
}

// Validate checks the request against the accepted bounds and reports every
// offending field at once.
func (p SearchParams) Validate() error {
	var v ValidationError

	if p.Location == "" {
		v.add("location", "is required")
	}
	if !p.ListingType.Valid() {
		v.add("listing_type", "must be one of for_sale, for_rent, sold, pending, off_market")
	}

	v.intMin("past_days", p.PastDays, 1)
	v.intMin("past_hours", p.PastHours, 1)
	v.date("date_from", p.DateFrom)
	v.date("date_to", p.DateTo)

	v.intMin("beds_min", p.BedsMin, 0)
	v.intMin("beds_max", p.BedsMax, 0)
	v.floatMin("baths_min", p.BathsMin, 0)
	v.floatMin("baths_max", p.BathsMax, 0)
	v.intMin("sqft_min", p.SqftMin, 0)
	v.intMin("sqft_max", p.SqftMax, 0)
	v.intMin("price_min", p.PriceMin, 0)
	v.intMin("price_max", p.PriceMax, 0)
	v.intMin("year_built_min", p.YearBuiltMin, MinYearBuilt)
	if p.YearBuiltMax != nil && *p.YearBuiltMax > MaxYearBuilt {
		v.add("year_built_max", "must be at most 2030")
	}
	v.intMin("lot_sqft_min", p.LotSqftMin, 0)
	v.intMin("lot_sqft_max", p.LotSqftMax, 0)

	if p.PropertyType != nil && !p.PropertyType.Valid() {
		v.add("property_type", "must be one of single_family, multi_family, condo, townhouse, land, other")
	}
	v.floatMin("radius", p.Radius, 0)
	if p.SortBy != nil && !p.SortBy.Valid() {
		v.add("sort_by", "must be one of list_date, list_price, sqft, beds, baths, last_update_date")
	}
	if p.Limit != nil && (*p.Limit < 1 || *p.Limit > MaxLimit) {
		v.add("limit", "must be between 1 and 10000")
	}
	v.intMin("offset", p.Offset, 0)

	if len(v.Fields) > 0 {
		return &v
	}
	return nil
}

// ScrapeRequest is the argument set handed to the scraper: location,
// listing type and only the filters that were set.
type ScrapeRequest struct {
	Args map[string]any
}

// CacheKey is a canonical encoding of the arguments. encoding/json writes
// map keys in sorted order, so equal requests produce equal keys.
func (r ScrapeRequest) CacheKey() string {
	b, err := json.Marshal(r.Args)
	if err != nil {
		return ""
	}
	return string(b)
}

// ScrapeRequest builds the scraper arguments for p.
func (p SearchParams) ScrapeRequest() ScrapeRequest {
	args := map[string]any{
		"location":     p.Location,
		"listing_type": string(p.ListingType),
	}

	setInt(args, "past_days", p.PastDays)
	setInt(args, "past_hours", p.PastHours)
	setString(args, "date_from", p.DateFrom)
	setString(args, "date_to", p.DateTo)

	setInt(args, "beds_min", p.BedsMin)
	setInt(args, "beds_max", p.BedsMax)
	setFloat(args, "baths_min", p.BathsMin)
	setFloat(args, "baths_max", p.BathsMax)
	setInt(args, "sqft_min", p.SqftMin)
	setInt(args, "sqft_max", p.SqftMax)
	setInt(args, "price_min", p.PriceMin)
	setInt(args, "price_max", p.PriceMax)
	setInt(args, "year_built_min", p.YearBuiltMin)
	setInt(args, "year_built_max", p.YearBuiltMax)
	setInt(args, "lot_sqft_min", p.LotSqftMin)
	setInt(args, "lot_sqft_max", p.LotSqftMax)

	// The provider takes a list of property types.
	if p.PropertyType != nil {
		args["property_type"] = []string{string(*p.PropertyType)}
	}

	setFloat(args, "radius", p.Radius)
	if p.SortBy != nil {
		args["sort_by"] = string(*p.SortBy)
	}
	setInt(args, "limit", p.Limit)
	setInt(args, "offset", p.Offset)
	if p.Parallel != nil {
		args["parallel"] = *p.Parallel
	}

	return ScrapeRequest{Args: args}
}

func setInt(args map[string]any, key string, v *int) {
	if v != nil {
		args[key] = *v
	}
}

func setFloat(args map[string]any, key string, v *float64) {
	if v != nil {
		args[key] = *v
	}
}

func setString(args map[string]any, key string, v *string) {
	if v != nil {
		args[key] = *v
	}
}

func (v *ValidationError) intMin(field string, value *int, minimum int) {
	if value != nil && *value < minimum {
		v.addf(field, "must be at least %d", minimum)
	}
}

func (v *ValidationError) floatMin(field string, value *float64, minimum float64) {
	if value != nil && !(*value >= minimum) {
		v.addf(field, "must be at least %g", minimum)
	}
}

func (v *ValidationError) date(field string, value *string) {
	if value == nil {
		return
	}
	if _, err := time.Parse(searchDateFormat, *value); err != nil {
		v.add(field, "must be a date in YYYY-MM-DD format")
	}
}
