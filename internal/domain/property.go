package domain

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Property is the public shape of one listing. Every field is optional;
// nested provider structures are carried as normalized values.
type Property struct {
	// Basic information.
	PropertyURL *string `json:"property_url"`
	PropertyID  *string `json:"property_id"`
	ListingID   *string `json:"listing_id"`
	MLS         *string `json:"mls"`
	MLSID       *string `json:"mls_id"`
	MLSStatus   *string `json:"mls_status"`
	Status      *string `json:"status"`
	Permalink   *string `json:"permalink"`

	// Address.
	Street  *string `json:"street"`
	Unit    *string `json:"unit"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`

	// Description.
	Style     *string `json:"style"`
	Beds      *int64  `json:"beds"`
	FullBaths *int64  `json:"full_baths"`
	HalfBaths *int64  `json:"half_baths"`
	Sqft      *int64  `json:"sqft"`
	YearBuilt *int64  `json:"year_built"`
	Stories   *int64  `json:"stories"`
	Garage    *int64  `json:"garage"`
	LotSqft   *int64  `json:"lot_sqft"`
	Text      *string `json:"text"`
	Type      *string `json:"type"`

	// Listing details.
	DaysOnMLS            *int64   `json:"days_on_mls"`
	ListPrice            *int64   `json:"list_price"`
	ListPriceMin         *int64   `json:"list_price_min"`
	ListPriceMax         *int64   `json:"list_price_max"`
	ListDate             *string  `json:"list_date"`
	PendingDate          *string  `json:"pending_date"`
	SoldPrice            *int64   `json:"sold_price"`
	LastSoldDate         *string  `json:"last_sold_date"`
	LastStatusChangeDate *string  `json:"last_status_change_date"`
	LastUpdateDate       *string  `json:"last_update_date"`
	LastSoldPrice        *int64   `json:"last_sold_price"`
	PricePerSqft         *float64 `json:"price_per_sqft"`
	NewConstruction      *bool    `json:"new_construction"`
	HOAFee               *int64   `json:"hoa_fee"`
	MonthlyFees          any      `json:"monthly_fees"`
	OneTimeFees          any      `json:"one_time_fees"`
	EstimatedValue       *int64   `json:"estimated_value"`

	// Tax.
	TaxAssessedValue *int64 `json:"tax_assessed_value"`
	TaxHistory       any    `json:"tax_history"`

	// Location.
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Neighborhoods *string  `json:"neighborhoods"`
	County        *string  `json:"county"`
	FIPSCode      *string  `json:"fips_code"`
	ParcelNumber  *string  `json:"parcel_number"`
	NearbySchools any      `json:"nearby_schools"`

	// Agent, broker and office.
	AgentUUID         *string `json:"agent_uuid"`
	AgentName         *string `json:"agent_name"`
	AgentEmail        *string `json:"agent_email"`
	AgentPhone        *string `json:"agent_phone"`
	AgentStateLicense *string `json:"agent_state_license"`
	BrokerUUID        *string `json:"broker_uuid"`
	BrokerName        *string `json:"broker_name"`
	OfficeUUID        *string `json:"office_uuid"`
	OfficeName        *string `json:"office_name"`
	OfficeEmail       *string `json:"office_email"`
	OfficePhones      any     `json:"office_phones"`

	// Additional fields.
	EstimatedMonthlyRental *int64  `json:"estimated_monthly_rental"`
	Tags                   any     `json:"tags"`
	Flags                  any     `json:"flags"`
	Photos                 any     `json:"photos"`
	PrimaryPhoto           *string `json:"primary_photo"`
	AltPhotos              any     `json:"alt_photos"`
	OpenHouses             any     `json:"open_houses"`
	Units                  any     `json:"units"`
	PetPolicy              any     `json:"pet_policy"`
	Parking                any     `json:"parking"`
	ParkingGarage          *int64  `json:"parking_garage"`
	Terms                  any     `json:"terms"`
	CurrentEstimates       any     `json:"current_estimates"`
	Estimates              any     `json:"estimates"`

	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

// PropertiesFromRows shapes annotated rows into the public response type.
func PropertiesFromRows(rows []NormalizedRow) []Property {
	props := make([]Property, len(rows))
	for i, row := range rows {
		props[i] = PropertyFromRow(row)
	}
	return props
}

// PropertyFromRow copies known columns into a Property. Values are coerced
// to the field type where that is lossless (an integral float into an int
// field, a number into a text field); anything else leaves the field nil.
// Unknown columns are ignored.
func PropertyFromRow(row NormalizedRow) Property {
	var p Property
	pv := reflect.ValueOf(&p).Elem()

	for name, value := range row {
		f, ok := propertyFields[name]
		if !ok || value == nil {
			continue
		}
		field := pv.Field(f.index)

		switch f.kind {
		case kindString:
			if s, ok := coerceString(value); ok {
				field.Set(reflect.ValueOf(&s))
			}
		case kindInt:
			if n, ok := coerceInt(value); ok {
				field.Set(reflect.ValueOf(&n))
			}
		case kindFloat:
			if x, ok := coerceFloat(value); ok {
				field.Set(reflect.ValueOf(&x))
			}
		case kindBool:
			if b, ok := coerceBool(value); ok {
				field.Set(reflect.ValueOf(&b))
			}
		case kindAny:
			field.Set(reflect.ValueOf(value))
		}
	}
	return p
}

type fieldKind int

const (
	kindAny fieldKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
)

type propertyField struct {
	index int
	kind  fieldKind
}

// propertyFields maps JSON column names to Property struct fields.
var propertyFields = indexPropertyFields()

func indexPropertyFields() map[string]propertyField {
	t := reflect.TypeOf(Property{})
	fields := make(map[string]propertyField, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		var kind fieldKind
		switch sf.Type {
		case reflect.TypeOf((*string)(nil)):
			kind = kindString
		case reflect.TypeOf((*int64)(nil)):
			kind = kindInt
		case reflect.TypeOf((*float64)(nil)):
			kind = kindFloat
		case reflect.TypeOf((*bool)(nil)):
			kind = kindBool
		default:
			kind = kindAny
		}
		fields[name] = propertyField{index: i, kind: kind}
	}
	return fields
}

func coerceString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

func coerceInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || math.Abs(x) >= math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return coerceInt(f)
	default:
		return 0, false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || !isFinite(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int64:
		if x == 0 || x == 1 {
			return x == 1, true
		}
		return false, false
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		return false, false
	}
}

// SearchResult is the response to a property search.
type SearchResult struct {
	Count      int        `json:"count"`
	Properties []Property `json:"properties"`
}
