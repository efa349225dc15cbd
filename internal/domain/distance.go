package domain

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// EarthRadiusMiles is the sphere radius used for haversine distances.
const EarthRadiusMiles = 3959.0

// Column names read and written by the geo post-processor.
const (
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldDistanceMiles = "distance_miles"
)

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	return isFinite(c.Lat) && isFinite(c.Lon) &&
		math.Abs(c.Lat) <= 90 && math.Abs(c.Lon) <= 180
}

// HaversineMiles returns the great-circle distance between a and b in miles.
func HaversineMiles(a, b Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMiles * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RowCoordinate extracts the row's latitude/longitude. It returns false when
// either field is missing, not numeric, not finite or out of range.
func RowCoordinate(row NormalizedRow) (Coordinate, bool) {
	lat, ok := coordinateValue(row[FieldLatitude])
	if !ok {
		return Coordinate{}, false
	}
	lon, ok := coordinateValue(row[FieldLongitude])
	if !ok {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: lat, Lon: lon}
	return c, c.Valid()
}

// AttachAndFilterDistance annotates rows in place with distance_miles from
// the first row carrying a valid coordinate (the center).
//
// Without a radius the rows come back in their original order. With a radius
// and a center, rows farther than radius or without a distance are dropped.
// With a radius the survivors are stably sorted by ascending distance, rows
// lacking one last. When no row has a valid coordinate nothing is annotated
// and nothing is filtered.
func AttachAndFilterDistance(rows []NormalizedRow, radius *float64) []NormalizedRow {
	center, hasCenter := findCenter(rows)

	for _, row := range rows {
		delete(row, FieldDistanceMiles)
		if !hasCenter {
			continue
		}
		if c, ok := RowCoordinate(row); ok {
			row[FieldDistanceMiles] = roundTo(HaversineMiles(center, c), 2)
		}
	}

	if radius == nil {
		return rows
	}

	result := make([]NormalizedRow, 0, len(rows))
	for _, row := range rows {
		if hasCenter {
			d, ok := rowDistance(row)
			if !ok || d > *radius {
				continue
			}
		}
		result = append(result, row)
	}

	slices.SortStableFunc(result, compareDistance)
	return result
}

func findCenter(rows []NormalizedRow) (Coordinate, bool) {
	for _, row := range rows {
		if c, ok := RowCoordinate(row); ok {
			return c, true
		}
	}
	return Coordinate{}, false
}

// compareDistance orders by distance_miles ascending; rows without one sort last.
func compareDistance(a, b NormalizedRow) int {
	da, okA := rowDistance(a)
	db, okB := rowDistance(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	default:
		return cmp.Compare(da, db)
	}
}

func rowDistance(row NormalizedRow) (float64, bool) {
	d, ok := row[FieldDistanceMiles].(float64)
	return d, ok
}

// coordinateValue accepts numbers and numeric text, mirroring a lenient
// float conversion. Anything else is not a coordinate.
func coordinateValue(v any) (float64, bool) {
	switch x := NormalizeValue(v).(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
