// Package domain models real-estate listing data returned by the HomeHarvest
// scraper and the post-processing applied to every search.
//
// # Data Source
//
// Listings come from HomeHarvest (a Realtor.com scraper) running as a sidecar.
// It returns a pandas DataFrame serialized with to_json(orient="table"): a
// schema listing each column and its pandas type, followed by one record per
// listing. The scraper adapter decodes cells into provider-native Go values
// (json.Number, time.Time, nested maps and slices) so this package sees the
// data the way the provider typed it.
//
// # Missing Values
//
// pandas has several spellings of "missing": None, NaN, NaT and pd.NA. The
// adapter maps null cells to [NA], or [NaT] for datetime columns. The
// normalizer additionally treats float NaN, the zero time.Time, nil pointers
// and driver.Valuer values reporting nil (sql.NullInt64 and friends) as
// missing. Missing scalars become nil; empty lists and objects stay empty.
//
// # Normalization
//
// [NormalizeValue] reduces every cell to one of nil, bool, int64, float64,
// string, []any or map[string]any:
//
//	2024-05-01 00:00:00 (datetime)  →  "2024-05-01T00:00:00Z"
//	650000 (integer)                →  int64(650000)
//	2.5 (number)                    →  float64(2.5)
//	NaN / +Inf                      →  nil
//	[{"href": ...}] (nested)        →  []any{map[string]any{"href": ...}}
//
// Normalizing already-normalized data is a no-op.
//
// # Distances
//
// The center of a search is the first row, in provider order, with a usable
// latitude/longitude. Distances to it are great-circle (haversine) distances
// on a sphere of radius 3959 miles, rounded to two decimals and stored in the
// distance_miles column. Coordinates may arrive as numbers or numeric text;
// anything else, or a value outside ±90/±180, means "no coordinate".
//
// A radius turns on filtering and ordering:
//
//	no radius            →  every row, provider order, distances where known
//	radius, center found →  rows with distance ≤ radius, nearest first
//	radius, no center    →  every row, provider order, no distances
package domain
