package geo

import "math"

const (
	earthRadiusKm = 6371

	// metersPerDegreeLat is approximate; good enough for coarse cells.
	metersPerDegreeLat = 111_320

	// DefaultGridMeters is the side of the cell presences are snapped to.
	DefaultGridMeters = 300
)

// DistanceKm returns the great-circle distance between two points using the
// Haversine formula, rounded to two decimals.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return Round(earthRadiusKm*c, 2)
}

// ToGrid snaps a coordinate to the centre of a square cell of gridMeters.
// Longitude cells shrink with latitude so they stay roughly square on the
// ground. A non-positive gridMeters falls back to DefaultGridMeters.
func ToGrid(lat, lng, gridMeters float64) (gridLat, gridLng float64) {
	if gridMeters <= 0 {
		gridMeters = DefaultGridMeters
	}
	latUnits := metersPerDegreeLat / gridMeters
	gridLat = math.Round(lat*latUnits) / latUnits

	metersPerDegreeLng := metersPerDegreeLat * math.Cos(toRadians(lat))
	lngUnits := metersPerDegreeLng / gridMeters
	if lngUnits > 0 {
		gridLng = math.Round(lng*lngUnits) / lngUnits
	} else {
		// at the poles every longitude is the same point
		gridLng = 0
	}

	return Round(gridLat, 6), Round(gridLng, 6)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
