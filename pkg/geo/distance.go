package geo

import "math"

const (
	earthRadiusKm = 6371.0

	// AverageSpeedKmh is the planning speed used for trip estimates.
	AverageSpeedKmh = 30.0
)

// HaversineKm returns the great-circle distance between two [lng, lat] points.
func HaversineKm(lng1, lat1, lng2, lat2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// EstimateMinutes converts a distance into whole minutes at AverageSpeedKmh,
// rounding up so a non-zero trip never estimates to zero.
func EstimateMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / AverageSpeedKmh * 60))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidPair reports whether coords is a [longitude, latitude] pair in range.
func ValidPair(coords []float64) bool {
	return len(coords) == 2 && ValidLongitude(coords[0]) && ValidLatitude(coords[1])
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
