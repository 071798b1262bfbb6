package geo

import "math"

// earthRadiusKm is the mean earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between two
// coordinates expressed in decimal degrees.
func DistanceKm(fromLat, fromLng, toLat, toLng float64) float64 {
	lat1 := radians(fromLat)
	lat2 := radians(toLat)
	dLat := radians(toLat - fromLat)
	dLng := radians(toLng - fromLng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
