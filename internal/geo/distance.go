package geo

import (
	"math"

	"github.com/BearBump/DeliveryBox/internal/models"
)

const earthRadiusMeters = 6_371_000.0

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b models.Location) float64 {
	const degToRad = math.Pi / 180

	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
