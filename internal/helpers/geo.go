package helpers

import (
	"math"

	"github.com/joshua-takyi/happenings/internal/models"
)

const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b models.Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceTo is the distance from the viewer to the event, nil when the event has no location.
func DistanceTo(from models.Coordinates, e models.Event) *float64 {
	if e.Location == nil {
		return nil
	}
	d := Haversine(from, e.Location.Coordinates())
	return &d
}
