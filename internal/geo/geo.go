// Package geo computes great-circle distances between viewer and store positions.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// Unbounded is returned when a distance cannot be computed.
var Unbounded = math.Inf(1)

// DistanceKm returns the haversine distance in kilometres between two points
// given in decimal degrees.
//
// A coordinate equal to 0 is treated as missing and yields Unbounded, so a
// proximity filter degrades to "no constraint" instead of failing. This also
// applies to real positions on the equator or the prime meridian.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == 0 || lon1 == 0 || lat2 == 0 || lon2 == 0 {
		return Unbounded
	}

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// PointDistanceKm is DistanceKm for orb points (X = longitude, Y = latitude).
func PointDistanceKm(a, b orb.Point) float64 {
	return DistanceKm(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// Within reports whether b lies at most maxKm from a. An Unbounded distance
// cannot be measured and therefore never falls outside the limit.
func Within(a, b orb.Point, maxKm float64) bool {
	d := PointDistanceKm(a, b)
	return d == Unbounded || d <= maxKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
