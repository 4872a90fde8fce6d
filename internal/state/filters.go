package state

import "github.com/paulmach/orb"

// Filters holds the criteria applied by SelectFilteredPromotions. The zero
// value of each axis means "no constraint". Filters is comparable so it can
// key a cache.
type Filters struct {
	CategoryID string
	StoreID    string

	MaxDistanceKm  float64
	HasMaxDistance bool

	// Simulated viewer position. Independent of the three criteria above.
	UserLatitude    float64
	UserLongitude   float64
	HasUserLocation bool
}

// MaxDistance returns the distance limit, if any.
func (f Filters) MaxDistance() (float64, bool) {
	return f.MaxDistanceKm, f.HasMaxDistance
}

// Viewer returns the viewer position as an orb point (lon, lat).
func (f Filters) Viewer() (orb.Point, bool) {
	if !f.HasUserLocation {
		return orb.Point{}, false
	}
	return orb.Point{f.UserLongitude, f.UserLatitude}, true
}

// Active reports whether any of category, store or distance is constrained.
// The clear action is a no-op otherwise.
func (f Filters) Active() bool {
	return f.CategoryID != "" || f.StoreID != "" || f.HasMaxDistance
}
