package state

import (
	"sync"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/geo"
)

// SelectFilteredPromotions returns the promotions of s that satisfy every
// active filter, in catalog order:
//
//  1. category ID matches, when a category is set
//  2. store ID matches, when a store is set
//  3. distance from the viewer is at most the limit, when a limit, a viewer
//     position and both store coordinates are present and the distance is
//     computable
//
// Stores without coordinates are never excluded by distance. Neither are
// stores whose distance is geo.Unbounded (a zero coordinate on either side).
func SelectFilteredPromotions(s State) []catalog.Promotion {
	f := s.Filters
	out := make([]catalog.Promotion, 0, len(s.AllPromotions))
	for _, p := range s.AllPromotions {
		if matches(f, p) {
			out = append(out, p)
		}
	}
	return out
}

func matches(f Filters, p catalog.Promotion) bool {
	if f.CategoryID != "" && p.Category.ID != f.CategoryID {
		return false
	}
	if f.StoreID != "" && p.Store.ID != f.StoreID {
		return false
	}
	if maxKm, ok := f.MaxDistance(); ok {
		viewer, hasViewer := f.Viewer()
		store, hasStore := p.Store.Point()
		if hasViewer && hasStore && !geo.Within(viewer, store, maxKm) {
			return false
		}
	}
	return true
}

// DistanceFromViewer returns the distance between the viewer and store, when
// both positions are known and the distance is computable.
func DistanceFromViewer(f Filters, store catalog.Store) (float64, bool) {
	viewer, ok := f.Viewer()
	if !ok {
		return 0, false
	}
	pt, ok := store.Point()
	if !ok {
		return 0, false
	}
	d := geo.PointDistanceKm(viewer, pt)
	if d == geo.Unbounded {
		return 0, false
	}
	return d, true
}

// FirstSpecial returns the first promotion flagged as special.
func FirstSpecial(promotions []catalog.Promotion) (catalog.Promotion, bool) {
	for _, p := range promotions {
		if p.IsSpecial {
			return p, true
		}
	}
	return catalog.Promotion{}, false
}

// FilteredView memoises SelectFilteredPromotions on the catalog version and
// the filter value. It is safe for concurrent use.
type FilteredView struct {
	mu      sync.Mutex
	valid   bool
	version uint64
	filters Filters
	result  []catalog.Promotion
	misses  int
}

// Select returns the filtered promotions for s, recomputing only when the
// catalog or the filters changed since the previous call. The returned slice
// is shared between calls and must not be modified.
func (v *FilteredView) Select(s State) []catalog.Promotion {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid && v.version == s.CatalogVersion && v.filters == s.Filters {
		return v.result
	}
	v.result = SelectFilteredPromotions(s)
	v.version = s.CatalogVersion
	v.filters = s.Filters
	v.valid = true
	v.misses++
	return v.result
}

// Recomputations reports how many times Select had to recompute.
func (v *FilteredView) Recomputations() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.misses
}
