package catalog

import (
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Store is a physical retail location. Coordinates are optional.
type Store struct {
	ID        string   `toml:"id" json:"id"`
	Name      string   `toml:"name" json:"name"`
	Latitude  *float64 `toml:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `toml:"longitude,omitempty" json:"longitude,omitempty"`
}

// Point returns the store position and whether both coordinates are known.
func (s Store) Point() (orb.Point, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return orb.Point{}, false
	}
	return orb.Point{*s.Longitude, *s.Latitude}, true
}

// Category is a flat tag attached to promotions.
type Category struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
}

// Promotion is a single offer. Store and Category are embedded by value.
type Promotion struct {
	ID                 string   `toml:"id" json:"id"`
	Title              string   `toml:"title" json:"title"`
	Description        string   `toml:"description" json:"description"`
	Store              Store    `toml:"-" json:"store"`
	Category           Category `toml:"-" json:"category"`
	ImageURL           string   `toml:"image_url" json:"imageUrl"`
	DiscountPercentage *float64 `toml:"discount_percentage,omitempty" json:"discountPercentage,omitempty"`
	DiscountCode       string   `toml:"discount_code,omitempty" json:"discountCode,omitempty"`
	ValidUntil         string   `toml:"valid_until,omitempty" json:"validUntil,omitempty"`
	IsSpecial          bool     `toml:"is_special" json:"isSpecial"`
}

// Expiry parses ValidUntil. Missing or malformed values report ok=false.
func (p Promotion) Expiry() (time.Time, bool) {
	raw := strings.TrimSpace(p.ValidUntil)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Expired reports whether the promotion's validity ended before now.
// Expired promotions stay in every listing; this only affects display.
func (p Promotion) Expired(now time.Time) bool {
	ts, ok := p.Expiry()
	return ok && ts.Before(now)
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

func clonePromotion(p Promotion) Promotion {
	out := p
	out.Store = cloneStore(p.Store)
	if p.DiscountPercentage != nil {
		out.DiscountPercentage = Float(*p.DiscountPercentage)
	}
	return out
}

func cloneStore(s Store) Store {
	out := s
	if s.Latitude != nil {
		out.Latitude = Float(*s.Latitude)
	}
	if s.Longitude != nil {
		out.Longitude = Float(*s.Longitude)
	}
	return out
}

// ClonePromotions deep-copies a promotion slice. Nil and empty inputs return nil.
func ClonePromotions(items []Promotion) []Promotion {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Promotion, len(items))
	for i, p := range items {
		dup[i] = clonePromotion(p)
	}
	return dup
}

// CloneStores deep-copies a store slice.
func CloneStores(items []Store) []Store {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Store, len(items))
	for i, s := range items {
		dup[i] = cloneStore(s)
	}
	return dup
}

// CloneCategories copies a category slice.
func CloneCategories(items []Category) []Category {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Category, len(items))
	copy(dup, items)
	return dup
}
