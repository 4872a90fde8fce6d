package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed fixture.toml
var defaultFixture []byte

// Fixture is a parsed catalog document. Promotions reference stores and
// categories by ID and are resolved into embedded values by Resolve.
type Fixture struct {
	Categories []Category         `toml:"categories"`
	Stores     []Store            `toml:"stores"`
	Promotions []fixturePromotion `toml:"promotions"`
}

type fixturePromotion struct {
	ID                 string   `toml:"id"`
	Title              string   `toml:"title"`
	Description        string   `toml:"description"`
	StoreID            string   `toml:"store"`
	CategoryID         string   `toml:"category"`
	ImageURL           string   `toml:"image_url"`
	DiscountPercentage *float64 `toml:"discount_percentage"`
	DiscountCode       string   `toml:"discount_code"`
	ValidUntil         string   `toml:"valid_until"`
	ValidFor           string   `toml:"valid_for"`
	IsSpecial          bool     `toml:"is_special"`
}

// ParseFixture decodes a TOML catalog document and checks its references.
func ParseFixture(data []byte) (Fixture, error) {
	var fx Fixture
	if err := toml.Unmarshal(data, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}

	stores := make(map[string]struct{}, len(fx.Stores))
	for _, s := range fx.Stores {
		stores[s.ID] = struct{}{}
	}
	categories := make(map[string]struct{}, len(fx.Categories))
	for _, c := range fx.Categories {
		categories[c.ID] = struct{}{}
	}
	for _, p := range fx.Promotions {
		if strings.TrimSpace(p.ID) == "" {
			return Fixture{}, fmt.Errorf("parse fixture: promotion %q has no id", p.Title)
		}
		if _, ok := stores[p.StoreID]; !ok {
			return Fixture{}, fmt.Errorf("parse fixture: promotion %s references unknown store %q", p.ID, p.StoreID)
		}
		if _, ok := categories[p.CategoryID]; !ok {
			return Fixture{}, fmt.Errorf("parse fixture: promotion %s references unknown category %q", p.ID, p.CategoryID)
		}
		if p.ValidFor != "" {
			if _, err := time.ParseDuration(p.ValidFor); err != nil {
				return Fixture{}, fmt.Errorf("parse fixture: promotion %s valid_for: %w", p.ID, err)
			}
		}
	}
	return fx, nil
}

// Resolve returns the promotions with stores and categories embedded.
// Relative validity (valid_for) is anchored at now.
func (fx Fixture) Resolve(now time.Time) []Promotion {
	stores := make(map[string]Store, len(fx.Stores))
	for _, s := range fx.Stores {
		if _, seen := stores[s.ID]; !seen {
			stores[s.ID] = s
		}
	}
	categories := make(map[string]Category, len(fx.Categories))
	for _, c := range fx.Categories {
		if _, seen := categories[c.ID]; !seen {
			categories[c.ID] = c
		}
	}

	out := make([]Promotion, 0, len(fx.Promotions))
	for _, raw := range fx.Promotions {
		p := Promotion{
			ID:                 raw.ID,
			Title:              raw.Title,
			Description:        raw.Description,
			Store:              cloneStore(stores[raw.StoreID]),
			Category:           categories[raw.CategoryID],
			ImageURL:           raw.ImageURL,
			DiscountPercentage: raw.DiscountPercentage,
			DiscountCode:       raw.DiscountCode,
			ValidUntil:         raw.ValidUntil,
			IsSpecial:          raw.IsSpecial,
		}
		if raw.ValidFor != "" {
			// Durations were checked by ParseFixture.
			d, _ := time.ParseDuration(raw.ValidFor)
			p.ValidUntil = now.Add(d).UTC().Format(time.RFC3339)
		}
		out = append(out, clonePromotion(p))
	}
	return out
}
