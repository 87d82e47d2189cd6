// Package catalog supplies the static restaurant reference data the
// storefront reads from. The catalog is immutable; the only thing that
// ever grows around it is the review side-channel, which callers merge
// in at render time.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"quickbite/internal/domain"
)

//go:embed restaurants.json
var seedData []byte

type Catalog struct {
	restaurants []domain.Restaurant
	byID        map[string]*domain.Restaurant
	categories  []string
	cuisines    []string
}

type seedFile struct {
	Restaurants []domain.Restaurant `json:"restaurants"`
	Categories  []string            `json:"categories"`
	Cuisines    []string            `json:"cuisines"`
}

// New builds a catalog from explicit data. Tests use it to avoid
// depending on the embedded seed.
func New(restaurants []domain.Restaurant, categories, cuisines []string) *Catalog {
	c := &Catalog{
		restaurants: restaurants,
		byID:        make(map[string]*domain.Restaurant, len(restaurants)),
		categories:  categories,
		cuisines:    cuisines,
	}
	for i := range c.restaurants {
		c.byID[c.restaurants[i].ID] = &c.restaurants[i]
	}
	return c
}

// Load parses the embedded seed catalog.
func Load() (*Catalog, error) {
	var seed seedFile
	if err := json.Unmarshal(seedData, &seed); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return New(seed.Restaurants, seed.Categories, seed.Cuisines), nil
}

func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}
	return c
}

// Restaurants returns a copy of the full restaurant list in catalog
// order.
func (c *Catalog) Restaurants() []domain.Restaurant {
	out := make([]domain.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

func (c *Catalog) Restaurant(id string) (*domain.Restaurant, bool) {
	r, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	copied := *r
	return &copied, true
}

// MenuItem resolves a dish within a restaurant.
func (c *Catalog) MenuItem(restaurantID, itemID string) (*domain.MenuItem, bool) {
	r, ok := c.byID[restaurantID]
	if !ok {
		return nil, false
	}
	for i := range r.Menu {
		if r.Menu[i].ID == itemID {
			item := r.Menu[i]
			return &item, true
		}
	}
	return nil, false
}

func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Cuisines() []string {
	out := make([]string, len(c.cuisines))
	copy(out, c.cuisines)
	return out
}
