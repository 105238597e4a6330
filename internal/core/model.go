package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryProtein    Category = "Protein"
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryFastFood   Category = "Fast Food"
	CategoryFrozenFood Category = "Frozen Food"
)

// CategoryInfo is a catalogue entry shown in category pickers.
type CategoryInfo struct {
	Name Category `json:"name"`
	Icon string   `json:"icon"`
}

var categoryCatalogue = []CategoryInfo{
	{Name: CategoryProtein, Icon: "🥩"},
	{Name: CategoryVegetables, Icon: "🥬"},
	{Name: CategoryFruits, Icon: "🍎"},
	{Name: CategoryFastFood, Icon: "🍔"},
	{Name: CategoryFrozenFood, Icon: "🧊"},
}

// Categories returns the fixed category catalogue in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryCatalogue))
	copy(out, categoryCatalogue)
	return out
}

// Valid reports whether c is one of the fixed categories. Comparison is case-sensitive.
func (c Category) Valid() bool {
	for _, info := range categoryCatalogue {
		if info.Name == c {
			return true
		}
	}
	return false
}

// ParseCategory converts s into a Category, rejecting anything outside the catalogue.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// UnitSuggestions lists the units offered by the item form. Units are free text; this list is not enforced.
func UnitSuggestions() []string {
	return []string{"kg", "gram", "liter", "ml", "pcs", "pack", "botol", "kaleng", "sachet", "bungkus"}
}

// Item is a single food item owned by a user. The inventory store owns it; the
// freshness engine only reads it.
type Item struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	Location  string          `json:"location"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt *time.Time      `json:"expired_date,omitempty"`

	// Set by stores when the persisted value could not be parsed.
	MalformedCreatedAt bool `json:"-"`
	MalformedExpiresAt bool `json:"-"`
}

// ItemInput carries the user-editable fields of an item for create and update.
type ItemInput struct {
	Name      string
	Category  Category
	Quantity  decimal.Decimal
	Unit      string
	Location  string
	ExpiresAt *time.Time
}
