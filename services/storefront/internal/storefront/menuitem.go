package storefront

import (
	"github.com/appetiteclub/storefront/pkg/enums/category"
	"github.com/shopspring/decimal"
)

// MenuItem is a catalog entry. Field names match the persisted layout.
type MenuItem struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description" yaml:"description"`
	Price         float64           `json:"price" yaml:"price"`
	Category      category.Category `json:"category" yaml:"category"`
	ImageURL      string            `json:"imageUrl" yaml:"imageUrl"`
	IsVegetarian  bool              `json:"isVegetarian" yaml:"isVegetarian"`
	IsSpicy       bool              `json:"isSpicy" yaml:"isSpicy"`
	IsChefSpecial bool              `json:"isChefSpecial" yaml:"isChefSpecial"`
	InStock       bool              `json:"inStock" yaml:"inStock"`
	Allergens     []string          `json:"allergens,omitempty" yaml:"allergens,omitempty"`
	Calories      *int              `json:"calories,omitempty" yaml:"calories,omitempty"`
}

// Clone returns a deep copy so snapshots never share slices or pointers
// with the catalog.
func (m MenuItem) Clone() MenuItem {
	out := m
	if m.Allergens != nil {
		out.Allergens = append([]string(nil), m.Allergens...)
	}
	if m.Calories != nil {
		c := *m.Calories
		out.Calories = &c
	}
	return out
}

// CartItem is a menu item snapshot with a quantity. It is embedded in
// orders as placed.
type CartItem struct {
	MenuItem
	Quantity int `json:"quantity" validate:"gte=0"`
}

// LineTotal is price times quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(c.Price).Mul(decimal.NewFromInt(int64(c.Quantity)))
}

func (c CartItem) Clone() CartItem {
	return CartItem{MenuItem: c.MenuItem.Clone(), Quantity: c.Quantity}
}

func cloneMenu(items []MenuItem) []MenuItem {
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func cloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
