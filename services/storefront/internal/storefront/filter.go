package storefront

import (
	"strings"

	"github.com/appetiteclub/storefront/pkg/enums/category"
)

type Diet string

const (
	DietAll    Diet = "all"
	DietVeg    Diet = "veg"
	DietNonVeg Diet = "nonveg"
)

// ParseDiet maps a query value to a Diet. Unknown values mean all.
func ParseDiet(s string) Diet {
	switch Diet(strings.ToLower(strings.TrimSpace(s))) {
	case DietVeg:
		return DietVeg
	case DietNonVeg:
		return DietNonVeg
	}
	return DietAll
}

type MenuFilter struct {
	Category category.Category // empty matches every category
	Diet     Diet
	Query    string
}

// FilterMenu returns the items matching every filter, in input order.
func FilterMenu(items []MenuItem, f MenuFilter) []MenuItem {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if !f.Diet.matches(item) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (d Diet) matches(item MenuItem) bool {
	switch d {
	case DietVeg:
		return item.IsVegetarian
	case DietNonVeg:
		return !item.IsVegetarian
	case DietAll, "":
		return true
	}
	return true
}
