package category

import "strings"

// Category groups menu items on the storefront.
type Category string

const (
	Starters Category = "Starters"
	Kebabs   Category = "Kebabs"
	Biryani  Category = "Biryani"
	Curries  Category = "Curries"
	Desserts Category = "Desserts"
	Drinks   Category = "Drinks"
)

// All lists categories in menu display order.
var All = []Category{
	Starters,
	Kebabs,
	Biryani,
	Curries,
	Desserts,
	Drinks,
}

func (c Category) Code() string {
	return strings.ToLower(string(c))
}

func (c Category) Label() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case Starters, Kebabs, Biryani, Curries, Desserts, Drinks:
		return true
	}
	return false
}

// ByName returns the category for a given name or code, or nil if not found
func ByName(name string) *Category {
	for _, c := range All {
		if strings.EqualFold(string(c), name) {
			return &c
		}
	}
	return nil
}
