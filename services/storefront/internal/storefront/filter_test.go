package storefront

import (
	"testing"

	"github.com/appetiteclub/storefront/pkg/enums/category"
)

func ids(items []MenuItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestFilterMenu(t *testing.T) {
	menu := SeedCatalog()

	tests := []struct {
		name   string
		filter MenuFilter
		want   []string
	}{
		{name: "noFilter", filter: MenuFilter{}, want: []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8"}},
		{name: "byCategory", filter: MenuFilter{Category: category.Biryani}, want: []string{"m3", "m8"}},
		{name: "vegOnly", filter: MenuFilter{Diet: DietVeg}, want: []string{"m2", "m4", "m5", "m6", "m8"}},
		{name: "nonVegOnly", filter: MenuFilter{Diet: DietNonVeg}, want: []string{"m1", "m3", "m7"}},
		{name: "queryMatchesName", filter: MenuFilter{Query: "biryani"}, want: []string{"m3", "m8"}},
		{name: "queryMatchesDescription", filter: MenuFilter{Query: "SAFFRON"}, want: []string{"m2", "m5"}},
		{name: "combined", filter: MenuFilter{Category: category.Curries, Diet: DietVeg, Query: "dal"}, want: []string{"m4"}},
		{name: "noMatch", filter: MenuFilter{Query: "pizza"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterMenu(menu, tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("FilterMenu() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FilterMenu()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseDiet(t *testing.T) {
	tests := []struct {
		in   string
		want Diet
	}{
		{in: "veg", want: DietVeg},
		{in: " NonVeg ", want: DietNonVeg},
		{in: "", want: DietAll},
		{in: "vegan", want: DietAll},
	}

	for _, tt := range tests {
		if got := ParseDiet(tt.in); got != tt.want {
			t.Errorf("ParseDiet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
