package storefront

import (
	"fmt"
	"os"

	"github.com/appetiteclub/storefront/pkg/enums/category"
	"gopkg.in/yaml.v3"
)

// SeedCatalog returns a fresh copy of the catalog used to bootstrap an
// empty menu.
func SeedCatalog() []MenuItem {
	return []MenuItem{
		{
			ID:            "m1",
			Name:          "Sufiyana Special Galouti Kebab",
			Description:   "Melt-in-your-mouth minced lamb patties seasoned with 132 spices, served on ulte tawe ka paratha.",
			Price:         450,
			Category:      category.Kebabs,
			ImageURL:      "https://picsum.photos/id/1060/500/500",
			IsVegetarian:  false,
			IsSpicy:       true,
			IsChefSpecial: true,
			InStock:       true,
			Allergens:     []string{"Nutmeg", "Cashew"},
			Calories:      intPtr(320),
		},
		{
			ID:            "m2",
			Name:          "Paneer Tikka Zaffrani",
			Description:   "Cottage cheese cubes marinated in saffron, yogurt and cream, grilled in tandoor.",
			Price:         320,
			Category:      category.Starters,
			ImageURL:      "https://picsum.photos/id/1080/500/500",
			IsVegetarian:  true,
			IsSpicy:       false,
			IsChefSpecial: false,
			InStock:       true,
			Allergens:     []string{"Dairy"},
			Calories:      intPtr(280),
		},
		{
			ID:            "m3",
			Name:          "Royal Murgh Biryani",
			Description:   "Long grain basmati rice cooked with chicken marinated in secret royal spices (Dum style).",
			Price:         380,
			Category:      category.Biryani,
			ImageURL:      "https://picsum.photos/id/111/500/500",
			IsVegetarian:  false,
			IsSpicy:       true,
			IsChefSpecial: true,
			InStock:       true,
			Calories:      intPtr(450),
		},
		{
			ID:            "m4",
			Name:          "Dal Sufiyana (Dal Makhani)",
			Description:   "Black lentils slow-cooked overnight with tomatoes, cream and butter.",
			Price:         290,
			Category:      category.Curries,
			ImageURL:      "https://picsum.photos/id/112/500/500",
			IsVegetarian:  true,
			IsSpicy:       false,
			IsChefSpecial: true,
			InStock:       true,
			Allergens:     []string{"Dairy"},
			Calories:      intPtr(350),
		},
		{
			ID:            "m5",
			Name:          "Shahi Tukda",
			Description:   "Fried bread slices soaked in saffron milk and topped with rabri and nuts.",
			Price:         180,
			Category:      category.Desserts,
			ImageURL:      "https://picsum.photos/id/113/500/500",
			IsVegetarian:  true,
			IsSpicy:       false,
			IsChefSpecial: false,
			InStock:       false,
			Allergens:     []string{"Dairy", "Nuts", "Gluten"},
			Calories:      intPtr(400),
		},
		{
			ID:            "m6",
			Name:          "Rose Sherbet",
			Description:   "Refreshing traditional rose flavored drink with basil seeds.",
			Price:         120,
			Category:      category.Drinks,
			ImageURL:      "https://picsum.photos/id/114/500/500",
			IsVegetarian:  true,
			IsSpicy:       false,
			IsChefSpecial: false,
			InStock:       true,
			Calories:      intPtr(120),
		},
		{
			ID:            "m7",
			Name:          "Mutton Rogan Josh",
			Description:   "Aromatic lamb curry with vibrant red color derived from Kashmiri chili.",
			Price:         550,
			Category:      category.Curries,
			ImageURL:      "https://picsum.photos/id/115/500/500",
			IsVegetarian:  false,
			IsSpicy:       true,
			IsChefSpecial: false,
			InStock:       true,
			Calories:      intPtr(500),
		},
		{
			ID:            "m8",
			Name:          "Subz Biryani",
			Description:   "A medley of seasonal vegetables cooked with aromatic basmati rice.",
			Price:         310,
			Category:      category.Biryani,
			ImageURL:      "https://picsum.photos/id/116/500/500",
			IsVegetarian:  true,
			IsSpicy:       false,
			IsChefSpecial: false,
			InStock:       true,
			Calories:      intPtr(300),
		},
	}
}

type catalogFile struct {
	Items []MenuItem `yaml:"items"`
}

// LoadCatalog reads a replacement seed catalog from a YAML file with a
// top-level items list. Every entry must carry an id, a name and a valid
// category.
func LoadCatalog(path string) ([]MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cannot parse catalog %s: %w", path, err)
	}

	if len(file.Items) == 0 {
		return nil, fmt.Errorf("catalog %s has no items", path)
	}

	seen := make(map[string]bool, len(file.Items))
	for i, item := range file.Items {
		if item.ID == "" || item.Name == "" {
			return nil, fmt.Errorf("catalog item %d: id and name are required", i)
		}
		if !item.Category.IsValid() {
			return nil, fmt.Errorf("catalog item %s: unknown category %q", item.ID, item.Category)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("catalog item %s: duplicate id", item.ID)
		}
		seen[item.ID] = true
	}

	return file.Items, nil
}

func intPtr(v int) *int {
	return &v
}
