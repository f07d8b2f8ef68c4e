package models

// Fixed two-level category taxonomy. A product's sub category must belong
// to the set named by its main category.
var subCategoriesByMain = map[string][]string{
	"Food":     {"Dry", "Wet", "Raw"},
	"Treat":    {"Dental", "Training"},
	"Health":   {"Vitamins", "Tick & Flea / Parasite Prevention", "Recovery Collars"},
	"Grooming": {"Shampoo & Conditioners", "Pet Brush", "Spritz & Wipes"},
	"Wellness": {"Toys", "Beds & Kennels", "Harness & Leashes"},
}

// mainCategoryOrder keeps menu ordering stable; map iteration is not.
var mainCategoryOrder = []string{"Food", "Treat", "Health", "Grooming", "Wellness"}

// MainCategories returns the main categories in display order.
func MainCategories() []string {
	out := make([]string, len(mainCategoryOrder))
	copy(out, mainCategoryOrder)
	return out
}

// SubCategories returns the allowed sub categories for a main category,
// or nil if the main category is unknown.
func SubCategories(main string) []string {
	subs, ok := subCategoriesByMain[main]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// ValidMainCategory reports whether main is part of the taxonomy.
func ValidMainCategory(main string) bool {
	_, ok := subCategoriesByMain[main]
	return ok
}

// ValidSubCategory reports whether sub belongs to main's allowed set.
func ValidSubCategory(main, sub string) bool {
	for _, s := range subCategoriesByMain[main] {
		if s == sub {
			return true
		}
	}
	return false
}
