package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryTaxonomy(t *testing.T) {
	t.Run("Main Categories In Display Order", func(t *testing.T) {
		assert.Equal(t, []string{"Food", "Treat", "Health", "Grooming", "Wellness"}, MainCategories())
	})

	t.Run("Sub Categories Belong To Main", func(t *testing.T) {
		assert.Equal(t, []string{"Dry", "Wet", "Raw"}, SubCategories("Food"))
		assert.Nil(t, SubCategories("Electronics"))

		assert.True(t, ValidSubCategory("Grooming", "Shampoo & Conditioners"))
		assert.False(t, ValidSubCategory("Food", "Dental"))
		assert.False(t, ValidSubCategory("Electronics", "Dry"))
	})

	t.Run("Every Main Category Has Sub Categories", func(t *testing.T) {
		for _, main := range MainCategories() {
			assert.True(t, ValidMainCategory(main))
			assert.NotEmpty(t, SubCategories(main))
		}
	})
}

func TestProductGain(t *testing.T) {
	p := Product{SellingPrice: 1299.5, PurchasedPrice: 900}
	assert.InDelta(t, 399.5, p.Gain(), 0.001)
}
