package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/inventory"
)

func validProductForm() ProductForm {
	return ProductForm{
		Name:           "Premium Kibble 5kg",
		Description:    "Chicken and rice dry food",
		Quantity:       25,
		ProductCode:    "PK-5000",
		SellingPrice:   1299.5,
		PurchasedPrice: 900,
		SupplierName:   "Happy Paws Trading",
		MainCategory:   "Food",
		SubCategory:    "Dry",
		DatePurchased:  "2026-08-01",
	}
}

func TestValidateCreate(t *testing.T) {
	v := NewValidator()

	t.Run("Success", func(t *testing.T) {
		assert.NoError(t, v.ValidateCreate(validProductForm(), true))
	})

	t.Run("Image Required", func(t *testing.T) {
		err := v.ValidateCreate(validProductForm(), false)

		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		assert.Contains(t, fieldErrors(t, err), "image")
	})

	t.Run("Prices Must Be Positive", func(t *testing.T) {
		f := validProductForm()
		f.SellingPrice = 0
		assert.Error(t, v.ValidateCreate(f, true))

		f = validProductForm()
		f.PurchasedPrice = -1
		assert.Error(t, v.ValidateCreate(f, true))
	})

	t.Run("Quantity Over Capacity Aborts Before Any Request", func(t *testing.T) {
		f := validProductForm()
		f.Quantity = inventory.MaxCapacity + 1

		err := v.ValidateCreate(f, true)

		assert.True(t, apperrors.Is(err, apperrors.KindCapacity))
	})

	t.Run("Bad Date Format", func(t *testing.T) {
		f := validProductForm()
		f.DatePurchased = "01/08/2026"

		err := v.ValidateCreate(f, true)
		assert.Contains(t, fieldErrors(t, err), "datepurchased")
	})

	t.Run("Sub Category Must Belong To Main", func(t *testing.T) {
		f := validProductForm()
		f.MainCategory = "Food"
		f.SubCategory = "Dental"

		err := v.ValidateCreate(f, true)

		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		assert.Contains(t, fieldErrors(t, err), "sub_category")
	})

	t.Run("Unknown Main Category", func(t *testing.T) {
		f := validProductForm()
		f.MainCategory = "Electronics"

		err := v.ValidateCreate(f, true)
		assert.Contains(t, fieldErrors(t, err), "main_category")
	})
}

func TestValidateEdit(t *testing.T) {
	v := NewValidator()

	t.Run("Keeps Existing Image", func(t *testing.T) {
		assert.NoError(t, v.ValidateEdit(validProductForm(), true, false, 100))
	})

	t.Run("Needs Some Image", func(t *testing.T) {
		err := v.ValidateEdit(validProductForm(), false, false, 100)
		assert.Contains(t, fieldErrors(t, err), "image")
	})

	t.Run("Zero Prices Allowed", func(t *testing.T) {
		f := validProductForm()
		f.SellingPrice = 0
		f.PurchasedPrice = 0
		assert.NoError(t, v.ValidateEdit(f, true, false, 100))
	})

	t.Run("Capacity Counts Other Products", func(t *testing.T) {
		f := validProductForm()
		f.Quantity = 30

		// 1980 elsewhere + 30 here exceeds the limit.
		err := v.ValidateEdit(f, true, false, 1980)
		assert.True(t, apperrors.Is(err, apperrors.KindCapacity))

		// Exactly at the limit is allowed.
		f.Quantity = 20
		assert.NoError(t, v.ValidateEdit(f, true, false, 1980))
	})
}
