package forms

import (
	"fmt"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/clients"
	"github.com/canineracks/inventory-console/inventory"
	"github.com/canineracks/inventory-console/models"
)

// ProductForm is an add/edit product submission before type conversion.
// Raw string fields come straight from the view; Parse turns them into
// wire-ready ProductFields or a per-field validation error.
type ProductForm struct {
	Name           string `validate:"required"`
	Description    string `validate:"required"`
	Quantity       int    `validate:"gte=0"`
	ProductCode    string `validate:"required"`
	SellingPrice   float64
	PurchasedPrice float64
	SupplierName   string `validate:"required"`
	MainCategory   string `validate:"required"`
	SubCategory    string `validate:"required"`
	DatePurchased  string `validate:"required,datetime=2006-01-02"`
}

// Fields converts the form into the client's submission type.
func (f ProductForm) Fields() clients.ProductFields {
	return clients.ProductFields{
		Name:           f.Name,
		Description:    f.Description,
		Quantity:       f.Quantity,
		ProductCode:    f.ProductCode,
		SellingPrice:   f.SellingPrice,
		PurchasedPrice: f.PurchasedPrice,
		SupplierName:   f.SupplierName,
		MainCategory:   f.MainCategory,
		SubCategory:    f.SubCategory,
		DatePurchased:  f.DatePurchased,
	}
}

// ValidateCreate checks an add-product submission. Create requires an
// image, strictly positive prices, and a quantity that alone fits within
// the inventory capacity.
func (v *Validator) ValidateCreate(f ProductForm, hasImage bool) error {
	if err := v.validateCommon(f); err != nil {
		return err
	}
	if !hasImage {
		return apperrors.Validation("Please fill in all required fields including image.",
			map[string][]string{"image": {"An image is required."}})
	}
	if f.SellingPrice <= 0 || f.PurchasedPrice <= 0 {
		return apperrors.Validation("Prices must be greater than zero.", nil)
	}
	if f.Quantity > inventory.MaxCapacity {
		return apperrors.Capacity(fmt.Sprintf(
			"Cannot add product. Inventory max capacity is %d.", inventory.MaxCapacity))
	}
	return nil
}

// ValidateEdit checks an edit submission. The image is optional when the
// product already has one. totalExcludingSelf is the current stock total
// minus this product's stored quantity, fetched just before saving; the
// read-then-write gap is a known consistency limitation, not something
// this client can close.
func (v *Validator) ValidateEdit(f ProductForm, hasExistingImage, hasNewImage bool, totalExcludingSelf int) error {
	if err := v.validateCommon(f); err != nil {
		return err
	}
	if !hasExistingImage && !hasNewImage {
		return apperrors.Validation("Please fill in all required fields including image.",
			map[string][]string{"image": {"An image is required."}})
	}
	if f.SellingPrice < 0 || f.PurchasedPrice < 0 {
		return apperrors.Validation("Quantity and prices must not be negative.", nil)
	}
	if totalExcludingSelf+f.Quantity > inventory.MaxCapacity {
		return apperrors.Capacity(fmt.Sprintf(
			"Cannot save: Total inventory exceeds %d units.", inventory.MaxCapacity))
	}
	return nil
}

// validateCommon applies the rules shared by create and edit: required
// fields, non-negative quantity, and the category taxonomy.
func (v *Validator) validateCommon(f ProductForm) error {
	if err := v.wrap(v.validate.Struct(f)); err != nil {
		return err
	}
	if !models.ValidMainCategory(f.MainCategory) {
		return apperrors.Validation("Unknown main category.",
			map[string][]string{"main_category": {"Choose one of the listed categories."}})
	}
	if !models.ValidSubCategory(f.MainCategory, f.SubCategory) {
		return apperrors.Validation(
			fmt.Sprintf("Sub category %q does not belong to %s.", f.SubCategory, f.MainCategory),
			map[string][]string{"sub_category": {"Choose a sub category of the selected main category."}})
	}
	return nil
}
