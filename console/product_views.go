package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/clients"
	"github.com/canineracks/inventory-console/forms"
	"github.com/canineracks/inventory-console/models"
)

// productDetailView shows one product with its transaction history.
// Returns true to quit the application.
func (a *App) productDetailView(ctx context.Context, id string) bool {
	product, err := a.api.GetProduct(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			// Distinct not-found state with back navigation, no crash.
			fmt.Fprintln(a.out, "Product not found. It may have been deleted.")
			return false
		}
		a.showError(err)
		return false
	}

	history, err := a.api.GetHistory(ctx, id)
	if err != nil && !apperrors.Is(err, apperrors.KindAuthorization) {
		a.showError(err)
	}

	for {
		if a.loggedOut.Load() {
			return false
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Product Details")
		fmt.Fprintln(a.out, "  Name:           ", product.Name)
		fmt.Fprintln(a.out, "  Description:    ", product.Description)
		fmt.Fprintln(a.out, "  Quantity:       ", product.Quantity)
		fmt.Fprintln(a.out, "  Product Code:   ", product.ProductCode)
		fmt.Fprintf(a.out, "  Selling Price:   ₱%.2f\n", product.SellingPrice)
		fmt.Fprintf(a.out, "  Purchased Price: ₱%.2f\n", product.PurchasedPrice)
		fmt.Fprintln(a.out, "  Supplier:       ", product.SupplierName)
		fmt.Fprintln(a.out, "  Category:       ", product.MainCategory, "/", product.SubCategory)
		if product.Image != "" {
			fmt.Fprintln(a.out, "  Image:          ", product.Image)
		}

		fmt.Fprintln(a.out, "Transaction History")
		if len(history) == 0 {
			fmt.Fprintln(a.out, "  No history yet.")
		} else {
			w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  Type\tQty\tTimestamp")
			for _, entry := range history {
				fmt.Fprintf(w, "  %s\t%+d\t%s\n",
					entry.Action, entry.QuantityChanged, entry.Timestamp.Local().Format("2006-01-02 15:04"))
			}
			_ = w.Flush()
		}

		fmt.Fprintln(a.out, "[e]dit  [d]elete  [b]ack")
		choice, ok := a.prompt("Select")
		if !ok {
			return true
		}

		switch choice {
		case "e":
			if quit := a.editProductView(ctx, product); quit {
				return true
			}
			if a.loggedOut.Load() {
				return false
			}
			if refreshed, err := a.api.GetProduct(ctx, id); err == nil {
				product = refreshed
			}
			if refreshed, err := a.api.GetHistory(ctx, id); err == nil {
				history = refreshed
			}
		case "d":
			confirm, ok := a.prompt("Delete this product? [y/N]")
			if !ok {
				return true
			}
			if !strings.EqualFold(confirm, "y") {
				continue
			}
			if err := a.api.DeleteProduct(ctx, id); err != nil {
				a.showError(err)
				continue
			}
			a.toasts.Success("Product deleted successfully.")
			return false
		case "b", "B":
			return false
		}
	}
}

// addProductView prompts the full create form. Returns true to quit.
func (a *App) addProductView(ctx context.Context) bool {
	form, image, quit := a.productFormPrompt(clients.ProductFields{}, true)
	if quit {
		return true
	}
	if form == nil {
		return false
	}

	if err := a.forms.ValidateCreate(*form, image != nil); err != nil {
		a.showError(err)
		return false
	}

	if _, err := a.api.CreateProduct(ctx, form.Fields(), image); err != nil {
		a.showError(err)
		return false
	}
	a.toasts.Success("Product added successfully!")
	return false
}

// editProductView prompts the edit form pre-filled with current values.
// The capacity check re-fetches the collection just before saving; two
// concurrent edits can both pass it (known read-then-write gap).
func (a *App) editProductView(ctx context.Context, product models.Product) bool {
	current := clients.ProductFields{
		Name:           product.Name,
		Description:    product.Description,
		Quantity:       product.Quantity,
		ProductCode:    product.ProductCode,
		SellingPrice:   product.SellingPrice,
		PurchasedPrice: product.PurchasedPrice,
		SupplierName:   product.SupplierName,
		MainCategory:   product.MainCategory,
		SubCategory:    product.SubCategory,
		DatePurchased:  product.DatePurchased,
	}

	form, image, quit := a.productFormPrompt(current, false)
	if quit {
		return true
	}
	if form == nil {
		return false
	}

	all, err := a.api.ListProducts(ctx)
	if err != nil {
		a.toasts.Error("Failed to validate stock capacity.")
		return false
	}
	totalExcludingSelf := 0
	for _, p := range all {
		if p.ID != product.ID {
			totalExcludingSelf += p.Quantity
		}
	}

	if err := a.forms.ValidateEdit(*form, product.Image != "", image != nil, totalExcludingSelf); err != nil {
		a.showError(err)
		return false
	}

	if _, err := a.api.UpdateProduct(ctx, product.ID, form.Fields(), image); err != nil {
		a.showError(err)
		return false
	}
	a.toasts.Success("Product updated successfully!")
	return false
}

// productFormPrompt collects every product field. In create mode the
// prompts start empty; in edit mode they default to current values.
// Returns a nil form when input could not be parsed, and quit on EOF.
func (a *App) productFormPrompt(current clients.ProductFields, create bool) (*forms.ProductForm, *clients.ImageFile, bool) {
	ask := func(label, def string) (string, bool) {
		if create {
			return a.prompt(label)
		}
		return a.promptDefault(label, def)
	}

	name, ok := ask("Name", current.Name)
	if !ok {
		return nil, nil, true
	}
	description, ok := ask("Description", current.Description)
	if !ok {
		return nil, nil, true
	}
	quantityRaw, ok := ask("Quantity", strconv.Itoa(current.Quantity))
	if !ok {
		return nil, nil, true
	}
	code, ok := ask("Product code", current.ProductCode)
	if !ok {
		return nil, nil, true
	}
	sellingRaw, ok := ask("Selling price", fmt.Sprintf("%.2f", current.SellingPrice))
	if !ok {
		return nil, nil, true
	}
	purchasedRaw, ok := ask("Purchased price", fmt.Sprintf("%.2f", current.PurchasedPrice))
	if !ok {
		return nil, nil, true
	}
	supplier, ok := ask("Supplier", current.SupplierName)
	if !ok {
		return nil, nil, true
	}

	fmt.Fprintln(a.out, "Main categories:", strings.Join(models.MainCategories(), ", "))
	main, ok := ask("Main category", current.MainCategory)
	if !ok {
		return nil, nil, true
	}
	// Changing the main category clears the previous sub category; the
	// choices shown always come from the newly selected main.
	subDefault := current.SubCategory
	if main != current.MainCategory {
		subDefault = ""
	}
	if subs := models.SubCategories(main); subs != nil {
		fmt.Fprintln(a.out, "Sub categories:", strings.Join(subs, ", "))
	}
	sub, ok := ask("Sub category", subDefault)
	if !ok {
		return nil, nil, true
	}

	date, ok := ask("Date purchased (YYYY-MM-DD)", current.DatePurchased)
	if !ok {
		return nil, nil, true
	}

	imageLabel := "Image file path"
	if !create {
		imageLabel = "New image file path (empty keeps current)"
	}
	imagePath, ok := a.prompt(imageLabel)
	if !ok {
		return nil, nil, true
	}
	var image *clients.ImageFile
	if imagePath != "" {
		content, err := os.ReadFile(imagePath)
		if err != nil {
			a.toasts.Error("Could not read image file: " + err.Error())
			return nil, nil, false
		}
		image = &clients.ImageFile{Filename: filepath.Base(imagePath), Content: content}
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(quantityRaw))
	if err != nil {
		a.toasts.Error("Quantity must be a whole number.")
		return nil, nil, false
	}
	selling, err := strconv.ParseFloat(strings.TrimSpace(sellingRaw), 64)
	if err != nil {
		a.toasts.Error("Selling price must be a number.")
		return nil, nil, false
	}
	purchased, err := strconv.ParseFloat(strings.TrimSpace(purchasedRaw), 64)
	if err != nil {
		a.toasts.Error("Purchased price must be a number.")
		return nil, nil, false
	}

	return &forms.ProductForm{
		Name:           name,
		Description:    description,
		Quantity:       quantity,
		ProductCode:    code,
		SellingPrice:   selling,
		PurchasedPrice: purchased,
		SupplierName:   supplier,
		MainCategory:   main,
		SubCategory:    sub,
		DatePurchased:  date,
	}, image, false
}
