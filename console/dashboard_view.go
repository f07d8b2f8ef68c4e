package console

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/inventory"
	"github.com/canineracks/inventory-console/models"
)

// dashboardView is the protected inventory table with search, category
// filters, inline quantity edits, and batch confirmation. Returns false
// to quit the application.
func (a *App) dashboardView(ctx context.Context) bool {
	if err := a.inv.Load(ctx); err != nil {
		if apperrors.Is(err, apperrors.KindAuthorization) {
			// Session already cleared; the run loop redirects to login.
			return true
		}
		// Error state: the view stays interactive, [r] retries.
		a.showError(err)
	}

	var query, mainCat, subCat string

	for {
		if a.loggedOut.Load() {
			return true
		}

		visible := a.inv.Filter(query, mainCat, subCat)
		a.renderTable(visible)
		fmt.Fprintf(a.out, "Total Stocks: %d / %d", a.inv.TotalStock(), inventory.MaxCapacity)
		if n := a.inv.PendingCount(); n > 0 {
			fmt.Fprintf(a.out, "  (%d unconfirmed edit(s))", n)
		}
		fmt.Fprintln(a.out)

		fmt.Fprintln(a.out, "[s]earch  [f]ilter  [e]dit qty  [k] confirm  [a]dd  [v]iew  [r]efresh  [l]ogout  [q]uit")
		choice, ok := a.prompt("Select")
		if !ok {
			return false
		}

		switch choice {
		case "s":
			if query, ok = a.prompt("Search by name (empty clears)"); !ok {
				return false
			}
		case "f":
			mainCat, subCat, ok = a.categoryFilterPrompt()
			if !ok {
				return false
			}
		case "e":
			if !a.editQuantityPrompt(visible) {
				return false
			}
		case "k":
			a.confirmQuantities(ctx)
			if a.loggedOut.Load() {
				return true
			}
		case "a":
			if quit := a.addProductView(ctx); quit {
				return false
			}
			if a.loggedOut.Load() {
				return true
			}
			if err := a.inv.Load(ctx); err != nil {
				a.showError(err)
			}
		case "v":
			if quit := a.viewProductPrompt(ctx, visible); quit {
				return false
			}
			if a.loggedOut.Load() {
				return true
			}
			if err := a.inv.Load(ctx); err != nil {
				a.showError(err)
			}
		case "r":
			if err := a.inv.Load(ctx); err != nil {
				a.showError(err)
			}
		case "l":
			if err := a.api.Logout(); err != nil {
				zap.L().Warn("Failed to clear session", zap.Error(err))
			}
			return true
		case "q", "Q":
			return false
		}
	}
}

// renderTable prints the filtered products with their pending quantities
// where edits exist.
func (a *App) renderTable(products []models.Product) {
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tName\tQty\tCode\tSelling\tPurchased\tGain\tSupplier")
	for i, p := range products {
		qty := fmt.Sprintf("%d", p.Quantity)
		if pending, ok := a.inv.PendingQuantity(p.ID); ok {
			qty = fmt.Sprintf("%d*", pending)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t₱%.2f\t₱%.2f\t₱%.2f\t%s\n",
			i+1, p.Name, qty, p.ProductCode, p.SellingPrice, p.PurchasedPrice, p.Gain(), p.SupplierName)
	}
	_ = w.Flush()
}

// categoryFilterPrompt runs the two-stage category selection. Choosing a
// main category clears and constrains the sub category choices.
func (a *App) categoryFilterPrompt() (string, string, bool) {
	mains := models.MainCategories()
	fmt.Fprintln(a.out, "Main categories:", strings.Join(mains, ", "), "(empty clears)")
	main, ok := a.prompt("Main category")
	if !ok {
		return "", "", false
	}
	if main == "" {
		return "", "", true
	}
	if !models.ValidMainCategory(main) {
		a.toasts.Error("Unknown main category.")
		return "", "", true
	}

	subs := models.SubCategories(main)
	fmt.Fprintln(a.out, "Sub categories:", strings.Join(subs, ", "), "(empty for all)")
	sub, ok := a.prompt("Sub category")
	if !ok {
		return "", "", false
	}
	if sub != "" && !models.ValidSubCategory(main, sub) {
		a.toasts.Error("Sub category does not belong to " + main + ".")
		return main, "", true
	}
	return main, sub, true
}

// editQuantityPrompt records one pending quantity edit against the
// currently visible rows.
func (a *App) editQuantityPrompt(visible []models.Product) bool {
	row, ok := a.prompt("Row #")
	if !ok {
		return false
	}
	idx, found := rowIndex(row, len(visible))
	if !found {
		a.toasts.Error("No such row.")
		return true
	}

	raw, ok := a.prompt("New quantity")
	if !ok {
		return false
	}
	if !a.inv.SetPendingQuantity(visible[idx].ID, raw) {
		// Non-numeric input is a silent no-op in the web client; here a
		// notice makes the rejection visible.
		a.toasts.Error("Quantity must be a non-negative whole number.")
	}
	return true
}

// confirmQuantities runs the batch update and reports per-item results.
func (a *App) confirmQuantities(ctx context.Context) {
	if a.inv.PendingCount() == 0 {
		fmt.Fprintln(a.out, "No pending quantity changes.")
		return
	}

	result, err := a.inv.ConfirmQuantities(ctx)
	if err != nil {
		a.showError(err)
		return
	}
	if result.AllSucceeded() {
		a.toasts.Success("Quantities updated successfully.")
		return
	}

	a.toasts.Error(fmt.Sprintf("%d update(s) failed; they remain pending.", len(result.Failed)))
	for _, f := range result.Failed {
		fmt.Fprintf(a.out, "  - %s: %v\n", f.ID, f.Err)
	}
	if len(result.Updated) > 0 {
		fmt.Fprintf(a.out, "%d update(s) went through.\n", len(result.Updated))
	}
}

// viewProductPrompt opens the detail view for a visible row.
func (a *App) viewProductPrompt(ctx context.Context, visible []models.Product) bool {
	row, ok := a.prompt("Row #")
	if !ok {
		return true
	}
	idx, found := rowIndex(row, len(visible))
	if !found {
		a.toasts.Error("No such row.")
		return false
	}
	return a.productDetailView(ctx, visible[idx].ID)
}

func rowIndex(raw string, max int) (int, bool) {
	var idx int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &idx); err != nil {
		return 0, false
	}
	if idx < 1 || idx > max {
		return 0, false
	}
	return idx - 1, true
}
