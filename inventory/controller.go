// Package inventory holds the dashboard's product state: the cached
// collection, pending quantity edits, filtering, derived totals, and the
// batch confirmation that reconciles local edits with the server.
package inventory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/models"
)

// MaxCapacity is the fixed maximum total unit count the inventory may hold.
const MaxCapacity = 2000

// API is the slice of the product client the controller needs.
type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	PatchQuantity(ctx context.Context, id string, quantity int) (models.Product, error)
}

// FailedUpdate records one product whose quantity update did not go
// through during a batch confirmation.
type FailedUpdate struct {
	ID  string
	Err error
}

// ConfirmResult reports the outcome of a batch confirmation per item, so
// partial failure is distinguishable from total failure.
type ConfirmResult struct {
	Updated []string
	Failed  []FailedUpdate
}

// AllSucceeded reports whether every pending edit was applied.
func (r ConfirmResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

// Controller owns the in-memory product collection and pending quantity
// edits. It has a single logical writer (the active view); the mutex only
// protects against a late-arriving load racing a user action.
type Controller struct {
	api API

	mu         sync.Mutex
	products   []models.Product
	pending    map[string]int
	generation uint64
	loaded     bool
}

// NewController creates an empty controller.
func NewController(api API) *Controller {
	return &Controller{
		api:     api,
		pending: make(map[string]int),
	}
}

// Load fetches the full product collection and replaces the local cache
// wholesale. Each call supersedes any still-inflight one: a response that
// arrives under a stale generation is discarded, so rapid re-loads can
// never clobber fresher data.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		zap.L().Debug("Discarding stale product load", zap.Uint64("generation", gen))
		return nil
	}
	c.products = products
	c.loaded = true
	return nil
}

// Loaded reports whether a collection has been fetched at least once.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Products returns a copy of the cached collection in server order.
func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product returns the cached product with the given id, if present.
func (c *Controller) Product(id string) (models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Filter returns the order-preserving subset of the cache matching a
// case-insensitive name substring AND, when set, exact main and sub
// category. Pure with respect to the cache.
func (c *Controller) Filter(query, mainCategory, subCategory string) []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := strings.ToLower(query)
	var out []models.Product
	for _, p := range c.products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if mainCategory != "" && p.MainCategory != mainCategory {
			continue
		}
		if subCategory != "" && p.SubCategory != subCategory {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SetPendingQuantity records a candidate replacement quantity for a
// product. Non-numeric or negative input is rejected as a no-op, matching
// the dashboard's inline editor. Returns whether the edit was recorded.
func (c *Controller) SetPendingQuantity(id, raw string) bool {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || quantity < 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.productLocked(id); !ok {
		return false
	}
	c.pending[id] = quantity
	return true
}

// PendingQuantity returns the pending edit for a product, if any.
func (c *Controller) PendingQuantity(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.pending[id]
	return q, ok
}

// PendingCount returns the number of unconfirmed edits.
func (c *Controller) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// DiscardPending drops all unconfirmed edits.
func (c *Controller) DiscardPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = make(map[string]int)
}

// TotalStock sums, over the whole cache, the pending quantity where one
// exists and the stored quantity otherwise.
func (c *Controller) TotalStock() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// ConfirmQuantities reconciles pending edits with the server. The
// capacity pre-check is all-or-nothing: if the projected total exceeds
// MaxCapacity no network call is issued and the pending map is unchanged.
// Otherwise one PATCH goes out per pending entry; entries that succeed
// are applied to the cache and removed from pending, entries that fail
// stay pending and are reported in the result. A full success finishes
// with a cache refresh. An unauthorized response aborts the remaining
// batch (the session is already gone).
func (c *Controller) ConfirmQuantities(ctx context.Context) (ConfirmResult, error) {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return ConfirmResult{}, nil
	}
	if total := c.totalLocked(); total > MaxCapacity {
		c.mu.Unlock()
		return ConfirmResult{}, apperrors.Capacity(
			"Total stock exceeds max capacity of " + strconv.Itoa(MaxCapacity) + ". Please adjust quantities.")
	}

	// Deterministic order keeps logs and partial-failure reports stable.
	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	edits := make(map[string]int, len(c.pending))
	for id, q := range c.pending {
		edits[id] = q
	}
	c.mu.Unlock()

	var result ConfirmResult
	for _, id := range ids {
		updated, err := c.api.PatchQuantity(ctx, id, edits[id])
		if err != nil {
			result.Failed = append(result.Failed, FailedUpdate{ID: id, Err: err})
			zap.L().Warn("Quantity update failed",
				zap.String("product_id", id),
				zap.Int("quantity", edits[id]),
				zap.Error(err),
			)
			if apperrors.Is(err, apperrors.KindAuthorization) {
				c.clearConfirmed(result.Updated, edits)
				return result, err
			}
			continue
		}
		result.Updated = append(result.Updated, updated.ID)
	}

	c.clearConfirmed(result.Updated, edits)

	if result.AllSucceeded() {
		if err := c.Load(ctx); err != nil {
			// The updates themselves landed; a failed refresh only leaves
			// the cache one step behind.
			zap.L().Warn("Cache refresh after confirm failed", zap.Error(err))
		}
	}
	return result, nil
}

// clearConfirmed applies succeeded edits to the cache and removes them
// from pending; failed ids remain pending for a retry.
func (c *Controller) clearConfirmed(updated []string, edits map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range updated {
		for i := range c.products {
			if c.products[i].ID == id {
				c.products[i].Quantity = edits[id]
			}
		}
		delete(c.pending, id)
	}
}

func (c *Controller) totalLocked() int {
	total := 0
	for _, p := range c.products {
		if q, ok := c.pending[p.ID]; ok {
			total += q
		} else {
			total += p.Quantity
		}
	}
	return total
}

func (c *Controller) productLocked(id string) (models.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
