package mockapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/canineracks/inventory-console/models"
)

// User is an account record in the mock store.
type User struct {
	Email        string
	PasswordHash string
	Role         string
	Verified     bool
}

type storedProduct struct {
	product   models.Product
	imageData []byte
	imageType string
}

// Store holds all mock state behind one mutex. Insertion order of
// products is preserved so list responses are stable.
type Store struct {
	mu       sync.Mutex
	users    map[string]*User
	codes    map[string]string // email|purpose -> code
	products map[string]*storedProduct
	order    []string
	history  map[string][]models.TransactionHistoryEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*User),
		codes:    make(map[string]string),
		products: make(map[string]*storedProduct),
		history:  make(map[string][]models.TransactionHistoryEntry),
	}
}

// AddUser inserts a ready-made account. Test and seeding helper.
func (st *Store) AddUser(u User) {
	st.mu.Lock()
	defer st.mu.Unlock()
	copied := u
	st.users[u.Email] = &copied
}

// UserByEmail returns a copy of the stored user, if any.
func (st *Store) UserByEmail(email string) (User, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	u, ok := st.users[email]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// CodeFor returns the last generated verification code for an email and
// purpose. Test helper: the real API delivers codes by email.
func (st *Store) CodeFor(email, purpose string) (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	code, ok := st.codes[email+"|"+purpose]
	return code, ok
}

// AddProduct inserts a product directly, assigning an id when empty.
// Test and seeding helper.
func (st *Store) AddProduct(p models.Product) models.Product {
	st.mu.Lock()
	defer st.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	st.products[p.ID] = &storedProduct{product: p}
	st.order = append(st.order, p.ID)
	return p
}

// ProductByID returns a copy of a stored product.
func (st *Store) ProductByID(id string) (models.Product, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sp, ok := st.products[id]
	if !ok {
		return models.Product{}, false
	}
	return sp.product, true
}

func (st *Store) listProducts() []models.Product {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]models.Product, 0, len(st.order))
	for _, id := range st.order {
		if sp, ok := st.products[id]; ok {
			out = append(out, sp.product)
		}
	}
	return out
}

func (st *Store) removeProduct(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.products[id]; !ok {
		return false
	}
	delete(st.products, id)
	delete(st.history, id)
	for i, pid := range st.order {
		if pid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return true
}

func (st *Store) recordHistory(productID, action string, quantityChanged int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	entry := models.TransactionHistoryEntry{
		ID:              uuid.NewString(),
		Action:          action,
		QuantityChanged: quantityChanged,
		Timestamp:       time.Now().UTC(),
	}
	// Newest first, matching the detail view's expectation.
	st.history[productID] = append([]models.TransactionHistoryEntry{entry}, st.history[productID]...)
}

func (st *Store) historyFor(productID string) []models.TransactionHistoryEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	entries := st.history[productID]
	out := make([]models.TransactionHistoryEntry, len(entries))
	copy(out, entries)
	return out
}
