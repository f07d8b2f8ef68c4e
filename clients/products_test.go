package clients

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canineracks/inventory-console/session"
)

func testFields() ProductFields {
	return ProductFields{
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

func TestCreateProductMultipart(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/inventory/products/", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Premium Kibble 5kg", r.FormValue("name"))
		assert.Equal(t, "25", r.FormValue("quantity"))
		assert.Equal(t, "1299.50", r.FormValue("selling_price"))
		assert.Equal(t, "900.00", r.FormValue("purchased_price"))
		assert.Equal(t, "Food", r.FormValue("main_category"))
		assert.Equal(t, "Dry", r.FormValue("sub_category"))
		assert.Equal(t, "2026-08-01", r.FormValue("date_purchased"))

		file, header, err := r.FormFile("image")
		assert.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "kibble.png", header.Filename)
		content, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, []byte("fake-png-bytes"), content)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "new-id", "name": "Premium Kibble 5kg", "quantity": 25}`))
	}))
	assert.NoError(t, store.Save(session.Session{AccessToken: "tok"}))

	product, err := client.CreateProduct(context.Background(), testFields(), &ImageFile{
		Filename: "kibble.png",
		Content:  []byte("fake-png-bytes"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "new-id", product.ID)
}

func TestUpdateProductWithoutImage(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/inventory/products/p1/", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))

		// No image part: the server keeps the existing one.
		_, _, err := r.FormFile("image")
		assert.Error(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "p1", "name": "Premium Kibble 5kg"}`))
	}))
	assert.NoError(t, store.Save(session.Session{AccessToken: "tok"}))

	product, err := client.UpdateProduct(context.Background(), "p1", testFields(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
}

func TestGetHistory(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inventory/products/p1/history/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "h2", "action": "quantity_changed", "quantity_changed": -5, "timestamp": "2026-08-02T10:00:00Z"},
			{"id": "h1", "action": "created", "quantity_changed": 25, "timestamp": "2026-08-01T09:00:00Z"}
		]`))
	}))
	assert.NoError(t, store.Save(session.Session{AccessToken: "tok"}))

	entries, err := client.GetHistory(context.Background(), "p1")

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "quantity_changed", entries[0].Action)
	assert.Equal(t, -5, entries[0].QuantityChanged)
}
