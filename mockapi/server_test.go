package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/clients"
	"github.com/canineracks/inventory-console/models"
	"github.com/canineracks/inventory-console/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestSetup starts the mock server and wires a real API client at it,
// the same stack the console runs against.
func newTestSetup(t *testing.T) (*Server, *clients.Client, *session.Store) {
	t.Helper()

	server := NewServer(DefaultConfig())
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	client := clients.New(srv.URL+"/api", 5*time.Second, store)
	return server, client, store
}

func seedManager(t *testing.T, server *Server, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	server.Store().AddUser(User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         session.RoleInventoryManager,
		Verified:     true,
	})
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	server, client, store := newTestSetup(t)
	ctx := context.Background()

	// Register creates an unverified account.
	assert.NoError(t, client.Register(ctx, "new@canineracks.test", "password123"))
	user, ok := server.Store().UserByEmail("new@canineracks.test")
	assert.True(t, ok)
	assert.False(t, user.Verified)

	// Login before verification is rejected.
	_, err := client.Login(ctx, "new@canineracks.test", "password123")
	assert.Error(t, err)

	// The emailed code verifies the account.
	code, ok := server.Store().CodeFor("new@canineracks.test", "register")
	assert.True(t, ok)
	assert.Len(t, code, 5)
	assert.Equal(t, strings.ToUpper(code), code)
	assert.NoError(t, client.VerifyCode(ctx, "new@canineracks.test", code, clients.PurposeRegister))

	// A wrong code is rejected with a field-free validation error.
	err = client.VerifyCode(ctx, "new@canineracks.test", "WRONG", clients.PurposeRegister)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	// Login now succeeds and the session lands in the store.
	sess, err := client.Login(ctx, "new@canineracks.test", "password123")
	assert.NoError(t, err)
	assert.Equal(t, session.RoleInventoryManager, sess.Role)

	stored, state := store.Load()
	assert.Equal(t, session.StatePresent, state)
	assert.NotEmpty(t, stored.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server, client, _ := newTestSetup(t)
	seedManager(t, server, "manager@canineracks.test", "password123")

	_, err := client.Login(context.Background(), "manager@canineracks.test", "wrongpass")

	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.EqualError(t, err, "Invalid email or password.")
}

func TestPasswordResetFlow(t *testing.T) {
	server, client, _ := newTestSetup(t)
	seedManager(t, server, "manager@canineracks.test", "oldpassword1")
	ctx := context.Background()

	msg, err := client.SendCode(ctx, "manager@canineracks.test", clients.PurposeReset)
	assert.NoError(t, err)
	assert.Equal(t, "Code sent to manager@canineracks.test", msg)

	code, ok := server.Store().CodeFor("manager@canineracks.test", "reset")
	assert.True(t, ok)

	// Verify leaves reset codes in place for the reset call itself.
	assert.NoError(t, client.VerifyCode(ctx, "manager@canineracks.test", code, clients.PurposeReset))
	assert.NoError(t, client.ResetPassword(ctx, "manager@canineracks.test", code, "newpassword1"))

	// Old password is dead, new one works.
	_, err = client.Login(ctx, "manager@canineracks.test", "oldpassword1")
	assert.Error(t, err)
	_, err = client.Login(ctx, "manager@canineracks.test", "newpassword1")
	assert.NoError(t, err)

	// The consumed code cannot be replayed.
	err = client.ResetPassword(ctx, "manager@canineracks.test", code, "anotherpass1")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestSendCodeUnknownEmail(t *testing.T) {
	_, client, _ := newTestSetup(t)

	_, err := client.SendCode(context.Background(), "ghost@canineracks.test", clients.PurposeReset)

	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.EqualError(t, err, "No account with that email.")
}

func TestProductLifecycle(t *testing.T) {
	server, client, store := newTestSetup(t)
	seedManager(t, server, "manager@canineracks.test", "password123")
	ctx := context.Background()

	_, err := client.Login(ctx, "manager@canineracks.test", "password123")
	assert.NoError(t, err)

	fields := clients.ProductFields{
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
	image := &clients.ImageFile{Filename: "kibble.png", Content: []byte("fake-png-bytes")}

	// Create.
	created, err := client.CreateProduct(ctx, fields, image)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 25, created.Quantity)
	assert.Equal(t, "/api/media/"+created.ID, created.Image)

	// List and get.
	list, err := client.ListProducts(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := client.GetProduct(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.InDelta(t, 1299.5, got.SellingPrice, 0.001)

	// Patch quantity.
	patched, err := client.PatchQuantity(ctx, created.ID, 40)
	assert.NoError(t, err)
	assert.Equal(t, 40, patched.Quantity)

	// Update without a new image keeps the stored one.
	fields.Name = "Premium Kibble 10kg"
	updated, err := client.UpdateProduct(ctx, created.ID, fields, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Premium Kibble 10kg", updated.Name)
	assert.Equal(t, created.Image, updated.Image)

	// History is newest first: update, quantity change, create.
	history, err := client.GetHistory(ctx, created.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, models.HistoryActionUpdated, history[0].Action)
	assert.Equal(t, models.HistoryActionQuantityChanged, history[1].Action)
	assert.Equal(t, 15, history[1].QuantityChanged)
	assert.Equal(t, models.HistoryActionCreated, history[2].Action)
	assert.Equal(t, 25, history[2].QuantityChanged)

	// Delete, then the product is gone.
	assert.NoError(t, client.DeleteProduct(ctx, created.ID))
	_, err = client.GetProduct(ctx, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.EqualError(t, err, "Not found.")

	// The session survived the whole lifecycle.
	_, state := store.Load()
	assert.Equal(t, session.StatePresent, state)
}

func TestCreateProductValidation(t *testing.T) {
	server, client, _ := newTestSetup(t)
	seedManager(t, server, "manager@canineracks.test", "password123")
	ctx := context.Background()

	_, err := client.Login(ctx, "manager@canineracks.test", "password123")
	assert.NoError(t, err)

	t.Run("Missing Image", func(t *testing.T) {
		_, err := client.CreateProduct(ctx, clients.ProductFields{
			Name: "X", Description: "Y", ProductCode: "Z", SupplierName: "S",
			MainCategory: "Food", SubCategory: "Dry", DatePurchased: "2026-08-01",
			Quantity: 1, SellingPrice: 2, PurchasedPrice: 1,
		}, nil)

		assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "image")
	})

	t.Run("Mismatched Categories", func(t *testing.T) {
		_, err := client.CreateProduct(ctx, clients.ProductFields{
			Name: "X", Description: "Y", ProductCode: "Z", SupplierName: "S",
			MainCategory: "Food", SubCategory: "Dental", DatePurchased: "2026-08-01",
			Quantity: 1, SellingPrice: 2, PurchasedPrice: 1,
		}, &clients.ImageFile{Filename: "x.png", Content: []byte("img")})

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "sub_category")
	})
}

func TestInventoryRequiresAccessToken(t *testing.T) {
	server := NewServer(DefaultConfig())
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	t.Run("Missing Token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/inventory/products/")
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/inventory/products/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Refresh Token Is Not An Access Token", func(t *testing.T) {
		refresh, err := server.issueToken(User{
			Email: "manager@canineracks.test",
			Role:  session.RoleInventoryManager,
		}, "refresh", time.Hour)
		assert.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/inventory/products/", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		resp, err := http.DefaultClient.Do(req)
		assert.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
