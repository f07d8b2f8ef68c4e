package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/canineracks/inventory-console/logger"
	"github.com/canineracks/inventory-console/mockapi"
	"github.com/canineracks/inventory-console/models"
	"github.com/canineracks/inventory-console/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger.Initialize(getEnv("APP_ENV", "development"))
	defer logger.Sync()

	cfg := mockapi.DefaultConfig()
	if secret := os.Getenv("MOCKAPI_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}

	server := mockapi.NewServer(cfg)
	seed(server)

	addr := ":" + getEnv("MOCKAPI_PORT", "8000")
	if err := server.Run(addr); err != nil {
		log.Fatalf("Mock API failed: %v", err)
	}
}

// seed provides a ready-to-use manager account and a few products so the
// console has something to show on first run.
func seed(server *mockapi.Server) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	server.Store().AddUser(mockapi.User{
		Email:        "manager@canineracks.test",
		PasswordHash: string(hash),
		Role:         session.RoleInventoryManager,
		Verified:     true,
	})

	server.Store().AddProduct(models.Product{
		Name:           "Premium Kibble 5kg",
		Description:    "Chicken and rice dry food for adult dogs",
		Quantity:       120,
		ProductCode:    "FD-0001",
		SellingPrice:   899.00,
		PurchasedPrice: 650.00,
		SupplierName:   "Happy Paws Trading",
		MainCategory:   "Food",
		SubCategory:    "Dry",
		DatePurchased:  "2025-11-02",
	})
	server.Store().AddProduct(models.Product{
		Name:           "Dental Chew Sticks",
		Description:    "Plaque control chews, pack of 12",
		Quantity:       80,
		ProductCode:    "TR-0014",
		SellingPrice:   249.00,
		PurchasedPrice: 150.00,
		SupplierName:   "VetCare Supplies",
		MainCategory:   "Treat",
		SubCategory:    "Dental",
		DatePurchased:  "2025-11-10",
	})
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
