// Package mockapi is a development stand-in for the external CanineRacks
// REST API. It implements every endpoint the console consumes so the
// client can be run and tested without the real backend. State is held
// in memory and lost on restart.
package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds the mock server's settings.
type Config struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() Config {
	return Config{
		JWTSecret:  "dev_secret_change_me",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// Server bundles the gin engine with the in-memory stores.
type Server struct {
	cfg    Config
	store  *Store
	engine *gin.Engine
}

// NewServer builds the server and registers all routes.
func NewServer(cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg = DefaultConfig()
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	s := &Server{
		cfg:   cfg,
		store: NewStore(),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/login/", s.login)
		user.POST("/register/", s.register)
		user.POST("/verify-code/", s.verifyCode)
		user.POST("/send-code/", rateLimit(), s.sendCode)
		user.POST("/reset-password/", s.resetPassword)
	}

	inv := api.Group("/inventory", s.requireAuth())
	{
		inv.GET("/products/", s.listProducts)
		inv.POST("/products/", s.createProduct)
		inv.GET("/products/:id/", s.getProduct)
		inv.PUT("/products/:id/", s.updateProduct)
		inv.PATCH("/products/:id/", s.patchProduct)
		inv.DELETE("/products/:id/", s.deleteProduct)
		inv.GET("/products/:id/history/", s.getHistory)
	}

	api.GET("/media/:id", s.serveImage)

	s.engine = r
	return s
}

// Store exposes the in-memory state for test setup and seeding.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the server as an http.Handler for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	zap.L().Info("Mock API listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}
