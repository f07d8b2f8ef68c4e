package mockapi

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/canineracks/inventory-console/session"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateCode produces the 5-letter uppercase verification code the web
// client expects.
func generateCode() string {
	code := make([]byte, 5)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			code[i] = 'A'
			continue
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type codeRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required,oneof=register reset"`
}

type verifyRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Code    string `json:"code" binding:"required"`
	Purpose string `json:"purpose" binding:"required,oneof=register reset"`
}

type resetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
	Purpose     string `json:"purpose" binding:"required,oneof=reset"`
}

// login verifies credentials and issues an access/refresh token pair.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}

	user, ok := s.store.UserByEmail(req.Email)
	if !ok || !user.Verified {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password."})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password."})
		return
	}

	access, err := s.issueToken(user, "access", s.cfg.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token."})
		return
	}
	refresh, err := s.issueToken(user, "refresh", s.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate token."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
		"user":    gin.H{"role": user.Role},
	})
}

// register creates an unverified account and issues a verification code.
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body."})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"password": []string{"Password must be at least 8 characters."}})
		return
	}
	if _, exists := s.store.UserByEmail(req.Email); exists {
		c.JSON(http.StatusBadRequest, gin.H{"email": []string{"A user with this email already exists."}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account."})
		return
	}

	s.store.AddUser(User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         session.RoleInventoryManager,
		Verified:     false,
	})
	s.stashCode(req.Email, "register")

	c.JSON(http.StatusOK, gin.H{"message": "Registered. Check your email for a verification code."})
}

// sendCode issues a fresh verification code for an existing account.
func (s *Server) sendCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if _, ok := s.store.UserByEmail(req.Email); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No account with that email."})
		return
	}

	s.stashCode(req.Email, req.Purpose)
	c.JSON(http.StatusOK, gin.H{"message": "Code sent to " + req.Email})
}

// verifyCode checks the emailed code. For registration it also marks the
// account verified.
func (s *Server) verifyCode(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	code, ok := s.store.CodeFor(req.Email, req.Purpose)
	if !ok || code != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code."})
		return
	}

	if req.Purpose == "register" {
		s.store.mu.Lock()
		if u, exists := s.store.users[req.Email]; exists {
			u.Verified = true
		}
		delete(s.store.codes, req.Email+"|register")
		s.store.mu.Unlock()
	}
	// Reset codes stay stashed until reset-password consumes them.

	c.JSON(http.StatusOK, gin.H{"message": "Verified."})
}

// resetPassword sets a new password using a still-valid reset code.
func (s *Server) resetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	code, ok := s.store.CodeFor(req.Email, "reset")
	if !ok || code != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password."})
		return
	}

	s.store.mu.Lock()
	if u, exists := s.store.users[req.Email]; exists {
		u.PasswordHash = string(hash)
	}
	delete(s.store.codes, req.Email+"|reset")
	s.store.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Password reset."})
}

// stashCode generates and stores a code, logging it in place of email
// delivery.
func (s *Server) stashCode(email, purpose string) {
	code := generateCode()
	s.store.mu.Lock()
	s.store.codes[email+"|"+purpose] = code
	s.store.mu.Unlock()

	zap.L().Info("Verification code issued",
		zap.String("email", email),
		zap.String("purpose", purpose),
		zap.String("code", code),
	)
}

// issueToken creates a signed HS256 token for the user.
func (s *Server) issueToken(user User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.Email,
		"email": user.Email,
		"role":  user.Role,
		"typ":   tokenType,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
