package mockapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canineracks/inventory-console/session"
)

func TestSendCodeRateLimit(t *testing.T) {
	server := NewServer(DefaultConfig())
	server.Store().AddUser(User{
		Email:        "manager@canineracks.test",
		PasswordHash: "irrelevant",
		Role:         session.RoleInventoryManager,
		Verified:     true,
	})
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	send := func() int {
		resp, err := http.Post(srv.URL+"/api/user/send-code/", "application/json",
			strings.NewReader(`{"email": "manager@canineracks.test", "purpose": "reset"}`))
		assert.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	// The burst allows a few quick sends, then the limiter kicks in.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send())
	}
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := generateCode()
		assert.Len(t, code, 5)
		assert.Equal(t, strings.ToUpper(code), code)
		for _, r := range code {
			assert.True(t, r >= 'A' && r <= 'Z')
		}
		seen[code] = true
	}
	// 50 draws from 26^5 possibilities should not all collide.
	assert.Greater(t, len(seen), 1)
}
