package clients

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/session"
)

// Verification code purposes accepted by the API.
const (
	PurposeRegister = "register"
	PurposeReset    = "reset"
)

type loginUser struct {
	Role string `json:"role"`
}

type loginResponse struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    loginUser `json:"user"`
}

// Login authenticates against the API and persists the resulting session
// (tokens and role) to durable storage on success.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return session.Session{}, apperrors.Network("Failed to build request", err)
	}

	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/user/login/", body, "application/json", false, &res); err != nil {
		return session.Session{}, err
	}

	if res.Access == "" || res.Refresh == "" {
		return session.Session{}, apperrors.Server("Invalid login response format.", nil)
	}

	sess := session.Session{
		AccessToken:  res.Access,
		RefreshToken: res.Refresh,
		Role:         res.User.Role,
	}
	if err := c.sessions.Save(sess); err != nil {
		return session.Session{}, apperrors.Server("Failed to persist session.", err)
	}

	zap.L().Info("Logged in", zap.String("role", sess.Role))
	return sess, nil
}

// Register creates an account. The API follows up with a verification
// code sent by email.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return apperrors.Network("Failed to build request", err)
	}
	return c.do(ctx, http.MethodPost, "/user/register/", body, "application/json", false, nil)
}

// VerifyCode confirms the emailed code for the given purpose
// (register or reset).
func (c *Client) VerifyCode(ctx context.Context, email, code, purpose string) error {
	body, err := jsonBody(map[string]string{"email": email, "code": code, "purpose": purpose})
	if err != nil {
		return apperrors.Network("Failed to build request", err)
	}
	return c.do(ctx, http.MethodPost, "/user/verify-code/", body, "application/json", false, nil)
}

// SendCode asks the API to email a fresh verification code. Returns the
// server's confirmation message when present.
func (c *Client) SendCode(ctx context.Context, email, purpose string) (string, error) {
	body, err := jsonBody(map[string]string{"email": email, "purpose": purpose})
	if err != nil {
		return "", apperrors.Network("Failed to build request", err)
	}

	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/send-code/", body, "application/json", false, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// ResetPassword sets a new password using a previously verified code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body, err := jsonBody(map[string]string{
		"email":        email,
		"code":         code,
		"new_password": newPassword,
		"purpose":      PurposeReset,
	})
	if err != nil {
		return apperrors.Network("Failed to build request", err)
	}
	return c.do(ctx, http.MethodPost, "/user/reset-password/", body, "application/json", false, nil)
}

// Logout clears the durable session. Purely local; the API keeps no
// server-side session state for this client.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}
