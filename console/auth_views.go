package console

import (
	"context"
	"fmt"

	"github.com/canineracks/inventory-console/clients"
	"github.com/canineracks/inventory-console/forms"
	"github.com/canineracks/inventory-console/session"
)

// loginMenu is the unauthenticated entry point. Returns false to quit
// the application.
func (a *App) loginMenu(ctx context.Context) bool {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "[1] Login  [2] Register  [3] Forgot password  [q] Quit")
		choice, ok := a.prompt("Select")
		if !ok {
			return false
		}

		switch choice {
		case "1":
			if done, quit := a.loginView(ctx); quit {
				return false
			} else if done {
				return true
			}
		case "2":
			if quit := a.registerView(ctx); quit {
				return false
			}
		case "3":
			if quit := a.forgotPasswordView(ctx); quit {
				return false
			}
		case "q", "Q":
			return false
		}
	}
}

// loginView prompts for credentials and authenticates. The first return
// value reports a successful login; the second, EOF.
func (a *App) loginView(ctx context.Context) (bool, bool) {
	email, ok := a.prompt("Email")
	if !ok {
		return false, true
	}
	password, ok := a.prompt("Password")
	if !ok {
		return false, true
	}

	form := forms.LoginForm{Email: email, Password: password}
	if err := a.forms.ValidateLogin(form); err != nil {
		a.showError(err)
		return false, false
	}

	sess, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.showError(err)
		return false, false
	}

	if sess.Role != session.RoleInventoryManager {
		a.notAllowedView()
		return false, false
	}
	a.toasts.Success("Logged in.")
	return true, false
}

// registerView runs registration followed by code verification, matching
// the web flow register -> register-verify -> registered-success.
func (a *App) registerView(ctx context.Context) bool {
	email, ok := a.prompt("Email")
	if !ok {
		return true
	}
	password, ok := a.prompt("Password")
	if !ok {
		return true
	}

	form := forms.RegisterForm{Email: email, Password: password}
	if err := a.forms.ValidateRegister(form); err != nil {
		a.showError(err)
		return false
	}

	if err := a.api.Register(ctx, email, password); err != nil {
		a.showError(err)
		return false
	}
	fmt.Fprintln(a.out, "A verification code was sent to", email)

	if quit := a.verifyCodeView(ctx, email, clients.PurposeRegister); quit {
		return true
	}
	return false
}

// verifyCodeView prompts for the 5-letter emailed code until it is
// accepted or the user backs out.
func (a *App) verifyCodeView(ctx context.Context, email, purpose string) bool {
	for {
		code, ok := a.prompt("5-letter code (or 'b' to go back)")
		if !ok {
			return true
		}
		if code == "b" || code == "B" {
			return false
		}

		form := forms.VerifyCodeForm{Email: email, Code: code}
		if err := a.forms.ValidateVerifyCode(form); err != nil {
			a.showError(err)
			continue
		}

		if err := a.api.VerifyCode(ctx, email, code, purpose); err != nil {
			a.showError(err)
			continue
		}

		if purpose == clients.PurposeRegister {
			fmt.Fprintln(a.out, "Registration complete. You can log in now.")
		}
		return false
	}
}

// forgotPasswordView runs send-code -> verify -> reset-password.
func (a *App) forgotPasswordView(ctx context.Context) bool {
	email, ok := a.prompt("Registered email")
	if !ok {
		return true
	}

	message, err := a.api.SendCode(ctx, email, clients.PurposeReset)
	if err != nil {
		a.showError(err)
		return false
	}
	if message == "" {
		message = "Code sent to " + email
	}
	fmt.Fprintln(a.out, message)

	code, ok := a.prompt("5-letter code")
	if !ok {
		return true
	}
	if err := a.api.VerifyCode(ctx, email, code, clients.PurposeReset); err != nil {
		a.showError(err)
		return false
	}

	newPassword, ok := a.prompt("New password")
	if !ok {
		return true
	}
	form := forms.ResetPasswordForm{Email: email, Code: code, NewPassword: newPassword}
	if err := a.forms.ValidateResetPassword(form); err != nil {
		a.showError(err)
		return false
	}

	if err := a.api.ResetPassword(ctx, email, code, newPassword); err != nil {
		a.showError(err)
		return false
	}
	a.toasts.Success("Password reset. Please log in.")
	return false
}
