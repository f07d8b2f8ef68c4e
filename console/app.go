// Package console implements the interactive terminal frontend: every
// page of the CanineRacks web client rendered as a console flow, gated
// by the route guard and backed by the API client.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/clients"
	"github.com/canineracks/inventory-console/config"
	"github.com/canineracks/inventory-console/forms"
	"github.com/canineracks/inventory-console/guard"
	"github.com/canineracks/inventory-console/inventory"
	"github.com/canineracks/inventory-console/notify"
	"github.com/canineracks/inventory-console/session"
)

// App wires the client components together and drives navigation.
type App struct {
	cfg      *config.Config
	sessions *session.Store
	api      *clients.Client
	inv      *inventory.Controller
	forms    *forms.Validator
	toasts   *notify.Notifier

	in  *bufio.Scanner
	out io.Writer

	// loggedOut flips when the API client clears the session after an
	// unauthorized response; the active view checks it and unwinds back
	// to the login entry point.
	loggedOut atomic.Bool
}

// NewApp builds the application around the given terminal streams.
func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	app := &App{
		cfg:      cfg,
		sessions: session.NewStore(cfg.SessionFile),
		forms:    forms.NewValidator(),
		toasts:   notify.New(out, notify.DefaultDismissAfter),
		in:       bufio.NewScanner(in),
		out:      out,
	}
	app.api = clients.New(cfg.APIBaseURL, cfg.RequestTimeout, app.sessions,
		clients.WithUnauthorizedHandler(app.onUnauthorized))
	app.inv = inventory.NewController(app.api)
	return app
}

func (a *App) onUnauthorized() {
	a.loggedOut.Store(true)
	fmt.Fprintln(a.out, "Session expired. Redirecting to login.")
}

// Run is the navigation loop. Each iteration is one "mount": a fresh
// guard decides between the login entry point and the dashboard.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "CanineRacks Inventory Console")

	for {
		a.loggedOut.Store(false)

		g := guard.New(a.sessions)
		state, sess := g.Evaluate()
		switch state {
		case guard.Authorized:
			if sess.Role != session.RoleInventoryManager {
				a.notAllowedView()
				continue
			}
			if !a.dashboardView(ctx) {
				return nil
			}
		case guard.Unauthorized:
			if !a.loginMenu(ctx) {
				return nil
			}
		default:
			// Unchecked renders nothing; Evaluate always resolves it.
			zap.L().Error("Guard left unchecked, treating as unauthorized")
			if !a.loginMenu(ctx) {
				return nil
			}
		}
	}
}

// notAllowedView mirrors the web client's /not-allowed page: the account
// is real but its role cannot enter the dashboard.
func (a *App) notAllowedView() {
	fmt.Fprintln(a.out, "Your account is not allowed to manage inventory.")
	if err := a.api.Logout(); err != nil {
		zap.L().Warn("Failed to clear session", zap.Error(err))
	}
}

// readLine reads one trimmed line; returns false on EOF.
func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// prompt displays a label and reads one line.
func (a *App) prompt(label string) (string, bool) {
	fmt.Fprintf(a.out, "%s: ", label)
	return a.readLine()
}

// promptDefault displays a label with a current value; an empty line
// keeps the value.
func (a *App) promptDefault(label, current string) (string, bool) {
	fmt.Fprintf(a.out, "%s [%s]: ", label, current)
	line, ok := a.readLine()
	if !ok {
		return "", false
	}
	if line == "" {
		return current, true
	}
	return line, true
}

// showError renders any application error as the user-facing message it
// maps to, including per-field lines for validation failures.
func (a *App) showError(err error) {
	if err == nil {
		return
	}
	a.toasts.Error(err.Error())
	if fieldErr, ok := errFields(err); ok {
		for _, line := range fieldErr {
			fmt.Fprintln(a.out, "  -", line)
		}
	}
}

// errFields extracts per-field messages from a validation error.
func errFields(err error) ([]string, bool) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		return appErr.FieldMessages(), true
	}
	return nil, false
}
