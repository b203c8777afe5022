package view

import (
	"context"
	"fmt"
	"io"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
)

// LoginForm holds the login input. Both fields are required.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginView is the login screen. Call failures surface as an inline alert.
type LoginView struct {
	client   bookclient.Client
	validate *formValidator
	log      logging.Logger

	Form  LoginForm
	Alert string
}

var _ View = (*LoginView)(nil)

// NewLoginView creates the login screen backed by the given API client.
func NewLoginView(client bookclient.Client) *LoginView {
	return &LoginView{
		client:   client,
		validate: newFormValidator(),
		log:      logging.GetLogger("view.login"),
	}
}

// Route implements View.Route.
func (v *LoginView) Route() string { return RouteLogin }

// Mount implements View.Mount. The login screen fetches nothing.
func (v *LoginView) Mount(context.Context) error { return nil }

// Submit validates the form and logs in. On success the API client caches
// the session user; on failure the alert is set and the form kept.
func (v *LoginView) Submit(ctx context.Context) error {
	v.Alert = ""

	if err := v.validate.Validate(v.Form); err != nil {
		v.Alert = "username and password are required"

		return fmt.Errorf("validate login form: %w", err)
	}

	if _, err := v.client.Login(ctx, domain.Credentials{
		Username: v.Form.Username,
		Password: v.Form.Password,
	}); err != nil {
		v.Alert = alertMessage(err, "Login failed")

		return err
	}

	v.Form = LoginForm{}

	v.log.InfoContext(ctx, "logged in")

	return nil
}

// Render implements View.Render.
func (v *LoginView) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Login"); err != nil {
		return fmt.Errorf("render login: %w", err)
	}

	if v.Alert != "" {
		if _, err := fmt.Fprintf(w, "! %s\n", v.Alert); err != nil {
			return fmt.Errorf("render login: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w, "usage: login <username> <password>"); err != nil {
		return fmt.Errorf("render login: %w", err)
	}

	return nil
}
