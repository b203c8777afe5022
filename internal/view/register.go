package view

import (
	"context"
	"fmt"
	"io"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
	"github.com/tbrandt/shelfshare/internal/svc/geosvc"
)

// RegisterForm holds the registration input. Name fields are optional,
// everything else is required; coordinates are filled by UseCurrentLocation
// or left blank.
type RegisterForm struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required"`
	Password2 string `validate:"required"`
	FirstName string
	LastName  string
	City      string `validate:"required"`
	State     string `validate:"required"`
	Latitude  float64
	Longitude float64
}

// RegisterView is the registration screen. Call failures surface as an
// inline alert; the geolocation fill is best-effort.
type RegisterView struct {
	client   bookclient.Client
	locator  geosvc.Locator
	validate *formValidator
	log      logging.Logger

	Form  RegisterForm
	Alert string
}

var _ View = (*RegisterView)(nil)

// NewRegisterView creates the registration screen.
func NewRegisterView(client bookclient.Client, locator geosvc.Locator) *RegisterView {
	return &RegisterView{
		client:   client,
		locator:  locator,
		validate: newFormValidator(),
		log:      logging.GetLogger("view.register"),
	}
}

// Route implements View.Route.
func (v *RegisterView) Route() string { return RouteRegister }

// Mount implements View.Mount. The register screen fetches nothing.
func (v *RegisterView) Mount(context.Context) error { return nil }

// UseCurrentLocation fills the coordinate fields from the locator. On
// failure the alert is set and the fields stay blank.
func (v *RegisterView) UseCurrentLocation(ctx context.Context) {
	coords, err := v.locator.Locate(ctx)
	if err != nil {
		v.Alert = "Error getting location: " + err.Error()

		return
	}

	v.Form.Latitude = coords.Latitude
	v.Form.Longitude = coords.Longitude
}

// Submit validates the form and registers the account. On success the API
// client caches the session user; on failure the alert is set and the form kept.
func (v *RegisterView) Submit(ctx context.Context) error {
	v.Alert = ""

	if err := v.validate.Validate(v.Form); err != nil {
		v.Alert = "username, email, password and location are required"

		return fmt.Errorf("validate register form: %w", err)
	}

	if _, err := v.client.Register(ctx, domain.Registration{
		Username:  v.Form.Username,
		Email:     v.Form.Email,
		Password:  v.Form.Password,
		Password2: v.Form.Password2,
		FirstName: v.Form.FirstName,
		LastName:  v.Form.LastName,
		Location: domain.Location{
			City:      v.Form.City,
			State:     v.Form.State,
			Latitude:  v.Form.Latitude,
			Longitude: v.Form.Longitude,
		},
	}); err != nil {
		v.Alert = alertMessage(err, "Registration failed")

		return err
	}

	v.Form = RegisterForm{}

	v.log.InfoContext(ctx, "registered")

	return nil
}

// Render implements View.Render.
func (v *RegisterView) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Register"); err != nil {
		return fmt.Errorf("render register: %w", err)
	}

	if v.Alert != "" {
		if _, err := fmt.Fprintf(w, "! %s\n", v.Alert); err != nil {
			return fmt.Errorf("render register: %w", err)
		}
	}

	if v.Form.Latitude != 0 || v.Form.Longitude != 0 {
		if _, err := fmt.Fprintf(w, "location: %.4f, %.4f\n", v.Form.Latitude, v.Form.Longitude); err != nil {
			return fmt.Errorf("render register: %w", err)
		}
	}

	if _, err := fmt.Fprint(w,
		"usage: register <username> <email> <password> <password2> <city> <state>\n",
		"       locate   (fill coordinates from your current position)\n",
	); err != nil {
		return fmt.Errorf("render register: %w", err)
	}

	return nil
}
