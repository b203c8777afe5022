package view

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
)

// formValidator checks required-field constraints on form structs. Anything
// beyond presence (and basic input formats like email) is the server's job.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	return &formValidator{v: validator.New()}
}

func (fv *formValidator) Validate(form any) error {
	//nolint:wrapcheck
	return fv.v.Struct(form)
}

// alertMessage converts a call failure into the inline text an auth form
// shows: the server-provided message when there is one, else the fallback.
func alertMessage(err error, fallback string) string {
	var apiErr *bookclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return fallback
}
