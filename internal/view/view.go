package view

import (
	"context"
	"errors"
	"io"
)

// Route names, one per screen.
const (
	RouteHome           = "home"
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteBooks          = "books"
	RouteMyBooks        = "my-books"
	RouteMyRentals      = "my-rentals"
	RouteRentalRequests = "rental-requests"
)

var (
	// ErrUnknownRoute is returned when resolving a route no view is registered for.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrNoDialog is returned when a dialog action fires while no dialog is open.
	ErrNoDialog = errors.New("no rent dialog open")
	// ErrBookNotListed is returned when an action names a book that is not
	// in the view's current list.
	ErrBookNotListed = errors.New("book not in current list")
	// ErrRentalNotListed is returned when an action names a rental that is
	// not in the view's current list.
	ErrRentalNotListed = errors.New("rental not in current list")
	// ErrNotReturnable is returned when trying to return a rental that is
	// not active.
	ErrNotReturnable = errors.New("rental is not active")
	// ErrInvalidDays is returned for a rental duration below one day.
	ErrInvalidDays = errors.New("rental days must be at least 1")
)

// View is one screen of the client. A view that displays server data issues
// exactly one read call on Mount and stores the result as local state;
// mutating actions re-issue that same read afterwards.
type View interface {
	// Route returns the route name the view is registered under.
	Route() string

	// Mount fetches the view's server data, replacing local state only on
	// success. Views without server data return nil immediately.
	Mount(ctx context.Context) error

	// Render writes the view's current state to w.
	Render(w io.Writer) error
}
