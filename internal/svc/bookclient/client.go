package bookclient

import (
	"context"
	"fmt"

	"github.com/tbrandt/shelfshare/internal/domain"
)

// Client defines the typed surface of the remote book-rental API. One method
// per remote capability; every method returns either the decoded response or
// an error the caller decides how to surface.
type Client interface {
	// Books lists every book known to the service.
	Books(ctx context.Context) ([]domain.Book, error)

	// AvailableBooks lists books currently available for rent.
	AvailableBooks(ctx context.Context) ([]domain.Book, error)

	// MyBooks lists books owned by the authenticated user.
	MyBooks(ctx context.Context) ([]domain.Book, error)

	// CreateBook lists a new book owned by the authenticated user.
	CreateBook(ctx context.Context, book domain.NewBook) (domain.Book, error)

	// UpdateBook replaces the listing fields of an owned book.
	UpdateBook(ctx context.Context, bookID string, book domain.NewBook) (domain.Book, error)

	// DeleteBook removes an owned book listing.
	DeleteBook(ctx context.Context, bookID string) error

	// RequestRental asks to rent a book for the given number of days.
	// The rental starts in the PENDING state.
	RequestRental(ctx context.Context, bookID string, days int) (domain.Rental, error)

	// Rentals lists every rental visible to the authenticated user.
	Rentals(ctx context.Context) ([]domain.Rental, error)

	// MyRentals lists rentals where the authenticated user is the renter.
	MyRentals(ctx context.Context) ([]domain.Rental, error)

	// RentalRequests lists pending requests for books the authenticated
	// user owns.
	RentalRequests(ctx context.Context) ([]domain.Rental, error)

	// ActiveRentals lists the authenticated user's running rentals.
	ActiveRentals(ctx context.Context) ([]domain.Rental, error)

	// ApproveRental moves a pending request to ACTIVE (owner only).
	ApproveRental(ctx context.Context, rentalID string) (domain.Rental, error)

	// RejectRental moves a pending request to REJECTED (owner only).
	RejectRental(ctx context.Context, rentalID string) (domain.Rental, error)

	// ReturnBook moves an active rental to RETURNED.
	ReturnBook(ctx context.Context, rentalID string) (domain.Rental, error)

	// Register creates an account. On success the returned user record is
	// cached as the current session user.
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)

	// Login authenticates. On success the returned user record is cached
	// as the current session user.
	Login(ctx context.Context, creds domain.Credentials) (domain.User, error)

	// Logout ends the server session. On success the local session is
	// cleared regardless of the response body shape.
	Logout(ctx context.Context) error

	// Profile fetches the authenticated user's profile from the server.
	Profile(ctx context.Context) (domain.User, error)

	// UpdateProfile submits partial profile fields. On success the response
	// is merged over the cached session user.
	UpdateProfile(ctx context.Context, patch domain.UserPatch) (domain.UserPatch, error)

	// NearbyUsers lists users within radiusKm of the authenticated user's
	// coordinates. A radius of 0 leaves the choice to the server (50 km).
	NearbyUsers(ctx context.Context, radiusKm float64) ([]domain.User, error)
}

// APIError is a structured failure reported by the remote service. Message
// carries the server-provided text when the response body had one, else the
// HTTP status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}
