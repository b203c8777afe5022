package view

import (
	"context"
	"fmt"
	"io"
)

// HomeView is the landing screen. It displays no server data.
type HomeView struct{}

var _ View = (*HomeView)(nil)

// NewHomeView creates the landing screen.
func NewHomeView() *HomeView {
	return &HomeView{}
}

// Route implements View.Route.
func (v *HomeView) Route() string { return RouteHome }

// Mount implements View.Mount. The home screen fetches nothing.
func (v *HomeView) Mount(context.Context) error { return nil }

// Render implements View.Render.
func (v *HomeView) Render(w io.Writer) error {
	_, err := fmt.Fprint(w,
		"Welcome to shelfshare\n",
		"\n",
		"Share your books with others and discover new reads from the community.\n",
		"Rent books at affordable prices or earn by lending your collection.\n",
		"\n",
		"  open books       browse books available for rent\n",
		"  open my-books    list your own books and add new ones\n",
		"  open my-rentals  manage your active rentals and returns\n",
	)
	if err != nil {
		return fmt.Errorf("render home: %w", err)
	}

	return nil
}
