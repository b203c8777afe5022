package view_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/view"
)

func activeRentals() []domain.Rental {
	return []domain.Rental{
		{ID: "r1", Book: domain.Book{Title: "Dune"}, Status: domain.RentalStatusActive},
		{ID: "r2", Book: domain.Book{Title: "Solaris"}, Status: domain.RentalStatusPending},
	}
}

func setupMyRentalsView(t *testing.T) (*view.MyRentalsView, *mockClient) {
	t.Helper()

	client := &mockClient{
		activeRentalsFn: func(context.Context) ([]domain.Rental, error) {
			return activeRentals(), nil
		},
	}

	v := view.NewMyRentalsView(client)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	return v, client
}

func TestMyRentalsView_ReturnBookRefreshesOnce(t *testing.T) {
	t.Parallel()

	v, client := setupMyRentalsView(t)
	ctx := context.Background()

	client.returnBookFn = func(_ context.Context, rentalID string) (domain.Rental, error) {
		if rentalID != "r1" {
			t.Errorf("ReturnBook id = %q, want r1", rentalID)
		}
		return domain.Rental{ID: rentalID, Status: domain.RentalStatusReturned}, nil
	}

	callsBefore := client.activeRentalsCalls

	if err := v.ReturnBook(ctx, "r1"); err != nil {
		t.Fatalf("ReturnBook() error = %v", err)
	}

	if got := client.activeRentalsCalls - callsBefore; got != 1 {
		t.Errorf("refresh fetches = %d, want exactly 1", got)
	}
}

func TestMyRentalsView_ReturnBookChecksListing(t *testing.T) {
	t.Parallel()

	v, client := setupMyRentalsView(t)
	ctx := context.Background()

	client.returnBookFn = func(context.Context, string) (domain.Rental, error) {
		t.Error("ReturnBook called for invalid rental")
		return domain.Rental{}, nil
	}

	if err := v.ReturnBook(ctx, "r9"); !errors.Is(err, view.ErrRentalNotListed) {
		t.Errorf("ReturnBook(unlisted) error = %v, want ErrRentalNotListed", err)
	}

	// r2 is listed but still pending
	if err := v.ReturnBook(ctx, "r2"); !errors.Is(err, view.ErrNotReturnable) {
		t.Errorf("ReturnBook(pending) error = %v, want ErrNotReturnable", err)
	}
}

func TestMyRentalsView_ReturnBookSurfacesClientError(t *testing.T) {
	t.Parallel()

	v, client := setupMyRentalsView(t)

	client.returnBookFn = func(context.Context, string) (domain.Rental, error) {
		return domain.Rental{}, errCallFailed
	}

	callsBefore := client.activeRentalsCalls

	if err := v.ReturnBook(context.Background(), "r1"); !errors.Is(err, errCallFailed) {
		t.Fatalf("ReturnBook() error = %v, want errCallFailed", err)
	}
	if got := client.activeRentalsCalls - callsBefore; got != 0 {
		t.Errorf("refresh fetches = %d after failure, want 0", got)
	}
}
