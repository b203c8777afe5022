package view

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
)

// defaultRentalDays is what the rent dialog starts at.
const defaultRentalDays = 7

// BooksView is the browse-and-rent screen: every book currently available
// for rent, plus the rent dialog.
//
// The dialog is a two-state machine: Closed -> Open on a rent action
// (capturing the selected book), Open -> Closed on cancel or on a successful
// rental request. A failed request leaves it open.
type BooksView struct {
	client bookclient.Client
	log    logging.Logger

	Books []domain.Book

	dialogOpen bool
	selected   domain.Book
	rentalDays int
}

var _ View = (*BooksView)(nil)

// NewBooksView creates the browse screen backed by the given API client.
func NewBooksView(client bookclient.Client) *BooksView {
	return &BooksView{
		client: client,
		log:    logging.GetLogger("view.books"),
	}
}

// Route implements View.Route.
func (v *BooksView) Route() string { return RouteBooks }

// Mount implements View.Mount by fetching the available books. On failure
// the previous list is kept.
func (v *BooksView) Mount(ctx context.Context) error {
	books, err := v.client.AvailableBooks(ctx)
	if err != nil {
		return fmt.Errorf("load available books: %w", err)
	}

	v.Books = books

	return nil
}

// OpenRentDialog opens the rent dialog for a book from the current list.
func (v *BooksView) OpenRentDialog(bookID string) error {
	for _, book := range v.Books {
		if book.ID == bookID {
			v.dialogOpen = true
			v.selected = book
			v.rentalDays = defaultRentalDays

			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrBookNotListed, bookID)
}

// CloseRentDialog closes the dialog, discarding the selection.
func (v *BooksView) CloseRentDialog() {
	v.dialogOpen = false
	v.selected = domain.Book{}
	v.rentalDays = 0
}

// SetRentalDays changes the requested duration of the open dialog.
func (v *BooksView) SetRentalDays(days int) error {
	if !v.dialogOpen {
		return ErrNoDialog
	}

	if days < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}

	v.rentalDays = days

	return nil
}

// DialogOpen reports whether the rent dialog is open.
func (v *BooksView) DialogOpen() bool { return v.dialogOpen }

// SelectedBook returns the book captured by the open dialog.
func (v *BooksView) SelectedBook() domain.Book { return v.selected }

// RentalDays returns the requested duration of the open dialog.
func (v *BooksView) RentalDays() int { return v.rentalDays }

// TotalPrice is the client-side price preview: price-per-day times requested
// days, derived from current dialog state only. Zero while the dialog is closed.
func (v *BooksView) TotalPrice() float64 {
	if !v.dialogOpen {
		return 0
	}

	return v.selected.PricePerDay * float64(v.rentalDays)
}

// ConfirmRental submits the rental request for the dialog's book. On success
// the book list is re-fetched once and the dialog closes; on failure the
// dialog stays open with its state unchanged.
func (v *BooksView) ConfirmRental(ctx context.Context) error {
	if !v.dialogOpen {
		return ErrNoDialog
	}

	if _, err := v.client.RequestRental(ctx, v.selected.ID, v.rentalDays); err != nil {
		v.log.ErrorContext(ctx, "rental request failed",
			logging.Group("rental", "book", v.selected.ID, "days", v.rentalDays),
			"error", err)

		return err
	}

	if err := v.Mount(ctx); err != nil {
		v.log.ErrorContext(ctx, "refresh after rental failed", "error", err)
	}

	v.CloseRentDialog()

	return nil
}

// Render implements View.Render.
func (v *BooksView) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Available Books"); err != nil {
		return fmt.Errorf("render books: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCOPIES\tPRICE/DAY")

	for _, book := range v.Books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%.2f\n",
			book.ID, book.Title, book.Author, book.AvailableCopies, book.PricePerDay)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render books: %w", err)
	}

	if v.dialogOpen {
		if _, err := fmt.Fprintf(w,
			"\nRent Book: %s\ndays: %d\nTotal Price: $%.2f\n(confirm / cancel / days <n>)\n",
			v.selected.Title, v.rentalDays, v.TotalPrice(),
		); err != nil {
			return fmt.Errorf("render rent dialog: %w", err)
		}
	}

	return nil
}
