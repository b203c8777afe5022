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

// MyRentalsView lists the authenticated user's active rentals and handles
// returns.
type MyRentalsView struct {
	client bookclient.Client
	log    logging.Logger

	Rentals []domain.Rental
}

var _ View = (*MyRentalsView)(nil)

// NewMyRentalsView creates the my-rentals screen backed by the given API client.
func NewMyRentalsView(client bookclient.Client) *MyRentalsView {
	return &MyRentalsView{
		client: client,
		log:    logging.GetLogger("view.myrentals"),
	}
}

// Route implements View.Route.
func (v *MyRentalsView) Route() string { return RouteMyRentals }

// Mount implements View.Mount by fetching the active rentals. On failure the
// previous list is kept.
func (v *MyRentalsView) Mount(ctx context.Context) error {
	rentals, err := v.client.ActiveRentals(ctx)
	if err != nil {
		return fmt.Errorf("load active rentals: %w", err)
	}

	v.Rentals = rentals

	return nil
}

// ReturnBook returns an active rental from the current list, then re-fetches
// the list once.
func (v *MyRentalsView) ReturnBook(ctx context.Context, rentalID string) error {
	rental, ok := v.rental(rentalID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRentalNotListed, rentalID)
	}

	if !rental.Returnable() {
		return fmt.Errorf("%w: %s is %s", ErrNotReturnable, rentalID, rental.Status)
	}

	if _, err := v.client.ReturnBook(ctx, rentalID); err != nil {
		v.log.ErrorContext(ctx, "return failed",
			logging.Group("rental", "id", rentalID), "error", err)

		return err
	}

	if err := v.Mount(ctx); err != nil {
		v.log.ErrorContext(ctx, "refresh after return failed", "error", err)
	}

	return nil
}

func (v *MyRentalsView) rental(rentalID string) (domain.Rental, bool) {
	for _, rental := range v.Rentals {
		if rental.ID == rentalID {
			return rental, true
		}
	}

	return domain.Rental{}, false
}

// Render implements View.Render.
func (v *MyRentalsView) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "My Active Rentals"); err != nil {
		return fmt.Errorf("render my rentals: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBOOK\tAUTHOR\tRENTED\tDUE\tTOTAL\tSTATUS")

	for _, rental := range v.Rentals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t$%.2f\t%s\n",
			rental.ID,
			rental.Book.Title,
			rental.Book.Author,
			rental.RentalDate.Format("2006-01-02"),
			rental.ReturnDate.Format("2006-01-02"),
			rental.TotalPrice,
			rental.Status,
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render my rentals: %w", err)
	}

	if _, err := fmt.Fprintln(w, "usage: return <rental-id>"); err != nil {
		return fmt.Errorf("render my rentals: %w", err)
	}

	return nil
}
