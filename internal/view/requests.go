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

// RentalRequestsView lists pending requests for books the authenticated
// user owns, to be approved or rejected.
type RentalRequestsView struct {
	client bookclient.Client
	log    logging.Logger

	Requests []domain.Rental
}

var _ View = (*RentalRequestsView)(nil)

// NewRentalRequestsView creates the rental-requests screen backed by the
// given API client.
func NewRentalRequestsView(client bookclient.Client) *RentalRequestsView {
	return &RentalRequestsView{
		client: client,
		log:    logging.GetLogger("view.requests"),
	}
}

// Route implements View.Route.
func (v *RentalRequestsView) Route() string { return RouteRentalRequests }

// Mount implements View.Mount by fetching the pending requests. On failure
// the previous list is kept.
func (v *RentalRequestsView) Mount(ctx context.Context) error {
	requests, err := v.client.RentalRequests(ctx)
	if err != nil {
		return fmt.Errorf("load rental requests: %w", err)
	}

	v.Requests = requests

	return nil
}

// Approve approves a pending request from the current list, then re-fetches
// the list once.
func (v *RentalRequestsView) Approve(ctx context.Context, rentalID string) error {
	return v.decide(ctx, rentalID, "approve", v.client.ApproveRental)
}

// Reject rejects a pending request from the current list, then re-fetches
// the list once.
func (v *RentalRequestsView) Reject(ctx context.Context, rentalID string) error {
	return v.decide(ctx, rentalID, "reject", v.client.RejectRental)
}

func (v *RentalRequestsView) decide(
	ctx context.Context,
	rentalID string,
	action string,
	call func(context.Context, string) (domain.Rental, error),
) error {
	if !v.listed(rentalID) {
		return fmt.Errorf("%w: %s", ErrRentalNotListed, rentalID)
	}

	if _, err := call(ctx, rentalID); err != nil {
		v.log.ErrorContext(ctx, action+" failed",
			logging.Group("rental", "id", rentalID), "error", err)

		return err
	}

	if err := v.Mount(ctx); err != nil {
		v.log.ErrorContext(ctx, "refresh after "+action+" failed", "error", err)
	}

	return nil
}

func (v *RentalRequestsView) listed(rentalID string) bool {
	for _, rental := range v.Requests {
		if rental.ID == rentalID {
			return true
		}
	}

	return false
}

// Render implements View.Render.
func (v *RentalRequestsView) Render(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Rental Requests"); err != nil {
		return fmt.Errorf("render requests: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBOOK\tFROM\tUNTIL\tTOTAL\tSTATUS")

	for _, rental := range v.Requests {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%.2f\t%s\n",
			rental.ID,
			rental.Book.Title,
			rental.RentalDate.Format("2006-01-02"),
			rental.ReturnDate.Format("2006-01-02"),
			rental.TotalPrice,
			rental.Status,
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render requests: %w", err)
	}

	if _, err := fmt.Fprintln(w, "usage: approve <rental-id> | reject <rental-id>"); err != nil {
		return fmt.Errorf("render requests: %w", err)
	}

	return nil
}
