package domain

import "time"

// RentalStatus is the lifecycle state of a rental as reported by the server.
type RentalStatus string

const (
	// RentalStatusPending means the request awaits the owner's decision.
	RentalStatusPending RentalStatus = "PENDING"
	// RentalStatusActive means the rental was approved and is running.
	RentalStatusActive RentalStatus = "ACTIVE"
	// RentalStatusReturned is the terminal state after the book came back.
	RentalStatusReturned RentalStatus = "RETURNED"
	// RentalStatusRejected means the owner declined the request.
	RentalStatusRejected RentalStatus = "REJECTED"
)

// Rental references exactly one Book. The total price is computed
// server-side as price-per-day times rented days.
type Rental struct {
	ID         string       `json:"id"`
	Book       Book         `json:"book"`
	RentalDate time.Time    `json:"rental_date"`
	ReturnDate time.Time    `json:"return_date"`
	TotalPrice float64      `json:"total_price"`
	Status     RentalStatus `json:"status"`
}

// Returnable reports whether the return action applies to the rental.
func (r Rental) Returnable() bool {
	return r.Status == RentalStatusActive
}
