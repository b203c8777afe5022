package domain

// Book is a listed book as the remote service reports it. IDs are opaque
// server-issued strings.
type Book struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	ISBN             string  `json:"isbn"`
	CoverImage       string  `json:"cover_image,omitempty"`
	PricePerDay      float64 `json:"price_per_day"`
	AvailableCopies  int     `json:"available_copies"`
	AvailableForRent bool    `json:"available_for_rent"`
	OwnerID          string  `json:"owner_id,omitempty"`
}

// NewBook is the create/update payload for a book listing. The owner is
// implied by the authenticated session.
type NewBook struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	PricePerDay float64 `json:"price_per_day"`
	CoverImage  string  `json:"cover_image,omitempty"`
}
