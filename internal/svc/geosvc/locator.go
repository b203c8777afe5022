package geosvc

import (
	"context"
	"errors"
)

// ErrLocationUnavailable is returned when the lookup service cannot place
// the caller. Callers treat it as a best-effort miss, not a hard failure.
var ErrLocationUnavailable = errors.New("location unavailable")

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Locator defines the interface for resolving the device's coordinates.
type Locator interface {
	// Locate returns the current coordinates.
	// Returns ErrLocationUnavailable when the position cannot be determined.
	Locate(ctx context.Context) (Coordinates, error)
}
