package geosvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/tbrandt/shelfshare/internal/infra/logging"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigFastest

// HTTPLocatorConfig holds configuration for the HTTP geolocation client.
type HTTPLocatorConfig struct {
	// LookupURL is the IP-geolocation endpoint queried for coordinates
	LookupURL string `env:"LOOKUP_URL" default:"http://ip-api.com/json/"`
}

// HTTPLocator implements Locator by asking an IP-geolocation service where
// the current connection appears to be.
type HTTPLocator struct {
	httpClient *http.Client
	log        logging.Logger
	cfg        HTTPLocatorConfig
}

var _ Locator = (*HTTPLocator)(nil)

// NewHTTPLocator creates a new HTTPLocator with the given configuration.
// If httpClient is nil, http.DefaultClient will be used.
func NewHTTPLocator(cfg HTTPLocatorConfig, httpClient *http.Client) *HTTPLocator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPLocator{
		httpClient: httpClient,
		log:        logging.GetLogger("svc.geosvc.http_locator"),
		cfg:        cfg,
	}
}

// Locate implements Locator.Locate by querying the configured lookup endpoint.
func (hl *HTTPLocator) Locate(ctx context.Context) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hl.cfg.LookupURL, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := hl.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, errors.Join(ErrLocationUnavailable, fmt.Errorf("get: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: lookup status %d", ErrLocationUnavailable, resp.StatusCode)
	}

	var body struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, errors.Join(ErrLocationUnavailable, fmt.Errorf("decode body: %w", err))
	}

	if body.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: lookup status %q", ErrLocationUnavailable, body.Status)
	}

	hl.log.DebugContext(ctx, "located",
		logging.Group("coords", "lat", body.Lat, "lon", body.Lon))

	return Coordinates{Latitude: body.Lat, Longitude: body.Lon}, nil
}
