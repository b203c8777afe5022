package bookclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/tbrandt/shelfshare/internal/domain"
	context_ "github.com/tbrandt/shelfshare/internal/infra/context"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/svc/sessionsvc"
)

const (
	// CSRFTokenHeader carries the anti-forgery token on mutating requests.
	CSRFTokenHeader = "X-CSRFToken"
	// RequestIDHeader carries a per-request trace ID.
	RequestIDHeader = "X-Request-ID"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigFastest

// HTTPClientConfig holds configuration for the HTTP API client.
type HTTPClientConfig struct {
	// BaseURL is the fixed base of the remote API
	BaseURL string `env:"BASE_URL" default:"http://localhost:8000/api"`

	// Timeout is the per-request timeout in seconds
	Timeout int `env:"TIMEOUT" default:"10"`
}

// HTTPClient implements Client against the remote HTTP API. Credentials are
// session cookies held in the underlying client's cookie jar, so they ride
// along on every request. Mutating calls fetch a fresh anti-forgery token
// first; read calls never do.
type HTTPClient struct {
	httpClient *http.Client
	sessions   *sessionsvc.SessionService
	log        logging.Logger
	cfg        HTTPClientConfig
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTPClient with the given configuration.
// If httpClient is nil, a client with a fresh cookie jar is used.
func NewHTTPClient(
	cfg HTTPClientConfig,
	sessions *sessionsvc.SessionService,
	httpClient *http.Client,
) (*HTTPClient, error) {
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("new cookie jar: %w", err)
		}

		httpClient = &http.Client{
			Jar:     jar,
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}
	}

	return &HTTPClient{
		httpClient: httpClient,
		sessions:   sessions,
		log:        logging.GetLogger("svc.bookclient.http_client"),
		cfg:        cfg,
	}, nil
}

// Books implements Client.Books.
func (c *HTTPClient) Books(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book

	return books, c.get(ctx, "/books/", &books)
}

// AvailableBooks implements Client.AvailableBooks.
func (c *HTTPClient) AvailableBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book

	return books, c.get(ctx, "/books/available/", &books)
}

// MyBooks implements Client.MyBooks.
func (c *HTTPClient) MyBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book

	return books, c.get(ctx, "/books/my_books/", &books)
}

// CreateBook implements Client.CreateBook.
func (c *HTTPClient) CreateBook(ctx context.Context, book domain.NewBook) (domain.Book, error) {
	var created domain.Book

	return created, c.mutate(ctx, http.MethodPost, "/books/", book, &created)
}

// UpdateBook implements Client.UpdateBook.
func (c *HTTPClient) UpdateBook(ctx context.Context, bookID string, book domain.NewBook) (domain.Book, error) {
	var updated domain.Book

	return updated, c.mutate(ctx, http.MethodPut, "/books/"+url.PathEscape(bookID)+"/", book, &updated)
}

// DeleteBook implements Client.DeleteBook.
func (c *HTTPClient) DeleteBook(ctx context.Context, bookID string) error {
	return c.mutate(ctx, http.MethodDelete, "/books/"+url.PathEscape(bookID)+"/", nil, nil)
}

// RequestRental implements Client.RequestRental.
func (c *HTTPClient) RequestRental(ctx context.Context, bookID string, days int) (domain.Rental, error) {
	var (
		rental  domain.Rental
		request = struct {
			Days int `json:"days"`
		}{Days: days}
	)

	path := "/books/" + url.PathEscape(bookID) + "/request_rental/"

	return rental, c.mutate(ctx, http.MethodPost, path, request, &rental)
}

// Rentals implements Client.Rentals.
func (c *HTTPClient) Rentals(ctx context.Context) ([]domain.Rental, error) {
	var rentals []domain.Rental

	return rentals, c.get(ctx, "/rentals/", &rentals)
}

// MyRentals implements Client.MyRentals.
func (c *HTTPClient) MyRentals(ctx context.Context) ([]domain.Rental, error) {
	var rentals []domain.Rental

	return rentals, c.get(ctx, "/rentals/my_rentals/", &rentals)
}

// RentalRequests implements Client.RentalRequests.
func (c *HTTPClient) RentalRequests(ctx context.Context) ([]domain.Rental, error) {
	var rentals []domain.Rental

	return rentals, c.get(ctx, "/rentals/rental_requests/", &rentals)
}

// ActiveRentals implements Client.ActiveRentals.
func (c *HTTPClient) ActiveRentals(ctx context.Context) ([]domain.Rental, error) {
	var rentals []domain.Rental

	return rentals, c.get(ctx, "/rentals/active/", &rentals)
}

// ApproveRental implements Client.ApproveRental.
func (c *HTTPClient) ApproveRental(ctx context.Context, rentalID string) (domain.Rental, error) {
	return c.rentalAction(ctx, rentalID, "approve_rental")
}

// RejectRental implements Client.RejectRental.
func (c *HTTPClient) RejectRental(ctx context.Context, rentalID string) (domain.Rental, error) {
	return c.rentalAction(ctx, rentalID, "reject_rental")
}

// ReturnBook implements Client.ReturnBook.
func (c *HTTPClient) ReturnBook(ctx context.Context, rentalID string) (domain.Rental, error) {
	return c.rentalAction(ctx, rentalID, "return_book")
}

func (c *HTTPClient) rentalAction(ctx context.Context, rentalID, action string) (domain.Rental, error) {
	var rental domain.Rental

	path := "/rentals/" + url.PathEscape(rentalID) + "/" + action + "/"

	return rental, c.mutate(ctx, http.MethodPost, path, nil, &rental)
}

// authResponse is the body shape of the register and login endpoints.
type authResponse struct {
	User domain.User `json:"user"`
}

// Register implements Client.Register.
func (c *HTTPClient) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var resp authResponse

	if err := c.mutate(ctx, http.MethodPost, "/auth/register/", reg, &resp); err != nil {
		return domain.User{}, err
	}

	if resp.User != (domain.User{}) {
		if err := c.sessions.SetCurrentUser(ctx, resp.User); err != nil {
			return domain.User{}, fmt.Errorf("cache session user: %w", err)
		}
	}

	return resp.User, nil
}

// Login implements Client.Login.
func (c *HTTPClient) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	var resp authResponse

	if err := c.mutate(ctx, http.MethodPost, "/auth/login/", creds, &resp); err != nil {
		return domain.User{}, err
	}

	if resp.User != (domain.User{}) {
		if err := c.sessions.SetCurrentUser(ctx, resp.User); err != nil {
			return domain.User{}, fmt.Errorf("cache session user: %w", err)
		}
	}

	return resp.User, nil
}

// Logout implements Client.Logout.
func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.mutate(ctx, http.MethodPost, "/auth/logout/", nil, nil); err != nil {
		return err
	}

	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// Profile implements Client.Profile.
func (c *HTTPClient) Profile(ctx context.Context) (domain.User, error) {
	var user domain.User

	return user, c.get(ctx, "/auth/profile/", &user)
}

// UpdateProfile implements Client.UpdateProfile.
func (c *HTTPClient) UpdateProfile(ctx context.Context, patch domain.UserPatch) (domain.UserPatch, error) {
	var updated domain.UserPatch

	if err := c.mutate(ctx, http.MethodPut, "/auth/profile/update/", patch, &updated); err != nil {
		return domain.UserPatch{}, err
	}

	if err := c.sessions.MergeProfileUpdate(ctx, updated); err != nil {
		return domain.UserPatch{}, fmt.Errorf("merge session user: %w", err)
	}

	return updated, nil
}

// NearbyUsers implements Client.NearbyUsers.
func (c *HTTPClient) NearbyUsers(ctx context.Context, radiusKm float64) ([]domain.User, error) {
	path := "/auth/nearby-users/"
	if radiusKm > 0 {
		path += "?radius=" + strconv.FormatFloat(radiusKm, 'f', -1, 64)
	}

	var users []domain.User

	return users, c.get(ctx, path, &users)
}

// csrfResponse is the body shape of the anti-forgery token endpoint.
type csrfResponse struct {
	CSRFToken string `json:"csrfToken"`
}

func (c *HTTPClient) fetchCSRFToken(ctx context.Context) (string, error) {
	var resp csrfResponse

	if err := c.send(ctx, http.MethodGet, "/auth/csrf/", nil, &resp, ""); err != nil {
		return "", err
	}

	return resp.CSRFToken, nil
}

// get issues a pure read. Reads never fetch an anti-forgery token.
func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out, "")
}

// mutate issues a state-changing call, fetching a fresh anti-forgery token
// first. A failed token fetch is logged and the call proceeds without the
// token; the server rejects it if it actually enforces the check.
func (c *HTTPClient) mutate(ctx context.Context, method, path string, body, out any) error {
	token, err := c.fetchCSRFToken(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "csrf token fetch failed, proceeding without token", "error", err)

		token = ""
	}

	return c.send(ctx, method, path, body, out, token)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body, out any, csrfToken string) (err error) {
	requestID := uuid.NewString()
	ctx = context_.WithTraceID(ctx, requestID)

	log := c.log.With(logging.Group("http", "method", method, "path", path))

	defer func() {
		if err != nil {
			log.DebugContext(ctx, "api call failed", "error", err)
		} else {
			log.DebugContext(ctx, "api call done")
		}
	}()

	var payload io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}

		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if csrfToken != "" {
		req.Header.Set(CSRFTokenHeader, csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apiErrorFromResponse(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

func apiErrorFromResponse(status int, body []byte) *APIError {
	var serverErr struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}

	message := http.StatusText(status)

	if err := json.Unmarshal(body, &serverErr); err == nil {
		switch {
		case serverErr.Error != "":
			message = serverErr.Error
		case serverErr.Detail != "":
			message = serverErr.Detail
		case serverErr.Message != "":
			message = serverErr.Message
		}
	}

	return &APIError{Status: status, Message: message}
}
