package bookclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/repo/session"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
	"github.com/tbrandt/shelfshare/internal/svc/sessionsvc"
)

// memRepository is an in-memory session.Repository for tests.
type memRepository struct {
	mu     sync.Mutex
	values map[string][]byte
}

var _ session.Repository = (*memRepository)(nil)

func newMemRepository() *memRepository {
	return &memRepository{values: make(map[string][]byte)}
}

func (m *memRepository) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memRepository) Close() error { return nil }

// apiRecorder is a fake remote API that records requests and serves canned
// responses per path.
type apiRecorder struct {
	mu         sync.Mutex
	csrfCalls  int
	requests   []recordedRequest
	responses  map[string]cannedResponse
	csrfBroken bool
}

type recordedRequest struct {
	method    string
	path      string
	csrfToken string
	requestID string
}

type cannedResponse struct {
	status int
	body   string
}

func newAPIRecorder() *apiRecorder {
	return &apiRecorder{responses: make(map[string]cannedResponse)}
}

func (a *apiRecorder) respond(method, path string, status int, body string) {
	a.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

func (a *apiRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		if r.Method == http.MethodGet && r.URL.Path == "/auth/csrf/" {
			a.csrfCalls++

			if a.csrfBroken {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"csrfToken":"token-123"}`))
			return
		}

		a.requests = append(a.requests, recordedRequest{
			method:    r.Method,
			path:      r.URL.Path,
			csrfToken: r.Header.Get(bookclient.CSRFTokenHeader),
			requestID: r.Header.Get(bookclient.RequestIDHeader),
		})

		canned, ok := a.responses[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"not found"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(canned.status)
		_, _ = w.Write([]byte(canned.body))
	})
}

func (a *apiRecorder) lastRequest(t *testing.T) recordedRequest {
	t.Helper()

	a.mu.Lock()
	defer a.mu.Unlock()

	require.NotEmpty(t, a.requests)
	return a.requests[len(a.requests)-1]
}

func setupClient(t *testing.T) (*bookclient.HTTPClient, *apiRecorder, *sessionsvc.SessionService) {
	t.Helper()

	api := newAPIRecorder()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	sessions := &sessionsvc.SessionService{
		Repo: newMemRepository(),
		Log:  logging.NewNopLogger(),
	}

	client, err := bookclient.NewHTTPClient(bookclient.HTTPClientConfig{
		BaseURL: server.URL,
		Timeout: 5,
	}, sessions, nil)
	require.NoError(t, err)

	return client, api, sessions
}

func TestHTTPClient_ReadsSkipCSRFToken(t *testing.T) {
	t.Parallel()

	client, api, _ := setupClient(t)
	api.respond(http.MethodGet, "/books/available/", http.StatusOK,
		`[{"id":"b1","title":"Dune","author":"Herbert","price_per_day":5,"available_copies":2}]`)

	books, err := client.AvailableBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Dune", books[0].Title)
	require.Equal(t, 5.0, books[0].PricePerDay)

	require.Zero(t, api.csrfCalls, "GET must not trigger a token fetch")
	require.Empty(t, api.lastRequest(t).csrfToken)
	require.NotEmpty(t, api.lastRequest(t).requestID)
}

func TestHTTPClient_MutationsAttachCSRFToken(t *testing.T) {
	t.Parallel()

	client, api, _ := setupClient(t)
	api.respond(http.MethodPost, "/books/b1/request_rental/", http.StatusCreated,
		`{"id":"r1","status":"PENDING","total_price":35}`)

	rental, err := client.RequestRental(context.Background(), "b1", 7)
	require.NoError(t, err)
	require.Equal(t, domain.RentalStatusPending, rental.Status)
	require.Equal(t, 35.0, rental.TotalPrice)

	require.Equal(t, 1, api.csrfCalls)
	require.Equal(t, "token-123", api.lastRequest(t).csrfToken)
}

func TestHTTPClient_MutationProceedsWhenCSRFFetchFails(t *testing.T) {
	t.Parallel()

	client, api, _ := setupClient(t)
	api.csrfBroken = true
	api.respond(http.MethodPost, "/rentals/r1/return_book/", http.StatusOK,
		`{"id":"r1","status":"RETURNED"}`)

	rental, err := client.ReturnBook(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, domain.RentalStatusReturned, rental.Status)

	last := api.lastRequest(t)
	require.Equal(t, "/rentals/r1/return_book/", last.path)
	require.Empty(t, last.csrfToken, "call must go out without a token when the fetch fails")
}

func TestHTTPClient_LoginCachesSessionUser(t *testing.T) {
	t.Parallel()

	client, api, sessions := setupClient(t)
	api.respond(http.MethodPost, "/auth/login/", http.StatusOK,
		`{"user":{"id":7,"username":"reader","email":"reader@example.com"}}`)

	ctx := context.Background()

	user, err := client.Login(ctx, domain.Credentials{Username: "reader", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)

	cached, ok := sessions.CurrentUser(ctx)
	require.True(t, ok)
	require.Equal(t, user, cached)
}

func TestHTTPClient_RegisterCachesSessionUser(t *testing.T) {
	t.Parallel()

	client, api, sessions := setupClient(t)
	api.respond(http.MethodPost, "/auth/register/", http.StatusCreated,
		`{"user":{"id":8,"username":"newbie","email":"n@example.com"}}`)

	ctx := context.Background()

	user, err := client.Register(ctx, domain.Registration{
		Username:  "newbie",
		Email:     "n@example.com",
		Password:  "pw",
		Password2: "pw",
		Location:  domain.Location{City: "Leipzig", State: "Saxony"},
	})
	require.NoError(t, err)

	cached, ok := sessions.CurrentUser(ctx)
	require.True(t, ok)
	require.Equal(t, user, cached)
}

func TestHTTPClient_LogoutClearsSessionRegardlessOfBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "json body", body: `{"detail":"logged out"}`},
		{name: "non-json body", body: "bye"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, api, sessions := setupClient(t)
			ctx := context.Background()

			require.NoError(t, sessions.SetCurrentUser(ctx, domain.User{ID: 1, Username: "reader"}))
			api.respond(http.MethodPost, "/auth/logout/", http.StatusOK, tt.body)

			require.NoError(t, client.Logout(ctx))

			_, ok := sessions.CurrentUser(ctx)
			require.False(t, ok)
		})
	}
}

func TestHTTPClient_UpdateProfileMergesIntoSession(t *testing.T) {
	t.Parallel()

	client, api, sessions := setupClient(t)
	api.respond(http.MethodPut, "/auth/profile/update/", http.StatusOK,
		`{"email":"new@example.com"}`)

	ctx := context.Background()
	require.NoError(t, sessions.SetCurrentUser(ctx, domain.User{
		ID:       1,
		Username: "reader",
		Email:    "old@example.com",
	}))

	email := "new@example.com"

	patch, err := client.UpdateProfile(ctx, domain.UserPatch{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, patch.Email)

	cached, ok := sessions.CurrentUser(ctx)
	require.True(t, ok)
	require.Equal(t, "new@example.com", cached.Email)
	require.Equal(t, "reader", cached.Username)
	require.Equal(t, int64(1), cached.ID)
}

func TestHTTPClient_ServerErrorMessageSurfaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "error field",
			status:      http.StatusBadRequest,
			body:        `{"error":"isbn already listed"}`,
			wantMessage: "isbn already listed",
		},
		{
			name:        "detail field",
			status:      http.StatusForbidden,
			body:        `{"detail":"not the owner"}`,
			wantMessage: "not the owner",
		},
		{
			name:        "unstructured body falls back to status text",
			status:      http.StatusInternalServerError,
			body:        "<html>boom</html>",
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, api, _ := setupClient(t)
			api.respond(http.MethodPost, "/books/", tt.status, tt.body)

			_, err := client.CreateBook(context.Background(), domain.NewBook{
				Title:       "Dune",
				Author:      "Herbert",
				ISBN:        "9780441172719",
				PricePerDay: 5,
			})
			require.Error(t, err)

			var apiErr *bookclient.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.Status)
			require.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestHTTPClient_NearbyUsersRadiusParam(t *testing.T) {
	t.Parallel()

	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"username":"nearby"}]`))
	}))
	t.Cleanup(server.Close)

	sessions := &sessionsvc.SessionService{Repo: newMemRepository(), Log: logging.NewNopLogger()}

	client, err := bookclient.NewHTTPClient(bookclient.HTTPClientConfig{
		BaseURL: server.URL,
		Timeout: 5,
	}, sessions, nil)
	require.NoError(t, err)

	users, err := client.NearbyUsers(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "radius=25", gotQuery)

	_, err = client.NearbyUsers(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, gotQuery, "zero radius leaves the choice to the server")
}
