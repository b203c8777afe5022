package view_test

import (
	"context"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/repo/session"
	"github.com/tbrandt/shelfshare/internal/svc/bookclient"
	"github.com/tbrandt/shelfshare/internal/svc/sessionsvc"
)

// mockClient implements bookclient.Client for testing. Calls are counted;
// unset function fields return zero values.
type mockClient struct {
	availableBooksFn    func(ctx context.Context) ([]domain.Book, error)
	availableBooksCalls int

	myBooksFn    func(ctx context.Context) ([]domain.Book, error)
	myBooksCalls int

	createBookFn func(ctx context.Context, book domain.NewBook) (domain.Book, error)

	requestRentalFn    func(ctx context.Context, bookID string, days int) (domain.Rental, error)
	requestRentalCalls int

	activeRentalsFn    func(ctx context.Context) ([]domain.Rental, error)
	activeRentalsCalls int

	rentalRequestsFn    func(ctx context.Context) ([]domain.Rental, error)
	rentalRequestsCalls int

	returnBookFn  func(ctx context.Context, rentalID string) (domain.Rental, error)
	approveFn     func(ctx context.Context, rentalID string) (domain.Rental, error)
	rejectFn      func(ctx context.Context, rentalID string) (domain.Rental, error)
	loginFn       func(ctx context.Context, creds domain.Credentials) (domain.User, error)
	registerFn    func(ctx context.Context, reg domain.Registration) (domain.User, error)
	logoutFn      func(ctx context.Context) error
	deleteBookFn  func(ctx context.Context, bookID string) error
	updateBookFn  func(ctx context.Context, bookID string, book domain.NewBook) (domain.Book, error)
	nearbyUsersFn func(ctx context.Context, radiusKm float64) ([]domain.User, error)
}

var _ bookclient.Client = (*mockClient)(nil)

func (m *mockClient) Books(context.Context) ([]domain.Book, error) { return nil, nil }

func (m *mockClient) AvailableBooks(ctx context.Context) ([]domain.Book, error) {
	m.availableBooksCalls++
	if m.availableBooksFn == nil {
		return nil, nil
	}
	return m.availableBooksFn(ctx)
}

func (m *mockClient) MyBooks(ctx context.Context) ([]domain.Book, error) {
	m.myBooksCalls++
	if m.myBooksFn == nil {
		return nil, nil
	}
	return m.myBooksFn(ctx)
}

func (m *mockClient) CreateBook(ctx context.Context, book domain.NewBook) (domain.Book, error) {
	if m.createBookFn == nil {
		return domain.Book{}, nil
	}
	return m.createBookFn(ctx, book)
}

func (m *mockClient) UpdateBook(ctx context.Context, bookID string, book domain.NewBook) (domain.Book, error) {
	if m.updateBookFn == nil {
		return domain.Book{}, nil
	}
	return m.updateBookFn(ctx, bookID, book)
}

func (m *mockClient) DeleteBook(ctx context.Context, bookID string) error {
	if m.deleteBookFn == nil {
		return nil
	}
	return m.deleteBookFn(ctx, bookID)
}

func (m *mockClient) RequestRental(ctx context.Context, bookID string, days int) (domain.Rental, error) {
	m.requestRentalCalls++
	if m.requestRentalFn == nil {
		return domain.Rental{}, nil
	}
	return m.requestRentalFn(ctx, bookID, days)
}

func (m *mockClient) Rentals(context.Context) ([]domain.Rental, error) { return nil, nil }

func (m *mockClient) MyRentals(context.Context) ([]domain.Rental, error) { return nil, nil }

func (m *mockClient) RentalRequests(ctx context.Context) ([]domain.Rental, error) {
	m.rentalRequestsCalls++
	if m.rentalRequestsFn == nil {
		return nil, nil
	}
	return m.rentalRequestsFn(ctx)
}

func (m *mockClient) ActiveRentals(ctx context.Context) ([]domain.Rental, error) {
	m.activeRentalsCalls++
	if m.activeRentalsFn == nil {
		return nil, nil
	}
	return m.activeRentalsFn(ctx)
}

func (m *mockClient) ApproveRental(ctx context.Context, rentalID string) (domain.Rental, error) {
	if m.approveFn == nil {
		return domain.Rental{}, nil
	}
	return m.approveFn(ctx, rentalID)
}

func (m *mockClient) RejectRental(ctx context.Context, rentalID string) (domain.Rental, error) {
	if m.rejectFn == nil {
		return domain.Rental{}, nil
	}
	return m.rejectFn(ctx, rentalID)
}

func (m *mockClient) ReturnBook(ctx context.Context, rentalID string) (domain.Rental, error) {
	if m.returnBookFn == nil {
		return domain.Rental{}, nil
	}
	return m.returnBookFn(ctx, rentalID)
}

func (m *mockClient) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if m.registerFn == nil {
		return domain.User{}, nil
	}
	return m.registerFn(ctx, reg)
}

func (m *mockClient) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if m.loginFn == nil {
		return domain.User{}, nil
	}
	return m.loginFn(ctx, creds)
}

func (m *mockClient) Logout(ctx context.Context) error {
	if m.logoutFn == nil {
		return nil
	}
	return m.logoutFn(ctx)
}

func (m *mockClient) Profile(context.Context) (domain.User, error) { return domain.User{}, nil }

func (m *mockClient) UpdateProfile(context.Context, domain.UserPatch) (domain.UserPatch, error) {
	return domain.UserPatch{}, nil
}

func (m *mockClient) NearbyUsers(ctx context.Context, radiusKm float64) ([]domain.User, error) {
	if m.nearbyUsersFn == nil {
		return nil, nil
	}
	return m.nearbyUsersFn(ctx, radiusKm)
}

// memRepository is an in-memory session.Repository for tests.
type memRepository struct {
	values map[string][]byte
}

var _ session.Repository = (*memRepository)(nil)

func newMemRepository() *memRepository {
	return &memRepository{values: make(map[string][]byte)}
}

func (m *memRepository) Put(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *memRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memRepository) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memRepository) Close() error { return nil }

func newTestSessions() *sessionsvc.SessionService {
	return &sessionsvc.SessionService{
		Repo: newMemRepository(),
		Log:  logging.NewNopLogger(),
	}
}
