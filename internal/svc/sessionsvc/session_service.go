package sessionsvc

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/tbrandt/shelfshare/internal/domain"
	"github.com/tbrandt/shelfshare/internal/infra/logging"
	"github.com/tbrandt/shelfshare/internal/repo/session"
)

// CurrentUserKey is the fixed storage key holding the serialized current-user
// record. There is never more than this one record.
const CurrentUserKey = "current_user"

//nolint:gochecknoglobals
var json = jsoniter.ConfigFastest

// SessionService persists and retrieves the current user's identity across
// process runs. It never performs network calls; all operations touch only
// the local session repository.
type SessionService struct {
	Repo session.Repository
	Log  logging.Logger
}

// NewSessionService creates a new SessionService backed by the repository
// the given factory produces. Returns an error if the repository cannot be created.
func NewSessionService(repoFactory session.RepositoryFactory) (*SessionService, error) {
	repo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new session repo: %w", err)
	}

	return &SessionService{
		Repo: repo,
		Log:  logging.GetLogger("svc.sessionsvc.session_service"),
	}, nil
}

// SetCurrentUser serializes and stores the user record, overwriting any
// prior value.
func (s *SessionService) SetCurrentUser(ctx context.Context, user domain.User) error {
	record, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	if err := s.Repo.Put(ctx, CurrentUserKey, record); err != nil {
		return fmt.Errorf("store user: %w", err)
	}

	s.Log.DebugContext(ctx, "session user stored",
		logging.Group("user", "username", user.Username))

	return nil
}

// CurrentUser returns the cached user record. The second return value is
// false when no user is cached. A corrupt or unreadable record is treated
// as "no session", never as a failure.
func (s *SessionService) CurrentUser(ctx context.Context) (domain.User, bool) {
	record, ok, err := s.Repo.Get(ctx, CurrentUserKey)
	if err != nil {
		s.Log.WarnContext(ctx, "session read failed, treating as anonymous", "error", err)

		return domain.User{}, false
	}

	if !ok {
		return domain.User{}, false
	}

	var user domain.User
	if err := json.Unmarshal(record, &user); err != nil {
		s.Log.WarnContext(ctx, "session record corrupt, treating as anonymous", "error", err)

		return domain.User{}, false
	}

	return user, true
}

// Clear removes the stored user record. Used on logout.
func (s *SessionService) Clear(ctx context.Context) error {
	if err := s.Repo.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.Log.DebugContext(ctx, "session cleared")

	return nil
}

// MergeProfileUpdate shallow-merges the partial fields of a profile-update
// response over the cached user and re-stores the result. No-op when no
// user is cached.
func (s *SessionService) MergeProfileUpdate(ctx context.Context, patch domain.UserPatch) error {
	user, ok := s.CurrentUser(ctx)
	if !ok {
		return nil
	}

	return s.SetCurrentUser(ctx, patch.Apply(user))
}

// Close releases the underlying repository.
func (s *SessionService) Close() error {
	//nolint:wrapcheck
	return s.Repo.Close()
}
