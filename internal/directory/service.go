package directory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/event-directory/internal/tokenvault"
)

// Service is the single entry point consumed by presentation code. It
// delegates every operation to the configured Backend, owns the current
// session (token plus profile snapshot), and keeps the token durable through
// the vault so a restart can recover the session.
//
// A Service is constructed explicitly and injected into callers; there is no
// package level instance.
type Service struct {
	backend Backend
	vault   tokenvault.Vault
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	token string
	user  *User
}

// NewService wires a facade over the given backend. vault may be nil when no
// durable token persistence is wanted (tests, throwaway sessions); logger and
// now fall back to slog.Default and time.Now.
func NewService(backend Backend, vault tokenvault.Vault, logger *slog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		backend: backend,
		vault:   vault,
		logger:  defaultLogger(logger),
		now:     now,
	}
}

// Login authenticates against the backend and, on success, adopts the issued
// session as the facade's current one.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	logger := operationLogger(ctx, s.logger, "Login", "email", email)

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
		return AuthResponse{}, err
	}

	s.adoptSession(ctx, resp)
	logger.InfoContext(ctx, "login succeeded", "user_id", resp.User.ID)
	return resp, nil
}

// Register creates an account and adopts the issued session.
func (s *Service) Register(ctx context.Context, params RegisterParams) (AuthResponse, error) {
	logger := operationLogger(ctx, s.logger, "Register", "email", params.Email)

	resp, err := s.backend.Register(ctx, params)
	if err != nil {
		logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
		return AuthResponse{}, err
	}

	s.adoptSession(ctx, resp)
	logger.InfoContext(ctx, "registration succeeded", "user_id", resp.User.ID)
	return resp, nil
}

// RestoreSession attempts to recover a previously authenticated identity from
// the held token, or failing that from the vault. Any failure reverts the
// facade to the logged-out state silently; absence is reported through ok,
// never as an error.
func (s *Service) RestoreSession(ctx context.Context) (resp AuthResponse, ok bool) {
	logger := operationLogger(ctx, s.logger, "RestoreSession")

	token := s.sessionToken()
	if token == "" && s.vault != nil {
		stored, found, err := s.vault.Load(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load persisted token", "error", err)
			return AuthResponse{}, false
		}
		if !found {
			return AuthResponse{}, false
		}
		token = stored
	}
	if token == "" {
		return AuthResponse{}, false
	}

	resp, err := s.backend.RestoreSession(ctx, token)
	if err != nil {
		logger.InfoContext(ctx, "session not restorable, reverting to logged out", "error_kind", ErrorKind(err))
		s.clearSession(ctx)
		return AuthResponse{}, false
	}

	s.adoptSession(ctx, resp)
	logger.InfoContext(ctx, "session restored", "user_id", resp.User.ID)
	return resp, true
}

// Logout revokes the backend side of the session when one is held and clears
// the local state either way. Calling it without a session is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	logger := operationLogger(ctx, s.logger, "Logout")

	token := s.sessionToken()
	s.clearSession(ctx)
	if token == "" {
		return nil
	}

	if err := s.backend.Logout(ctx, token); err != nil {
		logger.ErrorContext(ctx, "backend logout failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "logged out")
	return nil
}

// Categories returns the catalog, substituting the built-in defaults when the
// backing store is empty. The result is never empty.
func (s *Service) Categories(ctx context.Context) ([]EventCategory, error) {
	categories, err := s.backend.Categories(ctx)
	if err != nil {
		operationLogger(ctx, s.logger, "Categories").ErrorContext(ctx, "catalog fetch failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	if len(categories) == 0 {
		return DefaultCategories(), nil
	}
	return categories, nil
}

// NearbyEvents returns every event within radiusKm of the coordinate.
func (s *Service) NearbyEvents(ctx context.Context, lat, lng, radiusKm float64) ([]Event, error) {
	events, err := s.backend.NearbyEvents(ctx, lat, lng, radiusKm)
	if err != nil {
		operationLogger(ctx, s.logger, "NearbyEvents").ErrorContext(ctx, "nearby query failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return events, nil
}

// EventDetail returns one event, or ErrNotFound.
func (s *Service) EventDetail(ctx context.Context, id string) (Event, error) {
	event, err := s.backend.EventDetail(ctx, id)
	if err != nil {
		operationLogger(ctx, s.logger, "EventDetail", "event_id", id).ErrorContext(ctx, "event lookup failed", "error", err, "error_kind", ErrorKind(err))
		return Event{}, err
	}
	return event, nil
}

// CreateEvent stores a new event owned by the current session's account. It
// fails with ErrUnauthorized before reaching the backend when no session is
// held.
func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (Event, error) {
	logger := operationLogger(ctx, s.logger, "CreateEvent", "title", req.Title)

	token := s.sessionToken()
	if token == "" {
		return Event{}, ErrUnauthorized
	}

	event, err := s.backend.CreateEvent(ctx, token, req)
	if err != nil {
		logger.ErrorContext(ctx, "event creation failed", "error", err, "error_kind", ErrorKind(err))
		return Event{}, err
	}
	logger.InfoContext(ctx, "event created", "event_id", event.ID)
	return event, nil
}

// Attendance returns every RSVP record for the event.
func (s *Service) Attendance(ctx context.Context, eventID string) ([]EventAttendance, error) {
	records, err := s.backend.Attendance(ctx, eventID)
	if err != nil {
		operationLogger(ctx, s.logger, "Attendance", "event_id", eventID).ErrorContext(ctx, "attendance lookup failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return records, nil
}

// SetAttendance upserts the current user's RSVP for the event.
func (s *Service) SetAttendance(ctx context.Context, eventID string, status AttendanceStatus) (EventAttendance, error) {
	logger := operationLogger(ctx, s.logger, "SetAttendance", "event_id", eventID, "status", string(status))

	token := s.sessionToken()
	if token == "" {
		return EventAttendance{}, ErrUnauthorized
	}

	record, err := s.backend.SetAttendance(ctx, token, eventID, status)
	if err != nil {
		logger.ErrorContext(ctx, "attendance update failed", "error", err, "error_kind", ErrorKind(err))
		return EventAttendance{}, err
	}
	return record, nil
}

// MyEvents returns every event created by the current session's account.
func (s *Service) MyEvents(ctx context.Context) ([]Event, error) {
	token := s.sessionToken()
	if token == "" {
		return nil, ErrUnauthorized
	}

	events, err := s.backend.EventsCreatedBy(ctx, token)
	if err != nil {
		operationLogger(ctx, s.logger, "MyEvents").ErrorContext(ctx, "own events query failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return events, nil
}

// CurrentUser returns the profile snapshot of the active session, if any.
func (s *Service) CurrentUser() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// sessionToken returns the held bearer token, or empty when logged out.
func (s *Service) sessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// adoptSession installs the authenticated identity and persists its token.
// Vault failures are logged, not surfaced: the in-memory session is already
// valid and losing durability must not fail a successful authentication.
func (s *Service) adoptSession(ctx context.Context, resp AuthResponse) {
	s.mu.Lock()
	s.token = resp.Token
	user := resp.User
	s.user = &user
	s.mu.Unlock()

	if s.vault == nil {
		return
	}
	if err := s.vault.Save(ctx, resp.Token); err != nil {
		operationLogger(ctx, s.logger, "adoptSession").ErrorContext(ctx, "failed to persist token", "error", err)
	}
}

func (s *Service) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.vault == nil {
		return
	}
	if err := s.vault.Clear(ctx); err != nil {
		operationLogger(ctx, s.logger, "clearSession").ErrorContext(ctx, "failed to clear persisted token", "error", err)
	}
}
