// Package memory implements the directory backend against an in-memory
// dataset. It stands in for the live backend in tests and offline demos and
// doubles as the document store behind the reference wire server.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/event-directory/internal/directory"
	"github.com/example/event-directory/internal/geo"
)

type account struct {
	user         directory.User
	passwordHash string
}

// Options tunes the deterministic knobs of the backend. Zero values select
// production behavior: wall clock time and random UUIDs.
type Options struct {
	Now      func() time.Time
	NewID    func() string
	NewToken func() string
	// AttendanceID derives the id for a newly inserted RSVP record. The
	// default mints a random UUID; the reference server installs the
	// deterministic "<eventId>-<userId>" composite policy of the live store.
	AttendanceID func(eventID, userID string) string
}

// Backend holds the whole dataset behind one mutex. Mutations are serialized,
// so the attendance check-then-act upsert cannot lose updates; reads copy out
// results and never mutate state.
type Backend struct {
	now          func() time.Time
	newID        func() string
	newToken     func() string
	attendanceID func(eventID, userID string) string

	mu         sync.Mutex
	accounts   map[string]*account // keyed by lowercased email
	tokens     map[string]string   // token -> email
	categories []directory.EventCategory
	events     []directory.Event // insertion order preserved
	attendance []directory.EventAttendance
}

// New constructs a backend seeded with the demo dataset: one demo account,
// the full catalog, three sample events in the near future, and one RSVP.
func New(opts Options) *Backend {
	b := &Backend{
		now:          opts.Now,
		newID:        opts.NewID,
		newToken:     opts.NewToken,
		attendanceID: opts.AttendanceID,
		accounts:     make(map[string]*account),
		tokens:       make(map[string]string),
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.newID == nil {
		b.newID = uuid.NewString
	}
	if b.newToken == nil {
		b.newToken = uuid.NewString
	}
	if b.attendanceID == nil {
		b.attendanceID = func(string, string) string { return b.newID() }
	}

	b.seed()
	return b
}

// CompositeAttendanceID is the deterministic id policy of the live document
// store: one document per (event, user) pair.
func CompositeAttendanceID(eventID, userID string) string {
	return eventID + "-" + userID
}

// Login authenticates an account, creating one on the fly for emails never
// seen before. Known accounts verify the stored password hash.
func (b *Backend) Login(_ context.Context, email, password string) (directory.AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return directory.AuthResponse{}, directory.ErrInvalidCredentials
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, ok := b.accounts[email]
	if !ok {
		created, err := b.createAccountLocked(email, password, displayNameFromEmail(email), "")
		if err != nil {
			return directory.AuthResponse{}, err
		}
		acct = created
	} else if err := verifyPassword(acct.passwordHash, password); err != nil {
		return directory.AuthResponse{}, directory.ErrInvalidCredentials
	}

	return b.issueTokenLocked(email, acct), nil
}

// Register creates an account bound to the email, replacing any prior one,
// and issues a session for it.
func (b *Backend) Register(_ context.Context, params directory.RegisterParams) (directory.AuthResponse, error) {
	email := normalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return directory.AuthResponse{}, directory.ErrInvalidCredentials
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if displayName == "" {
		displayName = displayNameFromEmail(email)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.createAccountLocked(email, params.Password, displayName, strings.TrimSpace(params.City))
	if err != nil {
		return directory.AuthResponse{}, err
	}
	return b.issueTokenLocked(email, acct), nil
}

// RestoreSession resolves a previously issued token back to its account.
func (b *Backend) RestoreSession(_ context.Context, token string) (directory.AuthResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.accountForTokenLocked(token)
	if err != nil {
		return directory.AuthResponse{}, err
	}
	return directory.AuthResponse{Token: token, User: acct.user}, nil
}

// Logout forgets the token. Revoking an unknown token is a no-op.
func (b *Backend) Logout(_ context.Context, token string) error {
	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return nil
}

// Categories returns the seeded catalog.
func (b *Backend) Categories(_ context.Context) ([]directory.EventCategory, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]directory.EventCategory, len(b.categories))
	copy(out, b.categories)
	return out, nil
}

// NearbyEvents returns every event within radiusKm of the coordinate, in
// insertion order.
func (b *Backend) NearbyEvents(_ context.Context, lat, lng, radiusKm float64) ([]directory.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]directory.Event, 0, len(b.events))
	for _, event := range b.events {
		if geo.DistanceKm(lat, lng, event.Latitude, event.Longitude) <= radiusKm {
			out = append(out, event)
		}
	}
	return out, nil
}

// EventDetail returns the event with the given id, or ErrNotFound.
func (b *Backend) EventDetail(_ context.Context, id string) (directory.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, event := range b.events {
		if event.ID == id {
			return event, nil
		}
	}
	return directory.Event{}, fmt.Errorf("event %q: %w", id, directory.ErrNotFound)
}

// CreateEvent stores a new event owned by the token's account. Fields are
// trusted as supplied; only the id and creation timestamp are assigned here.
func (b *Backend) CreateEvent(_ context.Context, token string, req directory.CreateEventRequest) (directory.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.accountForTokenLocked(token)
	if err != nil {
		return directory.Event{}, err
	}
	return b.insertEventLocked(acct.user.ID, req), nil
}

// EventsCreatedBy returns every event created by the token's account.
func (b *Backend) EventsCreatedBy(_ context.Context, token string) ([]directory.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.accountForTokenLocked(token)
	if err != nil {
		return nil, err
	}
	return b.eventsByUserLocked(acct.user.ID), nil
}

// Attendance returns every RSVP record for the event.
func (b *Backend) Attendance(_ context.Context, eventID string) ([]directory.EventAttendance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]directory.EventAttendance, 0, 4)
	for _, record := range b.attendance {
		if record.EventID == eventID {
			out = append(out, record)
		}
	}
	return out, nil
}

// SetAttendance upserts the caller's RSVP for the event: the existing
// (event, user) record keeps its id and gets the new status and timestamp,
// otherwise a fresh record is inserted.
func (b *Backend) SetAttendance(_ context.Context, token string, eventID string, status directory.AttendanceStatus) (directory.EventAttendance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.accountForTokenLocked(token)
	if err != nil {
		return directory.EventAttendance{}, err
	}
	return b.upsertAttendanceLocked(acct.user.ID, eventID, status), nil
}

// --- user-id level operations, used by the reference wire server ---

// UserByID returns the profile for an account id.
func (b *Backend) UserByID(_ context.Context, id string) (directory.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, acct := range b.accounts {
		if acct.user.ID == id {
			return acct.user, nil
		}
	}
	return directory.User{}, fmt.Errorf("user %q: %w", id, directory.ErrNotFound)
}

// ResolveLogin authenticates without issuing a backend token, for callers
// that mint their own session credential.
func (b *Backend) ResolveLogin(ctx context.Context, email, password string) (directory.User, error) {
	resp, err := b.Login(ctx, email, password)
	if err != nil {
		return directory.User{}, err
	}
	// The throwaway token must not accumulate.
	b.mu.Lock()
	delete(b.tokens, resp.Token)
	b.mu.Unlock()
	return resp.User, nil
}

// ResolveRegister creates an account without issuing a backend token.
func (b *Backend) ResolveRegister(ctx context.Context, params directory.RegisterParams) (directory.User, error) {
	resp, err := b.Register(ctx, params)
	if err != nil {
		return directory.User{}, err
	}
	b.mu.Lock()
	delete(b.tokens, resp.Token)
	b.mu.Unlock()
	return resp.User, nil
}

// CreateEventFor stores a new event owned by the given account id.
func (b *Backend) CreateEventFor(_ context.Context, userID string, req directory.CreateEventRequest) (directory.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertEventLocked(userID, req), nil
}

// EventsCreatedByUser returns every event created by the account id.
func (b *Backend) EventsCreatedByUser(_ context.Context, userID string) ([]directory.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eventsByUserLocked(userID), nil
}

// SetAttendanceFor upserts the RSVP of the given account id.
func (b *Backend) SetAttendanceFor(_ context.Context, userID, eventID string, status directory.AttendanceStatus) (directory.EventAttendance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.upsertAttendanceLocked(userID, eventID, status), nil
}

// --- internals, called with b.mu held ---

func (b *Backend) createAccountLocked(email, password, displayName, city string) (*account, error) {
	hash, err := hashPassword(password, defaultArgon2idParams)
	if err != nil {
		return nil, err
	}

	acct := &account{
		user: directory.User{
			ID:           b.newID(),
			DisplayName:  displayName,
			City:         city,
			CreatedAtUTC: b.now().UTC(),
		},
		passwordHash: hash,
	}
	b.accounts[email] = acct
	return acct, nil
}

func (b *Backend) issueTokenLocked(email string, acct *account) directory.AuthResponse {
	token := b.newToken()
	b.tokens[token] = email
	return directory.AuthResponse{Token: token, User: acct.user}
}

func (b *Backend) accountForTokenLocked(token string) (*account, error) {
	email, ok := b.tokens[token]
	if !ok {
		return nil, directory.ErrUnauthorized
	}
	acct, ok := b.accounts[email]
	if !ok {
		return nil, directory.ErrUnauthorized
	}
	return acct, nil
}

func (b *Backend) insertEventLocked(userID string, req directory.CreateEventRequest) directory.Event {
	event := directory.Event{
		ID:              b.newID(),
		Title:           req.Title,
		Description:     req.Description,
		CategoryKey:     req.CategoryKey,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		StartTimeUTC:    req.StartTimeUTC,
		EndTimeUTC:      req.EndTimeUTC,
		CreatedAtUTC:    b.now().UTC(),
		CreatedByUserID: userID,
		IsPublic:        req.IsPublic,
	}
	b.events = append(b.events, event)
	return event
}

func (b *Backend) eventsByUserLocked(userID string) []directory.Event {
	out := make([]directory.Event, 0, 4)
	for _, event := range b.events {
		if event.CreatedByUserID == userID {
			out = append(out, event)
		}
	}
	return out
}

func (b *Backend) upsertAttendanceLocked(userID, eventID string, status directory.AttendanceStatus) directory.EventAttendance {
	for i := range b.attendance {
		if b.attendance[i].EventID == eventID && b.attendance[i].UserID == userID {
			b.attendance[i].Status = status
			b.attendance[i].CreatedAtUTC = b.now().UTC()
			return b.attendance[i]
		}
	}

	record := directory.EventAttendance{
		ID:           b.attendanceID(eventID, userID),
		EventID:      eventID,
		UserID:       userID,
		Status:       status,
		CreatedAtUTC: b.now().UTC(),
	}
	b.attendance = append(b.attendance, record)
	return record
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// displayNameFromEmail derives a name from the email's local part.
func displayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}
