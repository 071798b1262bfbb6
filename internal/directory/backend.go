package directory

import "context"

// Authenticator issues, restores, and revokes directory sessions.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	Register(ctx context.Context, params RegisterParams) (AuthResponse, error)
	// RestoreSession resolves a previously issued token back to its account.
	// It returns ErrUnauthorized when the token no longer resolves.
	RestoreSession(ctx context.Context, token string) (AuthResponse, error)
	// Logout invalidates the backend side of a session. It is idempotent:
	// revoking an unknown token is not an error.
	Logout(ctx context.Context, token string) error
}

// CatalogReader serves the fixed category catalog.
type CatalogReader interface {
	Categories(ctx context.Context) ([]EventCategory, error)
}

// EventStore serves and creates event documents.
type EventStore interface {
	// NearbyEvents returns every event whose great-circle distance from
	// (lat, lng) is at most radiusKm.
	NearbyEvents(ctx context.Context, lat, lng, radiusKm float64) ([]Event, error)
	EventDetail(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, token string, req CreateEventRequest) (Event, error)
	// EventsCreatedBy returns every event created by the token's account.
	EventsCreatedBy(ctx context.Context, token string) ([]Event, error)
}

// AttendanceStore serves and reconciles RSVP records.
type AttendanceStore interface {
	Attendance(ctx context.Context, eventID string) ([]EventAttendance, error)
	// SetAttendance upserts the caller's record for the event: an existing
	// (event, user) record keeps its id and has status and timestamp
	// overwritten, otherwise a new record is inserted.
	SetAttendance(ctx context.Context, token string, eventID string, status AttendanceStatus) (EventAttendance, error)
}

// Backend is the full directory contract a concrete backend satisfies. The
// in-memory and remote variants are selected at construction time via
// configuration, never by swapping source files.
type Backend interface {
	Authenticator
	CatalogReader
	EventStore
	AttendanceStore
}
