package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/event-directory/internal/directory"
)

var (
	userCounter  uint64
	eventCounter uint64
)

var referenceTime = time.Date(2026, time.June, 12, 18, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic account profile that can be
// materialised for directory tests.
type UserFixture struct {
	Email       string
	Password    string
	DisplayName string
	City        string
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		Email:       fmt.Sprintf("user-%03d@example.com", idx),
		Password:    fmt.Sprintf("password-%03d", idx),
		DisplayName: fmt.Sprintf("User %03d", idx),
		City:        "Istanbul",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserDisplayName overrides the generated display name.
func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) {
		f.DisplayName = name
	}
}

// WithUserCity overrides the generated home city.
func WithUserCity(city string) UserOption {
	return func(f *UserFixture) {
		f.City = city
	}
}

// RegisterParams returns the fixture as registration input.
func (f UserFixture) RegisterParams() directory.RegisterParams {
	return directory.RegisterParams{
		Email:       f.Email,
		Password:    f.Password,
		DisplayName: f.DisplayName,
		City:        f.City,
	}
}

// ----------------------------- Event fixtures -----------------------------

// EventFixture represents a deterministic event pinned near the reference
// coordinate.
type EventFixture struct {
	ID              string
	Title           string
	Description     string
	CategoryKey     directory.CategoryKey
	Latitude        float64
	Longitude       float64
	StartTime       time.Time
	EndTime         time.Time
	CreatedAt       time.Time
	CreatedByUserID string
	IsPublic        bool
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides. Successive fixtures start an hour apart and drift slightly
// north-east so nearby queries stay inside a small radius.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	id := fmt.Sprintf("event-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := EventFixture{
		ID:              id,
		Title:           fmt.Sprintf("Event %03d", idx),
		Description:     fmt.Sprintf("Fixture event %03d", idx),
		CategoryKey:     directory.CategoryKeys()[int(idx)%len(directory.CategoryKeys())],
		Latitude:        41.03 + float64(idx)*0.001,
		Longitude:       29.00 + float64(idx)*0.001,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		CreatedAt:       referenceTime,
		CreatedByUserID: "user-001",
		IsPublic:        true,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventTitle overrides the generated title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) {
		f.Title = title
	}
}

// WithEventCategory overrides the generated category key.
func WithEventCategory(key directory.CategoryKey) EventOption {
	return func(f *EventFixture) {
		f.CategoryKey = key
	}
}

// WithEventCoordinate places the event at the given coordinate.
func WithEventCoordinate(lat, lng float64) EventOption {
	return func(f *EventFixture) {
		f.Latitude = lat
		f.Longitude = lng
	}
}

// WithEventWindow sets the start and end instants.
func WithEventWindow(start, end time.Time) EventOption {
	return func(f *EventFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// Directory returns the fixture as a directory.Event value.
func (f EventFixture) Directory() directory.Event {
	return directory.Event{
		ID:              f.ID,
		Title:           f.Title,
		Description:     f.Description,
		CategoryKey:     f.CategoryKey,
		Latitude:        f.Latitude,
		Longitude:       f.Longitude,
		StartTimeUTC:    f.StartTime,
		EndTimeUTC:      f.EndTime,
		CreatedAtUTC:    f.CreatedAt,
		CreatedByUserID: f.CreatedByUserID,
		IsPublic:        f.IsPublic,
	}
}

// Request returns the fixture as creation input.
func (f EventFixture) Request() directory.CreateEventRequest {
	return directory.CreateEventRequest{
		Title:        f.Title,
		Description:  f.Description,
		CategoryKey:  f.CategoryKey,
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
		StartTimeUTC: f.StartTime,
		EndTimeUTC:   f.EndTime,
		IsPublic:     f.IsPublic,
	}
}
