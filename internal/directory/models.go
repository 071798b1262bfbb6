package directory

import "time"

// CategoryKey identifies one of the fixed event categories.
type CategoryKey string

const (
	CategoryCulture   CategoryKey = "culture"
	CategorySports    CategoryKey = "sports"
	CategoryLifestyle CategoryKey = "lifestyle"
	CategoryNight     CategoryKey = "night"
)

// CategoryKeys lists every known category key in catalog order.
func CategoryKeys() []CategoryKey {
	return []CategoryKey{CategoryCulture, CategorySports, CategoryLifestyle, CategoryNight}
}

// Valid reports whether the key belongs to the closed category set.
func (k CategoryKey) Valid() bool {
	switch k {
	case CategoryCulture, CategorySports, CategoryLifestyle, CategoryNight:
		return true
	}
	return false
}

// DisplayName returns the human readable catalog name for the key.
func (k CategoryKey) DisplayName() string {
	switch k {
	case CategoryCulture:
		return "Culture"
	case CategorySports:
		return "Sports"
	case CategoryLifestyle:
		return "Lifestyle"
	case CategoryNight:
		return "Night"
	}
	return string(k)
}

// DefaultColorHex returns the fallback color used when a category document
// carries no color of its own.
func (k CategoryKey) DefaultColorHex() string {
	switch k {
	case CategoryCulture:
		return "#8E44AD"
	case CategorySports:
		return "#2980B9"
	case CategoryLifestyle:
		return "#E67E22"
	case CategoryNight:
		return "#C0392B"
	}
	return "#7F8C8D"
}

// AttendanceStatus captures a user's RSVP decision for an event.
type AttendanceStatus string

const (
	StatusGoing    AttendanceStatus = "going"
	StatusMaybe    AttendanceStatus = "maybe"
	StatusNotGoing AttendanceStatus = "notGoing"
)

// Valid reports whether the status is one of the known RSVP values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusNotGoing:
		return true
	}
	return false
}

// User is a directory account profile.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	City         string    `json:"city"`
	CreatedAtUTC time.Time `json:"createdAtUtc"`
}

// EventCategory is a catalog entry describing one category key.
type EventCategory struct {
	ID       string      `json:"id"`
	Key      CategoryKey `json:"key"`
	Name     string      `json:"name"`
	ColorHex string      `json:"colorHex"`
}

// Color resolves the effective color, falling back to the key default when
// the stored hex is empty.
func (c EventCategory) Color() string {
	if c.ColorHex != "" {
		return c.ColorHex
	}
	return c.Key.DefaultColorHex()
}

// Event is a published event pinned to a coordinate.
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	CategoryKey     CategoryKey `json:"categoryKey"`
	Latitude        float64     `json:"latitude"`
	Longitude       float64     `json:"longitude"`
	StartTimeUTC    time.Time   `json:"startTimeUtc"`
	EndTimeUTC      time.Time   `json:"endTimeUtc"`
	CreatedAtUTC    time.Time   `json:"createdAtUtc"`
	CreatedByUserID string      `json:"createdByUserId"`
	IsPublic        bool        `json:"isPublic"`
}

// EventAttendance is one user's RSVP record for one event. At most one record
// exists per (EventID, UserID) pair.
type EventAttendance struct {
	ID           string           `json:"id"`
	EventID      string           `json:"eventId"`
	UserID       string           `json:"userId"`
	Status       AttendanceStatus `json:"status"`
	CreatedAtUTC time.Time        `json:"createdAtUtc"`
}

// AuthResponse is the credential returned by a successful authentication:
// an opaque bearer token plus a snapshot of the account profile.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterParams carries the fields required to create an account.
type RegisterParams struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	City        string `json:"city"`
}

// CreateEventRequest carries the caller supplied fields for a new event.
type CreateEventRequest struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	CategoryKey  CategoryKey `json:"categoryKey"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	StartTimeUTC time.Time   `json:"startTimeUtc"`
	EndTimeUTC   time.Time   `json:"endTimeUtc"`
	IsPublic     bool        `json:"isPublic"`
}

// Validate checks field shape. No backend enforces it; callers that want the
// check run it themselves before submitting.
func (r CreateEventRequest) Validate() error {
	vErr := &ValidationError{}
	if r.Title == "" {
		vErr.add("title", "title is required")
	}
	if !r.CategoryKey.Valid() {
		vErr.add("categoryKey", "unknown category key")
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		vErr.add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		vErr.add("longitude", "longitude must be between -180 and 180")
	}
	if !r.StartTimeUTC.Before(r.EndTimeUTC) {
		vErr.add("endTimeUtc", "start must be before end")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// DefaultCategories returns the built-in catalog, one entry per category key.
// It backs the never-empty catalog guarantee when the remote store has no
// category documents.
func DefaultCategories() []EventCategory {
	keys := CategoryKeys()
	categories := make([]EventCategory, 0, len(keys))
	for _, key := range keys {
		categories = append(categories, EventCategory{
			ID:       "default-" + string(key),
			Key:      key,
			Name:     key.DisplayName(),
			ColorHex: key.DefaultColorHex(),
		})
	}
	return categories
}
