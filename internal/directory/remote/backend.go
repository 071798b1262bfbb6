// Package remote implements the directory backend against the live HTTP
// service: JSON documents, bearer tokens, ISO-8601 timestamps. Collaborator
// failures are normalized into the directory error taxonomy and surfaced
// once; no retries happen here.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/event-directory/internal/directory"
)

const defaultTimeout = 15 * time.Second

// Backend is an HTTP client for the live directory service.
type Backend struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
}

// New builds a backend talking to the service rooted at baseURL
// (e.g. "https://api.spotlight.app/api"). client may be nil, in which case a
// default client with a 15 second timeout is used.
func New(baseURL string, client *http.Client, logger *slog.Logger) (*Backend, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("remote: base url %q must be absolute", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{baseURL: parsed, client: client, logger: logger}, nil
}

// Login implements directory.Authenticator.
func (b *Backend) Login(ctx context.Context, email, password string) (directory.AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp directory.AuthResponse
	if err := b.request(ctx, http.MethodPost, "auth/login", nil, payload, "", &resp); err != nil {
		return directory.AuthResponse{}, err
	}
	return resp, nil
}

// Register implements directory.Authenticator.
func (b *Backend) Register(ctx context.Context, params directory.RegisterParams) (directory.AuthResponse, error) {
	var resp directory.AuthResponse
	if err := b.request(ctx, http.MethodPost, "auth/register", nil, params, "", &resp); err != nil {
		return directory.AuthResponse{}, err
	}
	return resp, nil
}

// RestoreSession asks the identity provider whether the token still resolves
// to a live session.
func (b *Backend) RestoreSession(ctx context.Context, token string) (directory.AuthResponse, error) {
	var resp directory.AuthResponse
	if err := b.request(ctx, http.MethodGet, "auth/session", nil, nil, token, &resp); err != nil {
		return directory.AuthResponse{}, err
	}
	return resp, nil
}

// Logout revokes the remote session. A token the provider no longer knows is
// treated as already logged out.
func (b *Backend) Logout(ctx context.Context, token string) error {
	err := b.request(ctx, http.MethodPost, "auth/logout", nil, nil, token, nil)
	if errors.Is(err, directory.ErrUnauthorized) {
		return nil
	}
	return err
}

// Categories implements directory.CatalogReader.
func (b *Backend) Categories(ctx context.Context) ([]directory.EventCategory, error) {
	var categories []directory.EventCategory
	if err := b.request(ctx, http.MethodGet, "categories", nil, nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// NearbyEvents implements directory.EventStore. The server filters by
// great-circle distance and returns results in start-time ascending order,
// which is preserved here.
func (b *Backend) NearbyEvents(ctx context.Context, lat, lng, radiusKm float64) ([]directory.Event, error) {
	query := url.Values{
		"lat":      {formatFloat(lat)},
		"lng":      {formatFloat(lng)},
		"radiusKm": {formatFloat(radiusKm)},
	}
	var events []directory.Event
	if err := b.request(ctx, http.MethodGet, "events/near", query, nil, "", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventDetail implements directory.EventStore.
func (b *Backend) EventDetail(ctx context.Context, id string) (directory.Event, error) {
	var event directory.Event
	if err := b.request(ctx, http.MethodGet, "events/"+url.PathEscape(id), nil, nil, "", &event); err != nil {
		return directory.Event{}, err
	}
	return event, nil
}

// CreateEvent implements directory.EventStore.
func (b *Backend) CreateEvent(ctx context.Context, token string, req directory.CreateEventRequest) (directory.Event, error) {
	var event directory.Event
	if err := b.request(ctx, http.MethodPost, "events", nil, req, token, &event); err != nil {
		return directory.Event{}, err
	}
	return event, nil
}

// EventsCreatedBy implements directory.EventStore.
func (b *Backend) EventsCreatedBy(ctx context.Context, token string) ([]directory.Event, error) {
	var events []directory.Event
	if err := b.request(ctx, http.MethodGet, "me/events", nil, nil, token, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Attendance implements directory.AttendanceStore.
func (b *Backend) Attendance(ctx context.Context, eventID string) ([]directory.EventAttendance, error) {
	var records []directory.EventAttendance
	path := "events/" + url.PathEscape(eventID) + "/attendance"
	if err := b.request(ctx, http.MethodGet, path, nil, nil, "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SetAttendance implements directory.AttendanceStore. The live store keys the
// record by the (event, user) pair, so repeated calls update one document.
func (b *Backend) SetAttendance(ctx context.Context, token string, eventID string, status directory.AttendanceStatus) (directory.EventAttendance, error) {
	payload := map[string]string{"status": string(status)}
	var record directory.EventAttendance
	path := "events/" + url.PathEscape(eventID) + "/attendance"
	if err := b.request(ctx, http.MethodPost, path, nil, payload, token, &record); err != nil {
		return directory.EventAttendance{}, err
	}
	return record, nil
}

// request performs one HTTP round trip: encode body, attach the bearer token
// when present, map the response status into the error taxonomy, and decode
// the payload into out when non-nil.
func (b *Backend) request(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	op := method + " " + path

	target := *b.baseURL
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("remote: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return &directory.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return b.normalizeStatus(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &directory.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorBody is the wire shape of a failure response.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func (b *Backend) normalizeStatus(op string, resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return directory.ErrUnauthorized
	case http.StatusNotFound:
		return fmt.Errorf("remote: %s: %w", op, directory.ErrNotFound)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		fields := body.Errors
		if fields == nil {
			fields = map[string]string{}
		}
		if len(fields) == 0 && body.Message != "" {
			fields["request"] = body.Message
		}
		return &directory.ValidationError{FieldErrors: fields}
	default:
		message := body.Message
		if message == "" {
			message = resp.Status
		}
		return &directory.TransportError{Op: op, Err: fmt.Errorf("unexpected response: %s", message)}
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
