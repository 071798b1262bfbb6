package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/event-directory/internal/directory"
	"github.com/example/event-directory/internal/directory/memory"
	"github.com/example/event-directory/internal/testfixtures"
)

var testStart = testfixtures.ReferenceTime()

func newTestBackend(t *testing.T) *memory.Backend {
	t.Helper()
	return testfixtures.NewServiceFactory().MemoryBackend()
}

func login(t *testing.T, b *memory.Backend, email, password string) directory.AuthResponse {
	t.Helper()

	resp, err := b.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", email, err)
	}
	return resp
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("auto-creates unknown accounts", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		resp := login(t, b, "ayse.k@example.com", "secret")

		if resp.Token == "" {
			t.Fatal("expected a token")
		}
		if resp.User.DisplayName != "ayse.k" {
			t.Fatalf("expected display name derived from local part, got %q", resp.User.DisplayName)
		}
	})

	t.Run("verifies password for known accounts", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		login(t, b, "ayse@example.com", "secret")

		_, err := b.Login(context.Background(), "ayse@example.com", "wrong")
		if !errors.Is(err, directory.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("issues independent concurrent tokens", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		first := login(t, b, "ayse@example.com", "secret")
		second := login(t, b, "ayse@example.com", "secret")

		if first.Token == second.Token {
			t.Fatal("expected distinct tokens per login")
		}
		if _, err := b.RestoreSession(context.Background(), first.Token); err != nil {
			t.Fatalf("first token should stay valid: %v", err)
		}
	})

	t.Run("signs in the seeded demo account", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		resp := login(t, b, memory.DemoEmail, memory.DemoPassword)
		if resp.User.City != "Istanbul" {
			t.Fatalf("unexpected demo profile: %+v", resp.User)
		}
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates an account with the supplied profile", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		fixture := testfixtures.NewUserFixture(
			testfixtures.WithUserEmail("Mert@Example.com"),
			testfixtures.WithUserDisplayName("Mert"),
			testfixtures.WithUserCity("Ankara"),
		)
		resp, err := b.Register(context.Background(), fixture.RegisterParams())
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.User.City != "Ankara" || resp.User.DisplayName != "Mert" {
			t.Fatalf("unexpected profile: %+v", resp.User)
		}

		// Email lookup is case-insensitive.
		login(t, b, "mert@example.com", fixture.Password)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		_, err := b.Register(context.Background(), directory.RegisterParams{Email: "x@example.com"})
		if !errors.Is(err, directory.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	resp := login(t, b, memory.DemoEmail, memory.DemoPassword)
	ctx := context.Background()

	if err := b.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := b.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("repeated Logout should be a no-op: %v", err)
	}
	if _, err := b.RestoreSession(ctx, resp.Token); !errors.Is(err, directory.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be unauthorized, got %v", err)
	}
}

func TestCategoriesSeeded(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	categories, err := b.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(categories) != 4 {
		t.Fatalf("expected the full catalog, got %d entries", len(categories))
	}
}

func TestNearbyEvents(t *testing.T) {
	t.Parallel()

	// Seed coordinates sit 1.64, 1.79, and 1.88 km from the query point.
	b := newTestBackend(t)
	ctx := context.Background()

	t.Run("radius covering all seeds", func(t *testing.T) {
		t.Parallel()

		events, err := b.NearbyEvents(ctx, 41.03, 29.00, 5)
		if err != nil {
			t.Fatalf("NearbyEvents failed: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("expected all 3 seeded events within 5 km, got %d", len(events))
		}
		if events[0].Title != "Open-Air Film Night" {
			t.Fatalf("expected insertion order, got %q first", events[0].Title)
		}
	})

	t.Run("radius excluding farther seeds", func(t *testing.T) {
		t.Parallel()

		events, err := b.NearbyEvents(ctx, 41.03, 29.00, 1.7)
		if err != nil {
			t.Fatalf("NearbyEvents failed: %v", err)
		}
		if len(events) != 1 || events[0].Latitude != 41.0392 {
			t.Fatalf("expected only the closest event, got %+v", events)
		}
	})

	t.Run("empty result far away", func(t *testing.T) {
		t.Parallel()

		events, err := b.NearbyEvents(ctx, 48.8566, 2.3522, 10)
		if err != nil {
			t.Fatalf("NearbyEvents failed: %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no events near Paris, got %d", len(events))
		}
	})
}

func TestEventDetail(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	ctx := context.Background()

	events, err := b.NearbyEvents(ctx, 41.03, 29.00, 5)
	if err != nil {
		t.Fatalf("NearbyEvents failed: %v", err)
	}

	got, err := b.EventDetail(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("EventDetail failed: %v", err)
	}
	if got != events[1] {
		t.Fatalf("expected %+v, got %+v", events[1], got)
	}

	if _, err := b.EventDetail(ctx, "missing"); !errors.Is(err, directory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateEvent(t *testing.T) {
	t.Parallel()

	req := testfixtures.NewEventFixture(
		testfixtures.WithEventTitle("Pottery Workshop"),
		testfixtures.WithEventCategory(directory.CategoryLifestyle),
		testfixtures.WithEventCoordinate(41.0255, 28.9744),
		testfixtures.WithEventWindow(testStart.Add(24*time.Hour), testStart.Add(26*time.Hour)),
	).Request()

	t.Run("round-trips caller fields", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		ctx := context.Background()
		session := login(t, b, "creator@example.com", "pw")

		created, err := b.CreateEvent(ctx, session.Token, req)
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if created.ID == "" || created.CreatedAtUTC.IsZero() {
			t.Fatalf("expected assigned id and timestamp, got %+v", created)
		}
		if created.CreatedByUserID != session.User.ID {
			t.Fatalf("expected ownership by %s, got %s", session.User.ID, created.CreatedByUserID)
		}

		fetched, err := b.EventDetail(ctx, created.ID)
		if err != nil {
			t.Fatalf("EventDetail failed: %v", err)
		}
		if fetched.Title != req.Title || fetched.Description != req.Description ||
			fetched.CategoryKey != req.CategoryKey || fetched.Latitude != req.Latitude ||
			fetched.Longitude != req.Longitude || !fetched.StartTimeUTC.Equal(req.StartTimeUTC) ||
			!fetched.EndTimeUTC.Equal(req.EndTimeUTC) || fetched.IsPublic != req.IsPublic {
			t.Fatalf("round-trip mismatch: %+v", fetched)
		}
	})

	t.Run("rejects unknown tokens without mutating", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		ctx := context.Background()

		before, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5000)
		_, err := b.CreateEvent(ctx, "bogus-token", req)
		if !errors.Is(err, directory.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		after, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5000)
		if len(after) != len(before) {
			t.Fatalf("event collection mutated by rejected call: %d -> %d", len(before), len(after))
		}
	})
}

func TestEventsCreatedBy(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	ctx := context.Background()
	session := login(t, b, "creator@example.com", "pw")

	if _, err := b.CreateEvent(ctx, session.Token, directory.CreateEventRequest{Title: "Mine", CategoryKey: directory.CategoryCulture}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	mine, err := b.EventsCreatedBy(ctx, session.Token)
	if err != nil {
		t.Fatalf("EventsCreatedBy failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Mine" {
		t.Fatalf("expected only the caller's event, got %+v", mine)
	}

	demo := login(t, b, memory.DemoEmail, memory.DemoPassword)
	seeded, err := b.EventsCreatedBy(ctx, demo.Token)
	if err != nil {
		t.Fatalf("EventsCreatedBy failed: %v", err)
	}
	if len(seeded) != 3 {
		t.Fatalf("expected the 3 seeded events for the demo user, got %d", len(seeded))
	}
}

func TestSetAttendance(t *testing.T) {
	t.Parallel()

	t.Run("upsert keeps one record per pair", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		ctx := context.Background()
		session := login(t, b, "rsvp@example.com", "pw")
		events, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5)
		eventID := events[0].ID

		first, err := b.SetAttendance(ctx, session.Token, eventID, directory.StatusMaybe)
		if err != nil {
			t.Fatalf("SetAttendance failed: %v", err)
		}
		second, err := b.SetAttendance(ctx, session.Token, eventID, directory.StatusGoing)
		if err != nil {
			t.Fatalf("SetAttendance failed: %v", err)
		}

		if second.ID != first.ID {
			t.Fatalf("expected preserved id across upsert, got %s then %s", first.ID, second.ID)
		}
		if second.Status != directory.StatusGoing {
			t.Fatalf("expected status from the last call, got %s", second.Status)
		}

		records, err := b.Attendance(ctx, eventID)
		if err != nil {
			t.Fatalf("Attendance failed: %v", err)
		}
		mine := 0
		for _, record := range records {
			if record.UserID == session.User.ID {
				mine++
			}
		}
		if mine != 1 {
			t.Fatalf("expected exactly one record for the pair, got %d", mine)
		}
	})

	t.Run("idempotent under repeated identical calls", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		ctx := context.Background()
		session := login(t, b, "rsvp@example.com", "pw")
		events, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5)

		first, _ := b.SetAttendance(ctx, session.Token, events[0].ID, directory.StatusGoing)
		second, _ := b.SetAttendance(ctx, session.Token, events[0].ID, directory.StatusGoing)
		if first.ID != second.ID || second.Status != directory.StatusGoing {
			t.Fatalf("expected unchanged record, got %+v then %+v", first, second)
		}
	})

	t.Run("rejects unknown tokens without mutating", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		ctx := context.Background()
		events, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5)

		before, _ := b.Attendance(ctx, events[0].ID)
		_, err := b.SetAttendance(ctx, "bogus", events[0].ID, directory.StatusGoing)
		if !errors.Is(err, directory.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		after, _ := b.Attendance(ctx, events[0].ID)
		if len(after) != len(before) {
			t.Fatal("attendance mutated by rejected call")
		}
	})

	t.Run("composite id policy", func(t *testing.T) {
		t.Parallel()

		b := memory.New(memory.Options{AttendanceID: memory.CompositeAttendanceID})
		ctx := context.Background()
		session, err := b.Login(ctx, "rsvp@example.com", "pw")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		events, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5)

		record, err := b.SetAttendance(ctx, session.Token, events[0].ID, directory.StatusGoing)
		if err != nil {
			t.Fatalf("SetAttendance failed: %v", err)
		}
		if record.ID != events[0].ID+"-"+session.User.ID {
			t.Fatalf("expected composite id, got %s", record.ID)
		}
	})
}

func TestSeedAttendance(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	ctx := context.Background()
	events, _ := b.NearbyEvents(ctx, 41.03, 29.00, 5)

	records, err := b.Attendance(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("Attendance failed: %v", err)
	}
	if len(records) != 1 || records[0].Status != directory.StatusGoing {
		t.Fatalf("expected the seeded RSVP, got %+v", records)
	}
}
