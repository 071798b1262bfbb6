package memory

import (
	"time"

	"github.com/example/event-directory/internal/directory"
)

// DemoEmail and DemoPassword identify the account every fresh backend ships
// with, so offline demos can sign in without registering.
const (
	DemoEmail    = "demo@spotlight.app"
	DemoPassword = "spotlight"
)

// seed populates the dataset constructed backends start from: the demo
// account, the full catalog, three sample events around the Bosphorus in the
// next few hours, and one RSVP by the demo user.
func (b *Backend) seed() {
	b.mu.Lock()
	defer b.mu.Unlock()

	demo, err := b.createAccountLocked(DemoEmail, DemoPassword, "Demo Explorer", "Istanbul")
	if err != nil {
		// rand.Read failing at construction leaves nothing sensible to run.
		panic("memory: seeding demo account: " + err.Error())
	}

	b.categories = directory.DefaultCategories()

	now := b.now().UTC()
	samples := []directory.CreateEventRequest{
		{
			Title:        "Open-Air Film Night",
			Description:  "Classic movie screening in the park amphitheater.",
			CategoryKey:  directory.CategoryCulture,
			Latitude:     41.0392,
			Longitude:    29.0153,
			StartTimeUTC: now.Add(1 * time.Hour),
			EndTimeUTC:   now.Add(3 * time.Hour),
			IsPublic:     true,
		},
		{
			Title:        "Bosphorus Morning Run",
			Description:  "Easy-pace 8k along the waterfront, all levels welcome.",
			CategoryKey:  directory.CategorySports,
			Latitude:     41.0421,
			Longitude:    28.9860,
			StartTimeUTC: now.Add(2 * time.Hour),
			EndTimeUTC:   now.Add(4 * time.Hour),
			IsPublic:     true,
		},
		{
			Title:        "Rooftop Jazz Session",
			Description:  "Live trio set with a view over the Golden Horn.",
			CategoryKey:  directory.CategoryNight,
			Latitude:     41.0266,
			Longitude:    28.9780,
			StartTimeUTC: now.Add(5 * time.Hour),
			EndTimeUTC:   now.Add(6 * time.Hour),
			IsPublic:     true,
		},
	}

	for _, req := range samples {
		b.insertEventLocked(demo.user.ID, req)
	}

	b.upsertAttendanceLocked(demo.user.ID, b.events[0].ID, directory.StatusGoing)
}
