package models

import (
	"context"
	"time"
)

// MockSource serves the built-in sample events after a fixed delay that
// stands in for network latency.
type MockSource struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewMockSource(delay time.Duration) *MockSource {
	return &MockSource{Delay: delay, Now: time.Now}
}

func (m *MockSource) FetchEvents(ctx context.Context, near Coordinates) ([]Event, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return SampleEvents(now()), nil
}

type sampleEvent struct {
	id, title, description, hostID, hostName, image, category string
	lat, lng                                                  float64
	address                                                   string
	startIn, duration, createdAgo                             time.Duration
	max, attendees                                            int
}

const day = 24 * time.Hour

var samples = []sampleEvent{
	{
		id: "1", title: "Mumbai Tech Meetup",
		description: "Join us for an evening of networking and tech talks with industry leaders.",
		hostID: "host1", hostName: "Tech Mumbai", category: "Tech",
		image: "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800&q=80",
		lat: 19.0760, lng: 72.8777, address: "BKC, Mumbai",
		startIn: 2 * day, duration: 3 * time.Hour, createdAgo: 5 * day,
		max: 100, attendees: 45,
	},
	{
		id: "2", title: "Bollywood Dance Workshop",
		description: "Learn the latest Bollywood moves in this fun, energetic workshop!",
		hostID: "host2", hostName: "Dance with Me", category: "Dance",
		image: "https://images.unsplash.com/photo-1545959863-7150c2fa973b?w=800&q=80",
		lat: 19.0596, lng: 72.8295, address: "Bandra West, Mumbai",
		startIn: 3 * day, duration: 2 * time.Hour, createdAgo: 2 * day,
		max: 30, attendees: 12,
	},
	{
		id: "3", title: "Street Food Walk",
		description: "Explore the famous street food of Mumbai. Vada Pav, Pav Bhaji and more!",
		hostID: "host3", hostName: "Mumbai Foodies", category: "Food",
		image: "https://images.unsplash.com/photo-1601050690597-df0568f70950?w=800&q=80",
		lat: 18.9220, lng: 72.8347, address: "Fort, Mumbai",
		startIn: 4 * day, duration: 3 * time.Hour, createdAgo: day,
		max: 20, attendees: 18,
	},
	{
		id: "4", title: "Bangalore Startup Pitch",
		description: "Pitch your startup idea to top VCs in Bangalore.",
		hostID: "host4", hostName: "Startup Grid", category: "Business",
		image: "https://images.unsplash.com/photo-1556761175-5973dc0f32e7?w=800&q=80",
		lat: 12.9716, lng: 77.5946, address: "Indiranagar, Bangalore",
		startIn: 5 * day, duration: 8 * time.Hour, createdAgo: 12 * time.Hour,
		max: 50, attendees: 50,
	},
	{
		id: "5", title: "Yoga by the Sea",
		description: "Morning yoga session at Marine Drive.",
		hostID: "host5", hostName: "Yoga Life", category: "Health",
		image: "https://images.unsplash.com/photo-1544367563-12123d8965cd?w=800&q=80",
		lat: 18.944, lng: 72.823, address: "Marine Drive, Mumbai",
		startIn: 6 * day, duration: 2 * time.Hour, createdAgo: 2 * time.Hour,
		max: 50, attendees: 22,
	},
}

// SampleEvents builds the sample list with times relative to now.
func SampleEvents(now time.Time) []Event {
	events := make([]Event, 0, len(samples))
	for _, s := range samples {
		image := s.image
		capacity := s.max
		start := now.Add(s.startIn)
		events = append(events, Event{
			ID:              s.id,
			Title:           s.title,
			Description:     s.description,
			HostID:          s.hostID,
			HostName:        s.hostName,
			ImageURL:        &image,
			Category:        s.category,
			Location:        &Location{Latitude: s.lat, Longitude: s.lng, Address: s.address},
			StartTime:       start,
			EndTime:         start.Add(s.duration),
			CreatedAt:       now.Add(-s.createdAgo),
			IsPublic:        true,
			MaxParticipants: &capacity,
			AttendeesCount:  s.attendees,
		})
	}
	return events
}
