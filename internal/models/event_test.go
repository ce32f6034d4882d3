package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEventTrending(t *testing.T) {
	tests := []struct {
		name      string
		attendees int
		max       *int
		want      bool
	}{
		{"large crowd without cap", 40, nil, true},
		{"small crowd without cap", 39, nil, false},
		{"three quarters full", 15, intPtr(20), true},
		{"half full", 10, intPtr(20), false},
		{"zero cap ignored", 5, intPtr(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{AttendeesCount: tt.attendees, MaxParticipants: tt.max}
			assert.Equal(t, tt.want, e.Trending())
		})
	}
}

func TestEventFillRate(t *testing.T) {
	_, ok := Event{AttendeesCount: 3}.FillRate()
	assert.False(t, ok)

	rate, ok := Event{AttendeesCount: 45, MaxParticipants: intPtr(50)}.FillRate()
	require.True(t, ok)
	assert.InDelta(t, 0.9, rate, 1e-9)
}

func TestEventCloneIsDeep(t *testing.T) {
	img := "https://example.com/a.jpg"
	orig := Event{
		ID:              "1",
		ImageURL:        &img,
		Location:        &Location{Latitude: 1, Longitude: 2},
		MaxParticipants: intPtr(10),
		Attendees:       []Attendee{{UserID: "u1"}},
	}

	cp := orig.Clone()
	*cp.ImageURL = "changed"
	cp.Location.Latitude = 50
	*cp.MaxParticipants = 99
	cp.Attendees[0].UserID = "u2"

	assert.Equal(t, "https://example.com/a.jpg", *orig.ImageURL)
	assert.Equal(t, 1.0, orig.Location.Latitude)
	assert.Equal(t, 10, *orig.MaxParticipants)
	assert.Equal(t, "u1", orig.Attendees[0].UserID)
}

func TestPreferencesDefaults(t *testing.T) {
	p := DefaultPreferences()
	assert.True(t, p.HasInterest("Tech"))
	assert.False(t, p.HasInterest("tech"))
	assert.True(t, p.HasAttended("Social"))
	assert.True(t, p.Prefers(Evening))
	assert.True(t, p.Prefers(Weekend))
	assert.Equal(t, 25.0, p.MaxDistanceKm)
}

func TestMockSourceReturnsSamples(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	src := &MockSource{Now: func() time.Time { return now }}

	events, err := src.FetchEvents(context.Background(), DefaultCoordinates)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "Mumbai Tech Meetup", events[0].Title)
	assert.Equal(t, now.Add(48*time.Hour), events[0].StartTime)
	assert.True(t, events[0].EndTime.After(events[0].StartTime))
}

func TestMockSourceHonoursCancellation(t *testing.T) {
	src := NewMockSource(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchEvents(ctx, DefaultCoordinates)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateEventInput(t *testing.T) {
	ok := EventInput{Title: "Board games", Location: &Location{Latitude: 19, Longitude: 72}}
	assert.NoError(t, Validate.Struct(ok))

	bad := EventInput{Location: &Location{Latitude: 120}}
	assert.Error(t, Validate.Struct(bad))

	badCap := EventInput{MaxParticipants: intPtr(0)}
	assert.Error(t, Validate.Struct(badCap))
}
