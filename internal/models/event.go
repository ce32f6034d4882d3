package models

import (
	"time"
)

const (
	DefaultCategory    = "Social"
	DefaultTitle       = "New Event"
	DefaultMaxAttendee = 100
	DefaultDuration    = time.Hour

	// TrendingAttendees and TrendingFillRate are the thresholds past which an
	// event is flagged as trending.
	TrendingAttendees = 40
	TrendingFillRate  = 0.75
)

type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Address   string  `json:"address,omitempty" validate:"max=200"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

type Attendee struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	IsFriend  bool      `json:"is_friend"`
	JoinedAt  time.Time `json:"joined_at"`
}

type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	HostID          string     `json:"host_id"`
	HostName        string     `json:"host_name"`
	ImageURL        *string    `json:"image_url"`
	Category        string     `json:"category"`
	Location        *Location  `json:"location,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	CreatedAt       time.Time  `json:"created_at"`
	IsPublic        bool       `json:"is_public"`
	MaxParticipants *int       `json:"max_participants"`
	AttendeesCount  int        `json:"attendees_count"`
	Attendees       []Attendee `json:"attendees,omitempty"`

	// Derived on read, never stored.
	Distance   *float64 `json:"distance,omitempty"`
	IsTrending bool     `json:"is_trending"`
	IsSaved    bool     `json:"is_saved"`
}

// FillRate reports attendees/max_participants. ok is false when no cap is set.
func (e Event) FillRate() (rate float64, ok bool) {
	if e.MaxParticipants == nil || *e.MaxParticipants <= 0 {
		return 0, false
	}
	return float64(e.AttendeesCount) / float64(*e.MaxParticipants), true
}

func (e Event) Trending() bool {
	if e.AttendeesCount >= TrendingAttendees {
		return true
	}
	rate, ok := e.FillRate()
	return ok && rate >= TrendingFillRate
}

// Clone returns a deep copy so callers can't reach into store state.
func (e Event) Clone() Event {
	out := e
	if e.ImageURL != nil {
		v := *e.ImageURL
		out.ImageURL = &v
	}
	if e.Location != nil {
		loc := *e.Location
		out.Location = &loc
	}
	if e.MaxParticipants != nil {
		v := *e.MaxParticipants
		out.MaxParticipants = &v
	}
	if e.Distance != nil {
		v := *e.Distance
		out.Distance = &v
	}
	if e.Attendees != nil {
		out.Attendees = append([]Attendee(nil), e.Attendees...)
	}
	return out
}

// EventInput carries the caller-supplied fields of a new event. Anything left
// empty falls back to the defaults in store.Add.
type EventInput struct {
	Title           string     `json:"title" validate:"max=120"`
	Description     string     `json:"description" validate:"max=2000"`
	Category        string     `json:"category" validate:"max=40"`
	Location        *Location  `json:"location" validate:"omitempty"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	IsPublic        *bool      `json:"is_public"`
	MaxParticipants *int       `json:"max_participants" validate:"omitempty,min=1"`
	ImageURL        *string    `json:"image_url" validate:"omitempty,url"`

	// Image is a local path, remote URL or data URI to push to the image host.
	Image string `json:"image"`
}

// Host identifies who creates an event.
type Host struct {
	ID   string
	Name string
}
