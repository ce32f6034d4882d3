// Package store holds the in-memory event state and the mutations allowed on it.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/happenings/internal/models"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrAlreadyAttending = errors.New("user is already attending this event")
	ErrEventFull        = errors.New("event is full")
)

type AttendPolicy string

const (
	// AllowRepeat lets the same user attend an event more than once; each
	// call adds one to the count.
	AllowRepeat AttendPolicy = "allow_repeat"
	Dedupe      AttendPolicy = "dedupe"
)

type CapacityPolicy string

const (
	// Overbook accepts attendees past max_participants.
	Overbook CapacityPolicy = "overbook"
	Enforce  CapacityPolicy = "enforce"
)

type Policy struct {
	Attend   AttendPolicy
	Capacity CapacityPolicy
}

func DefaultPolicy() Policy {
	return Policy{Attend: AllowRepeat, Capacity: Overbook}
}

// EventStore is the canonical event list plus each user's saved-id set.
// is_saved and is_trending are never stored; they're derived on every read.
type EventStore struct {
	mu       sync.RWMutex
	events   []models.Event
	saved    map[string]map[string]struct{}
	hydrated map[string]bool
	policy   Policy

	now   func() time.Time
	newID func() string
}

func New(policy Policy) *EventStore {
	if policy.Attend == "" {
		policy.Attend = AllowRepeat
	}
	if policy.Capacity == "" {
		policy.Capacity = Overbook
	}
	return &EventStore{
		saved:    make(map[string]map[string]struct{}),
		hydrated: make(map[string]bool),
		policy:   policy,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock swaps the time source. Intended for tests.
func (s *EventStore) WithClock(now func() time.Time) *EventStore {
	s.now = now
	return s
}

func (s *EventStore) Policy() Policy {
	return s.policy
}

func (s *EventStore) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *EventStore) isSaved(userID, eventID string) bool {
	_, ok := s.saved[userID][eventID]
	return ok
}

// view copies an event out of the store with the per-user flags filled in.
func (s *EventStore) view(userID string, e models.Event) models.Event {
	out := e.Clone()
	out.IsSaved = s.isSaved(userID, e.ID)
	out.IsTrending = e.Trending()
	return out
}

// Refresh merges freshly fetched events into the store. Known ids take the
// fetched descriptive fields but keep their local attendance; unknown ids are
// appended in fetch order. Events created locally are left alone.
func (s *EventStore) Refresh(fetched []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range fetched {
		f = f.Clone()
		f.Distance, f.IsSaved, f.IsTrending = nil, false, false
		if f.AttendeesCount < 0 {
			f.AttendeesCount = 0
		}

		i := s.indexOf(f.ID)
		if i < 0 {
			s.events = append(s.events, f)
			continue
		}
		cur := s.events[i]
		f.AttendeesCount = max(cur.AttendeesCount, f.AttendeesCount)
		f.Attendees = cur.Attendees
		s.events[i] = f
	}
}

// List returns every event in store order as seen by userID.
func (s *EventStore) List(userID string) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, len(s.events))
	for i, e := range s.events {
		out[i] = s.view(userID, e)
	}
	return out
}

func (s *EventStore) Get(userID, id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Event{}, ErrEventNotFound
	}
	return s.view(userID, s.events[i]), nil
}

// Add merges in over the defaults and prepends the new event.
func (s *EventStore) Add(in models.EventInput, host models.Host) models.Event {
	now := s.now()

	e := models.Event{
		ID:          s.newID(),
		Title:       models.DefaultTitle,
		Description: strings.TrimSpace(in.Description),
		HostID:      host.ID,
		HostName:    host.Name,
		ImageURL:    in.ImageURL,
		Category:    models.DefaultCategory,
		Location: &models.Location{
			Latitude:  models.DefaultCoordinates.Latitude,
			Longitude: models.DefaultCoordinates.Longitude,
			Address:   "Mumbai, India",
		},
		StartTime:      now,
		CreatedAt:      now,
		IsPublic:       true,
		AttendeesCount: 0,
	}
	capacity := models.DefaultMaxAttendee
	e.MaxParticipants = &capacity

	if t := strings.TrimSpace(in.Title); t != "" {
		e.Title = t
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		e.Category = c
	}
	if in.Location != nil {
		loc := *in.Location
		e.Location = &loc
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	e.EndTime = e.StartTime.Add(models.DefaultDuration)
	if in.EndTime != nil {
		e.EndTime = *in.EndTime
	}
	if in.IsPublic != nil {
		e.IsPublic = *in.IsPublic
	}
	if in.MaxParticipants != nil {
		v := *in.MaxParticipants
		e.MaxParticipants = &v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]models.Event{e}, s.events...)
	return s.view(host.ID, e)
}

// ToggleSave flips eventID in the user's saved set and returns the event with
// its new is_saved flag.
func (s *EventStore) ToggleSave(userID, eventID string) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(eventID)
	if i < 0 {
		return models.Event{}, ErrEventNotFound
	}

	set, ok := s.saved[userID]
	if !ok {
		set = make(map[string]struct{})
		s.saved[userID] = set
	}
	if _, on := set[eventID]; on {
		delete(set, eventID)
	} else {
		set[eventID] = struct{}{}
	}
	return s.view(userID, s.events[i]), nil
}

// Saved lists the user's saved events in store order. Saved ids the store
// doesn't hold are skipped.
func (s *EventStore) Saved(userID string) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Event{}
	for _, e := range s.events {
		if s.isSaved(userID, e.ID) {
			out = append(out, s.view(userID, e))
		}
	}
	return out
}

func (s *EventStore) IsSaved(userID, eventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSaved(userID, eventID)
}

// HydrateSaved seeds a user's saved set from persistent storage the first
// time it's called for that user. It reports whether it applied ids.
func (s *EventStore) HydrateSaved(userID string, ids []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated[userID] {
		return false
	}
	s.hydrated[userID] = true

	set, ok := s.saved[userID]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		s.saved[userID] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return true
}

func (s *EventStore) IsHydrated(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated[userID]
}

// Attend increments the attendee count and appends a, subject to the store's
// attend and capacity policies.
func (s *EventStore) Attend(eventID string, a models.Attendee) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(eventID)
	if i < 0 {
		return models.Event{}, ErrEventNotFound
	}
	e := &s.events[i]

	if s.policy.Attend == Dedupe {
		for _, existing := range e.Attendees {
			if existing.UserID == a.UserID {
				return models.Event{}, ErrAlreadyAttending
			}
		}
	}
	if s.policy.Capacity == Enforce && e.MaxParticipants != nil && e.AttendeesCount >= *e.MaxParticipants {
		return models.Event{}, ErrEventFull
	}

	if a.JoinedAt.IsZero() {
		a.JoinedAt = s.now()
	}
	a.IsFriend = false
	e.AttendeesCount++
	e.Attendees = append(e.Attendees, a)
	return s.view(a.UserID, *e), nil
}
