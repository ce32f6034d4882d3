package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/store"
)

var ErrInvalidInput = errors.New("invalid event input")

// ImageUploader stores an event image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, source, folder string) (string, error)
}

// Viewer is who a request acts as.
type Viewer struct {
	ID        string
	Name      string
	AvatarURL string
}

type AttendResult struct {
	Event     models.Event  `json:"event"`
	Stats     UserStats     `json:"stats"`
	NewBadges []EarnedBadge `json:"new_badges"`
}

type EventService struct {
	source       models.EventSource
	store        *store.EventStore
	saved        *SavedService
	social       *SocialService
	gamification *GamificationService
	uploader     ImageUploader
	center       models.Coordinates
	logger       *slog.Logger

	loadMu sync.Mutex
	loaded bool
}

func NewEventService(source models.EventSource, st *store.EventStore, saved *SavedService, social *SocialService, gamification *GamificationService) *EventService {
	return &EventService{
		source:       source,
		store:        st,
		saved:        saved,
		social:       social,
		gamification: gamification,
		center:       models.DefaultCoordinates,
		logger:       slog.Default(),
	}
}

func (es *EventService) WithUploader(u ImageUploader) *EventService {
	es.uploader = u
	return es
}

func (es *EventService) WithDefaultCenter(c models.Coordinates) *EventService {
	if c.Valid() && !c.IsZero() {
		es.center = c
	}
	return es
}

func (es *EventService) WithLogger(l *slog.Logger) *EventService {
	if l != nil {
		es.logger = l
	}
	return es
}

// ResolveCenter returns c, or the default coordinate when c is missing or
// out of range.
func (es *EventService) ResolveCenter(c *models.Coordinates) models.Coordinates {
	if c == nil || c.IsZero() || !c.Valid() {
		return es.center
	}
	return *c
}

// FetchEvents pulls the source near center, merges it into the store and
// returns the viewer's view of every event.
func (es *EventService) FetchEvents(ctx context.Context, v Viewer, center models.Coordinates) ([]models.Event, error) {
	if err := es.refresh(ctx, center); err != nil {
		return nil, err
	}
	if err := es.saved.Hydrate(ctx, v.ID); err != nil {
		return nil, err
	}
	return es.decorate(v, center, es.store.List(v.ID)), nil
}

// Events is FetchEvents without the round trip once the store has loaded.
func (es *EventService) Events(ctx context.Context, v Viewer, center models.Coordinates) ([]models.Event, error) {
	if err := es.ensureLoaded(ctx, v, center); err != nil {
		return nil, err
	}
	return es.decorate(v, center, es.store.List(v.ID)), nil
}

func (es *EventService) GetEvent(ctx context.Context, v Viewer, id string, center models.Coordinates) (*models.Event, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("event ID cannot be empty")
	}
	if err := es.ensureLoaded(ctx, v, center); err != nil {
		return nil, err
	}
	e, err := es.store.Get(v.ID, id)
	if err != nil {
		return nil, err
	}
	out := es.decorate(v, center, []models.Event{e})
	return &out[0], nil
}

func (es *EventService) AddEvent(ctx context.Context, v Viewer, in models.EventInput) (*models.Event, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.StartTime != nil && in.EndTime != nil && !in.EndTime.After(*in.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrInvalidInput)
	}
	if err := es.ensureLoaded(ctx, v, es.center); err != nil {
		return nil, err
	}

	if img := strings.TrimSpace(in.Image); img != "" {
		if es.uploader == nil {
			es.logger.Warn("image supplied but no uploader configured", "host_id", v.ID)
		} else {
			url, err := es.uploader.UploadImage(ctx, img, helpers.EventsFolder)
			if err != nil {
				return nil, fmt.Errorf("failed to upload event image: %w", err)
			}
			in.ImageURL = &url
		}
	}

	e := es.store.Add(in, models.Host{ID: v.ID, Name: v.Name})
	es.logger.Info("event created", "event_id", e.ID, "host_id", v.ID, "category", e.Category)

	out := es.decorate(v, es.center, []models.Event{e})
	return &out[0], nil
}

func (es *EventService) ToggleSave(ctx context.Context, v Viewer, id string) (*models.Event, error) {
	if err := es.ensureLoaded(ctx, v, es.center); err != nil {
		return nil, err
	}
	e, err := es.saved.Toggle(ctx, v.ID, id)
	if err != nil {
		return nil, err
	}
	out := es.decorate(v, es.center, []models.Event{*e})
	return &out[0], nil
}

func (es *EventService) SavedEvents(ctx context.Context, v Viewer, center models.Coordinates) ([]models.Event, error) {
	if err := es.ensureLoaded(ctx, v, center); err != nil {
		return nil, err
	}
	events, err := es.saved.List(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	return es.decorate(v, center, events), nil
}

// Attend adds the viewer to the event and credits the attendance.
func (es *EventService) Attend(ctx context.Context, v Viewer, id string) (*AttendResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("event ID cannot be empty")
	}
	if err := es.ensureLoaded(ctx, v, es.center); err != nil {
		return nil, err
	}

	e, err := es.store.Attend(id, models.Attendee{
		UserID:    v.ID,
		Name:      v.Name,
		AvatarURL: v.AvatarURL,
	})
	if err != nil {
		return nil, err
	}

	stats, badges := es.gamification.RecordAttendance(v.ID, e)
	for _, b := range badges {
		es.logger.Info("badge earned", "user_id", v.ID, "badge", b.ID)
	}

	out := es.decorate(v, es.center, []models.Event{e})
	return &AttendResult{Event: out[0], Stats: stats, NewBadges: badges}, nil
}

// FriendsAttending lists the viewer's friends among the event's attendees.
func (es *EventService) FriendsAttending(ctx context.Context, v Viewer, id string) ([]models.Attendee, error) {
	e, err := es.GetEvent(ctx, v, id, es.center)
	if err != nil {
		return nil, err
	}
	return es.social.FriendsAttending(v.ID, e.Attendees), nil
}

func (es *EventService) refresh(ctx context.Context, center models.Coordinates) error {
	fetched, err := es.source.FetchEvents(ctx, center)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	es.store.Refresh(fetched)

	es.loadMu.Lock()
	es.loaded = true
	es.loadMu.Unlock()

	es.logger.Debug("events refreshed", "fetched", len(fetched))
	return nil
}

func (es *EventService) ensureLoaded(ctx context.Context, v Viewer, center models.Coordinates) error {
	es.loadMu.Lock()
	loaded := es.loaded
	es.loadMu.Unlock()

	if !loaded {
		if err := es.refresh(ctx, center); err != nil {
			return err
		}
	}
	return es.saved.Hydrate(ctx, v.ID)
}

// decorate fills in the viewer-relative fields: distance from center and
// is_friend on attendees.
func (es *EventService) decorate(v Viewer, center models.Coordinates, events []models.Event) []models.Event {
	for i := range events {
		events[i].Distance = helpers.DistanceTo(center, events[i])
	}
	es.social.MarkFriends(v.ID, events)
	return events
}
