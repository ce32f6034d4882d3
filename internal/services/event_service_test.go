package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSavedRepo struct {
	mu      sync.Mutex
	ids     map[string][]string
	failAdd bool
	lists   int

	// failEvery > 0 fails every n-th write, adds and removes alike.
	failEvery int
	writes    int
}

func (r *memSavedRepo) writeFails() bool {
	r.writes++
	return r.failEvery > 0 && r.writes%r.failEvery == 0
}

func newMemSavedRepo() *memSavedRepo {
	return &memSavedRepo{ids: map[string][]string{}}
}

func (r *memSavedRepo) AddSaved(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd || r.writeFails() {
		return errors.New("mongo unavailable")
	}
	r.ids[userID] = append(r.ids[userID], eventID)
	return nil
}

func (r *memSavedRepo) RemoveSaved(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeFails() {
		return errors.New("mongo unavailable")
	}
	out := []string{}
	for _, id := range r.ids[userID] {
		if id != eventID {
			out = append(out, id)
		}
	}
	r.ids[userID] = out
	return nil
}

func (r *memSavedRepo) ListSaved(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return append([]string(nil), r.ids[userID]...), nil
}

type countingSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *countingSource) FetchEvents(_ context.Context, _ models.Coordinates) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return models.SampleEvents(weekdayMorning), nil
}

type fakeUploader struct {
	source, folder string
}

func (u *fakeUploader) UploadImage(_ context.Context, source, folder string) (string, error) {
	u.source, u.folder = source, folder
	return "https://res.cloudinary.com/demo/image/upload/events/x.jpg", nil
}

type fixture struct {
	svc    *EventService
	source *countingSource
	repo   *memSavedRepo
	store  *store.EventStore
}

func newFixture(t *testing.T, policy store.Policy) *fixture {
	t.Helper()
	src := &countingSource{}
	repo := newMemSavedRepo()
	st := store.New(policy).WithClock(func() time.Time { return weekdayMorning })
	svc := NewEventService(
		src,
		st,
		NewSavedService(repo, st),
		NewSocialService(MockFriends()),
		NewGamificationService(time.UTC).WithClock(func() time.Time { return weekdayMorning }),
	)
	return &fixture{svc: svc, source: src, repo: repo, store: st}
}

var viewer = Viewer{ID: "u1", Name: "Asha", AvatarURL: "https://example.com/a.png"}

func TestFetchEventsAddsDistance(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())

	events, err := f.svc.FetchEvents(context.Background(), viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	require.Len(t, events, 5)

	require.NotNil(t, events[0].Distance)
	assert.InDelta(t, 0, *events[0].Distance, 0.001)
	require.NotNil(t, events[3].Distance)
	assert.InDelta(t, 845, *events[3].Distance, 15)
	assert.True(t, events[0].IsTrending)
}

func TestEventsLoadsOnce(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	ctx := context.Background()

	_, err := f.svc.Events(ctx, viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	_, err = f.svc.Events(ctx, viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	assert.Equal(t, 1, f.source.calls)

	_, err = f.svc.FetchEvents(ctx, viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	assert.Equal(t, 2, f.source.calls)
}

func TestFetchErrorIsWrappedAndRetried(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	f.source.err = context.DeadlineExceeded

	_, err := f.svc.Events(context.Background(), viewer, models.DefaultCoordinates)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.source.err = nil
	events, err := f.svc.Events(context.Background(), viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestResolveCenter(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())

	assert.Equal(t, models.DefaultCoordinates, f.svc.ResolveCenter(nil))
	assert.Equal(t, models.DefaultCoordinates, f.svc.ResolveCenter(&models.Coordinates{Latitude: 120, Longitude: 0}))

	pune := models.Coordinates{Latitude: 18.5204, Longitude: 73.8567}
	assert.Equal(t, pune, f.svc.ResolveCenter(&pune))
}

func TestAddEventUploadsImage(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	up := &fakeUploader{}
	f.svc.WithUploader(up)

	e, err := f.svc.AddEvent(context.Background(), viewer, models.EventInput{
		Title: "Rooftop jam",
		Image: "https://example.com/jam.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/jam.jpg", up.source)
	assert.Equal(t, "events", up.folder)
	require.NotNil(t, e.ImageURL)
	assert.Contains(t, *e.ImageURL, "res.cloudinary.com")
	assert.Equal(t, "Asha", e.HostName)
	assert.Equal(t, 0, e.AttendeesCount)

	events, err := f.svc.Events(context.Background(), viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	assert.Equal(t, e.ID, events[0].ID)
}

func TestAddEventValidation(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	start := weekdayMorning.Add(time.Hour)
	end := weekdayMorning

	_, err := f.svc.AddEvent(context.Background(), viewer, models.EventInput{StartTime: &start, EndTime: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)

	zero := 0
	_, err = f.svc.AddEvent(context.Background(), viewer, models.EventInput{MaxParticipants: &zero})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestToggleSaveWritesThrough(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	ctx := context.Background()

	e, err := f.svc.ToggleSave(ctx, viewer, "2")
	require.NoError(t, err)
	assert.True(t, e.IsSaved)
	assert.Equal(t, []string{"2"}, f.repo.ids["u1"])

	e, err = f.svc.ToggleSave(ctx, viewer, "2")
	require.NoError(t, err)
	assert.False(t, e.IsSaved)
	assert.Empty(t, f.repo.ids["u1"])
}

func TestToggleSaveRollsBackOnRepoError(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	f.repo.failAdd = true

	_, err := f.svc.ToggleSave(context.Background(), viewer, "2")
	require.Error(t, err)
	assert.False(t, f.store.IsSaved("u1", "2"))
}

func TestToggleSaveUnknownEvent(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())

	_, err := f.svc.ToggleSave(context.Background(), viewer, "missing")
	assert.ErrorIs(t, err, store.ErrEventNotFound)
}

func TestSavedEventsHydrateFromRepo(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	f.repo.ids["u1"] = []string{"3", "5"}

	saved, err := f.svc.SavedEvents(context.Background(), viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "5"}, eventIDs(saved))
	for _, e := range saved {
		assert.True(t, e.IsSaved)
		assert.NotNil(t, e.Distance)
	}

	_, err = f.svc.SavedEvents(context.Background(), viewer, models.DefaultCoordinates)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.lists, "hydrated once per user")
}

func TestAttendRecordsStatsAndFriends(t *testing.T) {
	f := newFixture(t, store.DefaultPolicy())
	ctx := context.Background()

	res, err := f.svc.Attend(ctx, viewer, "2")
	require.NoError(t, err)
	assert.Equal(t, 13, res.Event.AttendeesCount)
	assert.Equal(t, 100, res.Stats.XP)
	require.Len(t, res.Event.Attendees, 1)
	assert.Equal(t, "Asha", res.Event.Attendees[0].Name)
	assert.False(t, res.Event.Attendees[0].IsFriend)

	_, err = f.svc.Attend(ctx, Viewer{ID: "friend1", Name: "Sarah Chen"}, "2")
	require.NoError(t, err)

	friends, err := f.svc.FriendsAttending(ctx, viewer, "2")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "friend1", friends[0].UserID)
}

func TestAttendPolicies(t *testing.T) {
	f := newFixture(t, store.Policy{Attend: store.Dedupe, Capacity: store.Enforce})
	ctx := context.Background()

	_, err := f.svc.Attend(ctx, viewer, "4")
	assert.ErrorIs(t, err, store.ErrEventFull)

	_, err = f.svc.Attend(ctx, viewer, "2")
	require.NoError(t, err)
	_, err = f.svc.Attend(ctx, viewer, "2")
	assert.ErrorIs(t, err, store.ErrAlreadyAttending)
}
