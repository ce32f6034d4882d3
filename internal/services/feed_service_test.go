package services

import (
	"testing"

	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedFilterQuery(t *testing.T) {
	events := models.SampleEvents(weekdayMorning)

	got := eventIDs(FeedFilter{Query: "  VADA "}.Apply(events))
	assert.Equal(t, []string{"3"}, got, "matches description")

	got = eventIDs(FeedFilter{Query: "dance"}.Apply(events))
	assert.Equal(t, []string{"2"}, got, "matches title and category")

	assert.Len(t, FeedFilter{}.Apply(events), len(events))
}

func TestFeedFilterCategoriesExact(t *testing.T) {
	events := models.SampleEvents(weekdayMorning)

	got := eventIDs(FeedFilter{Categories: []string{"Food", "Health"}}.Apply(events))
	assert.Equal(t, []string{"3", "5"}, got)

	assert.Empty(t, FeedFilter{Categories: []string{"food"}}.Apply(events))
}

func TestFeedFilterDistance(t *testing.T) {
	events := []models.Event{
		{ID: "unknown"},
		{ID: "near", Distance: floatPtr(3)},
		{ID: "edge", Distance: floatPtr(50)},
		{ID: "far", Distance: floatPtr(845)},
	}

	assert.Equal(t, []string{"unknown", "near", "edge"}, eventIDs(FeedFilter{}.Apply(events)))
	assert.Equal(t, []string{"unknown", "near"}, eventIDs(FeedFilter{MaxDistanceKm: 10}.Apply(events)))
}

func TestFeedTabs(t *testing.T) {
	rs := NewRecommendationService(nil)
	events := models.SampleEvents(weekdayMorning)
	prefs := models.DefaultPreferences()

	all := rs.Feed(events, TabAll, FeedFilter{}, prefs, 2)
	assert.Len(t, all, 5, "the all tab is not truncated")

	forYou := rs.Feed(events, TabForYou, FeedFilter{}, prefs, 2)
	require.Len(t, forYou, 2)
	assert.Equal(t, "1", forYou[0].ID)
}

func TestParseFeedTab(t *testing.T) {
	tab, err := ParseFeedTab("")
	require.NoError(t, err)
	assert.Equal(t, TabForYou, tab)

	tab, err = ParseFeedTab("All")
	require.NoError(t, err)
	assert.Equal(t, TabAll, tab)

	_, err = ParseFeedTab("trending")
	assert.Error(t, err)
}
