package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshua-takyi/happenings/internal/models"
)

type FeedTab string

const (
	TabForYou FeedTab = "foryou"
	TabAll    FeedTab = "all"

	DefaultFeedMaxDistanceKm = 50.0
)

func ParseFeedTab(s string) (FeedTab, error) {
	switch FeedTab(strings.ToLower(strings.TrimSpace(s))) {
	case "", TabForYou:
		return TabForYou, nil
	case TabAll:
		return TabAll, nil
	default:
		return "", fmt.Errorf("unsupported feed tab: %q (expected foryou or all)", s)
	}
}

// FeedFilter narrows the feed by search text, category and distance.
type FeedFilter struct {
	Query         string
	Categories    []string
	MaxDistanceKm float64
}

func (f FeedFilter) Apply(events []models.Event) []models.Event {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	maxKm := f.MaxDistanceKm
	if maxKm <= 0 {
		maxKm = DefaultFeedMaxDistanceKm
	}

	out := []models.Event{}
	for _, e := range events {
		if q != "" && !matchesQuery(e, q) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.Category) {
			continue
		}
		// events with no known distance stay in
		if e.Distance != nil && *e.Distance > maxKm {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesQuery(e models.Event, q string) bool {
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Category), q)
}

// Feed builds the feed for a tab: the filtered list, ranked and cut to
// limit on the For You tab.
func (rs *RecommendationService) Feed(events []models.Event, tab FeedTab, f FeedFilter, prefs models.Preferences, limit int) []models.Event {
	filtered := f.Apply(events)
	if tab == TabAll {
		return filtered
	}
	return rs.ForYou(filtered, prefs, limit)
}
