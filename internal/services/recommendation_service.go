package services

import (
	"fmt"
	"slices"
	"time"

	"github.com/joshua-takyi/happenings/internal/models"
)

const DefaultForYouLimit = 10

// Score weights.
const (
	interestWeight   = 40
	historyWeight    = 25
	veryCloseWeight  = 30
	nearbyWeight     = 15
	eveningWeight    = 15
	weekendWeight    = 10
	trendingWeight   = 20
	almostFullWeight = 15
	veryCloseKm      = 5.0
	nearbyKm         = 15.0
	almostFullRate   = 0.8
	eveningStartHour = 17
	eveningEndHour   = 23
)

type Recommendation struct {
	Event   models.Event `json:"event"`
	Score   int          `json:"score"`
	Reasons []string     `json:"reasons"`
}

// RecommendationService scores events against viewer preferences. Hours and
// weekdays are read in loc.
type RecommendationService struct {
	loc   *time.Location
	prefs func(userID string) models.Preferences
}

func NewRecommendationService(loc *time.Location) *RecommendationService {
	if loc == nil {
		loc = time.UTC
	}
	return &RecommendationService{
		loc:   loc,
		prefs: func(string) models.Preferences { return models.DefaultPreferences() },
	}
}

// PreferencesFor returns the preference set used for userID. Every user gets
// the defaults for now.
func (rs *RecommendationService) PreferencesFor(userID string) models.Preferences {
	return rs.prefs(userID)
}

// ScoreEvent applies the additive rules; reasons are appended in rule order.
func (rs *RecommendationService) ScoreEvent(e models.Event, prefs models.Preferences) Recommendation {
	score := 0
	reasons := []string{}
	add := func(points int, reason string) {
		score += points
		reasons = append(reasons, reason)
	}

	if prefs.HasInterest(e.Category) {
		add(interestWeight, fmt.Sprintf("Matches your interest: %s", e.Category))
	}
	if prefs.HasAttended(e.Category) {
		add(historyWeight, "Similar to events you've attended")
	}

	if e.Distance != nil {
		switch d := *e.Distance; {
		case d < veryCloseKm:
			add(veryCloseWeight, "Very close to you")
		case d < nearbyKm:
			add(nearbyWeight, "Nearby")
		}
	}

	start := e.StartTime.In(rs.loc)
	if prefs.Prefers(models.Evening) && start.Hour() >= eveningStartHour && start.Hour() < eveningEndHour {
		add(eveningWeight, "Perfect evening timing")
	}
	if wd := start.Weekday(); prefs.Prefers(models.Weekend) && (wd == time.Saturday || wd == time.Sunday) {
		add(weekendWeight, "Weekend event")
	}

	if e.IsTrending {
		add(trendingWeight, "Trending now")
	}

	if rate, ok := e.FillRate(); ok && rate > almostFullRate {
		add(almostFullWeight, "Almost full - book soon!")
	}

	return Recommendation{Event: e, Score: score, Reasons: reasons}
}

// RankEvents scores every event and sorts by score, highest first. Ties keep
// their input order.
func (rs *RecommendationService) RankEvents(events []models.Event, prefs models.Preferences) []Recommendation {
	ranked := make([]Recommendation, len(events))
	for i, e := range events {
		ranked[i] = rs.ScoreEvent(e, prefs)
	}
	slices.SortStableFunc(ranked, func(a, b Recommendation) int {
		return b.Score - a.Score
	})
	return ranked
}

// ForYou returns the top limit events of the ranking. A non-positive limit
// means DefaultForYouLimit.
func (rs *RecommendationService) ForYou(events []models.Event, prefs models.Preferences, limit int) []models.Event {
	ranked := rs.Top(events, prefs, limit)
	out := make([]models.Event, len(ranked))
	for i, r := range ranked {
		out[i] = r.Event
	}
	return out
}

// Top is ForYou with the scores and reasons kept.
func (rs *RecommendationService) Top(events []models.Event, prefs models.Preferences, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultForYouLimit
	}
	ranked := rs.RankEvents(events, prefs)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
