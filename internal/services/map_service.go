package services

import (
	"fmt"
	"strings"

	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/models"
)

type MapMode string

const (
	ModeNearby MapMode = "nearby"
	ModeGlobal MapMode = "global"

	NearbyRadiusKm = 15.0
)

func ParseMapMode(s string) (MapMode, error) {
	switch MapMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNearby:
		return ModeNearby, nil
	case ModeGlobal:
		return ModeGlobal, nil
	default:
		return "", fmt.Errorf("unsupported map mode: %q (expected nearby or global)", s)
	}
}

type MapFilter struct {
	Mode    MapMode
	Center  models.Coordinates
	FocusID string
}

// Marker is the compact projection the map renders as a pin.
type Marker struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Label      string  `json:"label"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lng"`
	IsTrending bool    `json:"is_trending"`
	IsFocused  bool    `json:"is_focused"`
}

type MapService struct {
	radiusKm  float64
	interests []string
}

// NewMapService builds the filter with the nearby radius and the fixed
// interest list used by global mode.
func NewMapService(radiusKm float64, interests []string) *MapService {
	if radiusKm <= 0 {
		radiusKm = NearbyRadiusKm
	}
	if len(interests) == 0 {
		interests = models.DefaultPreferences().Interests
	}
	return &MapService{radiusKm: radiusKm, interests: interests}
}

// Filter keeps the events visible in the given mode. The focused event is
// always kept.
func (ms *MapService) Filter(events []models.Event, f MapFilter) []models.Event {
	out := []models.Event{}
	for _, e := range events {
		if f.FocusID != "" && e.ID == f.FocusID {
			out = append(out, e)
			continue
		}
		switch f.Mode {
		case ModeGlobal:
			if ms.matchesInterests(e.Category) {
				out = append(out, e)
			}
		default:
			if withinRadius(e, f.Center, ms.radiusKm) {
				out = append(out, e)
			}
		}
	}
	return out
}

func withinRadius(e models.Event, center models.Coordinates, radiusKm float64) bool {
	if e.Location == nil {
		return false
	}
	return helpers.Haversine(center, e.Location.Coordinates()) <= radiusKm
}

func (ms *MapService) matchesInterests(category string) bool {
	if category == "" {
		return false
	}
	for _, interest := range ms.interests {
		if helpers.ContainsFold(category, interest) {
			return true
		}
	}
	return false
}

// Markers projects events with a location onto map pins.
func (ms *MapService) Markers(events []models.Event, focusID string) []Marker {
	markers := make([]Marker, 0, len(events))
	for _, e := range events {
		if e.Location == nil {
			continue
		}
		markers = append(markers, Marker{
			ID:         e.ID,
			Title:      e.Title,
			Category:   e.Category,
			Label:      markerLabel(e.Category),
			Latitude:   e.Location.Latitude,
			Longitude:  e.Location.Longitude,
			IsTrending: e.IsTrending,
			IsFocused:  e.ID == focusID,
		})
	}
	return markers
}

func markerLabel(category string) string {
	r := []rune(category)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}
