package models

import "slices"

type TimeBucket string

const (
	Evening TimeBucket = "evening"
	Weekend TimeBucket = "weekend"
)

type Preferences struct {
	Interests         []string     `json:"interests"`
	AttendanceHistory []string     `json:"attendance_history"`
	PreferredTimes    []TimeBucket `json:"preferred_times"`
	MaxDistanceKm     float64      `json:"max_distance_km"`
}

// DefaultPreferences is the static preference set every viewer gets until
// profiles carry their own.
func DefaultPreferences() Preferences {
	return Preferences{
		Interests:         []string{"Tech", "Music", "Wellness"},
		AttendanceHistory: []string{"Tech", "Social", "Music"},
		PreferredTimes:    []TimeBucket{Evening, Weekend},
		MaxDistanceKm:     25,
	}
}

func (p Preferences) HasInterest(category string) bool {
	return slices.Contains(p.Interests, category)
}

func (p Preferences) HasAttended(category string) bool {
	return slices.Contains(p.AttendanceHistory, category)
}

func (p Preferences) Prefers(b TimeBucket) bool {
	return slices.Contains(p.PreferredTimes, b)
}
