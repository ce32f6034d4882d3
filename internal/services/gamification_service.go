package services

import (
	"sync"
	"time"

	"github.com/joshua-takyi/happenings/internal/models"
)

const (
	XPPerEvent = 100
	XPPerLevel = 500
)

type CriteriaType string

const (
	CriteriaEventsAttended CriteriaType = "events_attended"
	CriteriaCategories     CriteriaType = "categories"
	CriteriaTimeOfDay      CriteriaType = "time_of_day"
	CriteriaStreak         CriteriaType = "streak"
)

// BadgeCriteria describes when a badge is earned. FromHour and ToHour bound
// time_of_day badges; the window wraps past midnight when FromHour > ToHour.
type BadgeCriteria struct {
	Type      CriteriaType `json:"type"`
	Threshold int          `json:"threshold"`
	FromHour  int          `json:"from_hour,omitempty"`
	ToHour    int          `json:"to_hour,omitempty"`
}

type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Criteria    BadgeCriteria `json:"criteria"`
}

func DefaultBadges() []Badge {
	return []Badge{
		{
			ID:          "social_butterfly",
			Name:        "Social Butterfly",
			Description: "Attended 10 events",
			Icon:        "🦋",
			Criteria:    BadgeCriteria{Type: CriteriaEventsAttended, Threshold: 10},
		},
		{
			ID:          "explorer",
			Name:        "Explorer",
			Description: "Attended events in 5 different categories",
			Icon:        "🧭",
			Criteria:    BadgeCriteria{Type: CriteriaCategories, Threshold: 5},
		},
		{
			ID:          "night_owl",
			Name:        "Night Owl",
			Description: "Attended 3 events after 9 PM",
			Icon:        "🦉",
			Criteria:    BadgeCriteria{Type: CriteriaTimeOfDay, Threshold: 3, FromHour: 21, ToHour: 5},
		},
		{
			ID:          "early_bird",
			Name:        "Early Bird",
			Description: "Attended 3 morning events",
			Icon:        "🐦",
			Criteria:    BadgeCriteria{Type: CriteriaTimeOfDay, Threshold: 3, FromHour: 6, ToHour: 11},
		},
		{
			ID:          "streak_master",
			Name:        "Streak Master",
			Description: "Attended events 7 days in a row",
			Icon:        "🔥",
			Criteria:    BadgeCriteria{Type: CriteriaStreak, Threshold: 7},
		},
	}
}

type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}

type UserStats struct {
	EventsAttended     int            `json:"events_attended"`
	StreakDays         int            `json:"streak_days"`
	LastAttendanceDate *time.Time     `json:"last_attendance_date"`
	XP                 int            `json:"xp"`
	Level              int            `json:"level"`
	Categories         map[string]int `json:"categories"`
	Badges             []EarnedBadge  `json:"badges"`
}

type userProgress struct {
	stats      UserStats
	startHours []int
	earned     map[string]bool
}

// GamificationService tracks XP, streaks and badges per user.
type GamificationService struct {
	mu     sync.Mutex
	users  map[string]*userProgress
	badges []Badge
	loc    *time.Location
	now    func() time.Time
}

func NewGamificationService(loc *time.Location) *GamificationService {
	if loc == nil {
		loc = time.UTC
	}
	return &GamificationService{
		users:  make(map[string]*userProgress),
		badges: DefaultBadges(),
		loc:    loc,
		now:    time.Now,
	}
}

// WithClock swaps the time source. Intended for tests.
func (gs *GamificationService) WithClock(now func() time.Time) *GamificationService {
	gs.now = now
	return gs
}

func LevelFor(xp int) int {
	return xp/XPPerLevel + 1
}

func (gs *GamificationService) progress(userID string) *userProgress {
	p, ok := gs.users[userID]
	if !ok {
		p = &userProgress{
			stats:  UserStats{Level: 1, Categories: map[string]int{}},
			earned: map[string]bool{},
		}
		gs.users[userID] = p
	}
	return p
}

// RecordAttendance credits userID for attending e and returns the updated
// stats plus any badges earned by this attendance.
func (gs *GamificationService) RecordAttendance(userID string, e models.Event) (UserStats, []EarnedBadge) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	p := gs.progress(userID)
	now := gs.now().In(gs.loc)

	p.stats.StreakDays = nextStreak(p.stats.StreakDays, p.stats.LastAttendanceDate, now)
	p.stats.LastAttendanceDate = &now
	p.stats.EventsAttended++
	p.stats.XP += XPPerEvent
	p.stats.Level = LevelFor(p.stats.XP)
	if e.Category != "" {
		p.stats.Categories[e.Category]++
	}
	p.startHours = append(p.startHours, e.StartTime.In(gs.loc).Hour())

	newly := []EarnedBadge{}
	for _, b := range gs.badges {
		if p.earned[b.ID] || !p.meets(b.Criteria) {
			continue
		}
		p.earned[b.ID] = true
		eb := EarnedBadge{Badge: b, EarnedAt: now}
		p.stats.Badges = append(p.stats.Badges, eb)
		newly = append(newly, eb)
	}
	return p.snapshot(), newly
}

func (gs *GamificationService) Stats(userID string) UserStats {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.progress(userID).snapshot()
}

func (gs *GamificationService) Badges() []Badge {
	return append([]Badge(nil), gs.badges...)
}

// nextStreak extends the streak on consecutive calendar days, keeps it on a
// same-day attendance and restarts it at 1 otherwise.
func nextStreak(current int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	today := calendarDay(now)
	lastDay := calendarDay(last.In(now.Location()))
	switch {
	case !lastDay.Before(today):
		return max(current, 1)
	case lastDay.AddDate(0, 0, 1).Equal(today):
		return current + 1
	default:
		return 1
	}
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (p *userProgress) meets(c BadgeCriteria) bool {
	switch c.Type {
	case CriteriaEventsAttended:
		return p.stats.EventsAttended >= c.Threshold
	case CriteriaCategories:
		return len(p.stats.Categories) >= c.Threshold
	case CriteriaStreak:
		return p.stats.StreakDays >= c.Threshold
	case CriteriaTimeOfDay:
		n := 0
		for _, h := range p.startHours {
			if inHourWindow(h, c.FromHour, c.ToHour) {
				n++
			}
		}
		return n >= c.Threshold
	default:
		return false
	}
}

func inHourWindow(h, from, to int) bool {
	if from <= to {
		return h >= from && h < to
	}
	return h >= from || h < to
}

func (p *userProgress) snapshot() UserStats {
	out := p.stats
	out.Categories = make(map[string]int, len(p.stats.Categories))
	for k, v := range p.stats.Categories {
		out.Categories[k] = v
	}
	out.Badges = append([]EarnedBadge{}, p.stats.Badges...)
	if p.stats.LastAttendanceDate != nil {
		t := *p.stats.LastAttendanceDate
		out.LastAttendanceDate = &t
	}
	return out
}
