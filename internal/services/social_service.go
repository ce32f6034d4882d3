package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joshua-takyi/happenings/internal/models"
)

type Friend struct {
	ID        string `json:"id" validate:"required,max=64"`
	Name      string `json:"name" validate:"required,max=80"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func MockFriends() []Friend {
	return []Friend{
		{ID: "friend1", Name: "Sarah Chen", AvatarURL: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=100&q=80"},
		{ID: "friend2", Name: "Raj Patel", AvatarURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&q=80"},
		{ID: "friend3", Name: "Emma Wilson", AvatarURL: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&q=80"},
	}
}

// SocialService keeps a friend list per user. A user's list starts from the
// seed the first time it's touched.
type SocialService struct {
	mu      sync.Mutex
	friends map[string][]Friend
	seed    []Friend
}

func NewSocialService(seed []Friend) *SocialService {
	return &SocialService{
		friends: make(map[string][]Friend),
		seed:    seed,
	}
}

func (ss *SocialService) listLocked(userID string) []Friend {
	list, ok := ss.friends[userID]
	if !ok {
		list = append([]Friend(nil), ss.seed...)
		ss.friends[userID] = list
	}
	return list
}

func (ss *SocialService) Friends(userID string) []Friend {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return append([]Friend{}, ss.listLocked(userID)...)
}

func (ss *SocialService) AddFriend(userID string, f Friend) ([]Friend, error) {
	f.ID = strings.TrimSpace(f.ID)
	if err := models.Validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid friend: %w", err)
	}
	if f.ID == userID {
		return nil, fmt.Errorf("cannot add yourself as a friend")
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	list := ss.listLocked(userID)
	for _, existing := range list {
		if existing.ID == f.ID {
			return append([]Friend{}, list...), nil
		}
	}
	list = append(list, f)
	ss.friends[userID] = list
	return append([]Friend{}, list...), nil
}

// RemoveFriend drops friendID and reports whether it was there.
func (ss *SocialService) RemoveFriend(userID, friendID string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	list := ss.listLocked(userID)
	out := list[:0:0]
	for _, f := range list {
		if f.ID != friendID {
			out = append(out, f)
		}
	}
	ss.friends[userID] = out
	return len(out) != len(list)
}

func (ss *SocialService) friendSet(userID string) map[string]struct{} {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	set := make(map[string]struct{})
	for _, f := range ss.listLocked(userID) {
		set[f.ID] = struct{}{}
	}
	return set
}

// MarkFriends sets is_friend on each attendee relative to the viewer.
func (ss *SocialService) MarkFriends(userID string, events []models.Event) {
	set := ss.friendSet(userID)
	for i := range events {
		for j := range events[i].Attendees {
			_, ok := set[events[i].Attendees[j].UserID]
			events[i].Attendees[j].IsFriend = ok
		}
	}
}

func (ss *SocialService) FriendsAttending(userID string, attendees []models.Attendee) []models.Attendee {
	set := ss.friendSet(userID)
	out := []models.Attendee{}
	for _, a := range attendees {
		if _, ok := set[a.UserID]; ok {
			a.IsFriend = true
			out = append(out, a)
		}
	}
	return out
}
