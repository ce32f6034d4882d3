package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/happenings/internal/models"
)

var (
	ErrChatNotFound   = errors.New("chat not found")
	ErrInvalidMessage = errors.New("invalid message")
)

type ChatRoom struct {
	ID              string     `json:"id"`
	EventID         string     `json:"event_id,omitempty"`
	Name            string     `json:"name"`
	LastMessage     string     `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	IsGroup         bool       `json:"is_group"`
	UnreadCount     int        `json:"unread_count"`
}

type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Content    string    `json:"content" validate:"required,max=2000"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChatSeed builds the rooms and messages every user starts with, timed
// relative to now.
type ChatSeed func(now time.Time) ([]ChatRoom, map[string][]Message)

func MockChats(now time.Time) ([]ChatRoom, map[string][]Message) {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	yogaLast, sarahLast := ago(5*time.Minute), ago(2*time.Hour)

	rooms := []ChatRoom{
		{
			ID:              "1",
			EventID:         "1",
			Name:            "Sunset Yoga Group",
			LastMessage:     "See you all there!",
			LastMessageTime: &yogaLast,
			ImageURL:        "https://images.unsplash.com/photo-1518002171953-a080ee32bede?w=200&q=80",
			IsGroup:         true,
			UnreadCount:     2,
		},
		{
			ID:              "2",
			Name:            "Sarah Jenkins",
			LastMessage:     "Thanks for hosting!",
			LastMessageTime: &sarahLast,
			ImageURL:        "https://randomuser.me/api/portraits/women/44.jpg",
		},
	}
	messages := map[string][]Message{
		"1": {
			{ID: "m1", ChatID: "1", SenderID: "other1", SenderName: "Alice", Content: "Is everyone bringing their own mat?", CreatedAt: ago(30 * time.Minute)},
			{ID: "m2", ChatID: "1", SenderID: "other2", SenderName: "Bob", Content: "Yes! I have an extra if needed.", CreatedAt: ago(10 * time.Minute)},
			{ID: "m3", ChatID: "1", SenderID: "host1", SenderName: "Sarah", Content: "See you all there!", CreatedAt: yogaLast},
		},
		"2": {
			{ID: "m1", ChatID: "2", SenderID: "me", Content: "Hey Sarah, great event!", CreatedAt: ago(120 * time.Minute)},
			{ID: "m2", ChatID: "2", SenderID: "host1", SenderName: "Sarah", Content: "Thanks for hosting!", CreatedAt: ago(119 * time.Minute)},
		},
	}
	return rooms, messages
}

type userChats struct {
	rooms    []ChatRoom
	messages map[string][]Message
}

func (uc *userChats) room(chatID string) *ChatRoom {
	for i := range uc.rooms {
		if uc.rooms[i].ID == chatID {
			return &uc.rooms[i]
		}
	}
	return nil
}

// ChatService keeps each user's chat rooms and their messages. A user's
// rooms start from the seed the first time they're touched.
type ChatService struct {
	mu    sync.Mutex
	users map[string]*userChats
	seed  ChatSeed
	now   func() time.Time
	newID func() string
}

func NewChatService(seed ChatSeed) *ChatService {
	return &ChatService{
		users: make(map[string]*userChats),
		seed:  seed,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock swaps the time source. Intended for tests.
func (cs *ChatService) WithClock(now func() time.Time) *ChatService {
	cs.now = now
	return cs
}

func (cs *ChatService) chatsLocked(userID string) *userChats {
	uc, ok := cs.users[userID]
	if !ok {
		uc = &userChats{messages: map[string][]Message{}}
		if cs.seed != nil {
			uc.rooms, uc.messages = cs.seed(cs.now())
		}
		cs.users[userID] = uc
	}
	return uc
}

// Chats lists the user's rooms, most recent activity first.
func (cs *ChatService) Chats(userID string) []ChatRoom {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	rooms := slices.Clone(cs.chatsLocked(userID).rooms)
	slices.SortStableFunc(rooms, func(a, b ChatRoom) int {
		switch {
		case a.LastMessageTime == nil && b.LastMessageTime == nil:
			return 0
		case a.LastMessageTime == nil:
			return 1
		case b.LastMessageTime == nil:
			return -1
		default:
			return b.LastMessageTime.Compare(*a.LastMessageTime)
		}
	})
	return rooms
}

// Messages returns the room's messages oldest first and marks it read.
func (cs *ChatService) Messages(userID, chatID string) ([]Message, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	uc := cs.chatsLocked(userID)
	room := uc.room(chatID)
	if room == nil {
		return nil, ErrChatNotFound
	}
	room.UnreadCount = 0
	return append([]Message{}, uc.messages[chatID]...), nil
}

func (cs *ChatService) SendMessage(v Viewer, chatID, content string) (*Message, error) {
	msg := Message{
		ChatID:     chatID,
		SenderID:   v.ID,
		SenderName: v.Name,
		Content:    strings.TrimSpace(content),
	}
	if err := models.Validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	uc := cs.chatsLocked(v.ID)
	room := uc.room(chatID)
	if room == nil {
		return nil, ErrChatNotFound
	}

	msg.ID = cs.newID()
	msg.CreatedAt = cs.now()
	uc.messages[chatID] = append(uc.messages[chatID], msg)

	sent := msg.CreatedAt
	room.LastMessage = msg.Content
	room.LastMessageTime = &sent
	return &msg, nil
}
