package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendsSeededPerUser(t *testing.T) {
	ss := NewSocialService(MockFriends())

	require.Len(t, ss.Friends("u1"), 3)
	assert.True(t, ss.RemoveFriend("u1", "friend2"))
	assert.False(t, ss.RemoveFriend("u1", "friend2"))

	assert.Len(t, ss.Friends("u1"), 2)
	assert.Len(t, ss.Friends("u2"), 3, "other users keep their own list")
}

func TestAddFriend(t *testing.T) {
	ss := NewSocialService(nil)

	list, err := ss.AddFriend("u1", Friend{ID: "f9", Name: "Kiran"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = ss.AddFriend("u1", Friend{ID: "f9", Name: "Kiran"})
	require.NoError(t, err)
	assert.Len(t, list, 1, "adding twice is a no-op")

	_, err = ss.AddFriend("u1", Friend{ID: "u1", Name: "Me"})
	assert.Error(t, err)

	_, err = ss.AddFriend("u1", Friend{ID: "", Name: "Nobody"})
	assert.Error(t, err)

	_, err = ss.AddFriend("u1", Friend{ID: "f10", Name: "Bad", AvatarURL: "not a url"})
	assert.Error(t, err)
}

func TestFriendsAttendingAndMarkFriends(t *testing.T) {
	ss := NewSocialService(MockFriends())
	attendees := []models.Attendee{
		{UserID: "friend1", Name: "Sarah Chen"},
		{UserID: "stranger", Name: "Someone"},
		{UserID: "friend3", Name: "Emma Wilson"},
	}

	got := ss.FriendsAttending("u1", attendees)
	require.Len(t, got, 2)
	assert.Equal(t, "friend1", got[0].UserID)
	assert.True(t, got[0].IsFriend)

	events := []models.Event{{ID: "1", Attendees: attendees}}
	ss.MarkFriends("u1", events)
	assert.True(t, events[0].Attendees[0].IsFriend)
	assert.False(t, events[0].Attendees[1].IsFriend)

	ss.RemoveFriend("u1", "friend1")
	ss.MarkFriends("u1", events)
	assert.False(t, events[0].Attendees[0].IsFriend, "recomputed from the current friend set")
}

func TestFriendsConcurrentAccess(t *testing.T) {
	ss := NewSocialService(MockFriends())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := ss.AddFriend("u1", Friend{ID: fmt.Sprintf("f%d", i), Name: "Guest"})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			ss.Friends("u1")
		}()
	}
	wg.Wait()

	assert.Len(t, ss.Friends("u1"), 23)
}
