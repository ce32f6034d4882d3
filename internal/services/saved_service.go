package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/store"
)

// SavedService owns the per-user saved sets. The store holds the live set;
// when a repo is configured every toggle is written through to it and each
// user's set is loaded from it on first use.
type SavedService struct {
	savedRepo models.SavedRepo
	store     *store.EventStore

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewSavedService(savedRepo models.SavedRepo, st *store.EventStore) *SavedService {
	return &SavedService{
		savedRepo: savedRepo,
		store:     st,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// lockUser serializes toggles for one user so a flip, its write and any
// rollback are never interleaved with another toggle.
func (ss *SavedService) lockUser(userID string) func() {
	ss.mu.Lock()
	l, ok := ss.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		ss.userLocks[userID] = l
	}
	ss.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (ss *SavedService) Persistent() bool {
	return ss.savedRepo != nil
}

// Hydrate loads the user's saved ids once. A failed load is retried on the
// next call.
func (ss *SavedService) Hydrate(ctx context.Context, userID string) error {
	if ss.savedRepo == nil || ss.store.IsHydrated(userID) {
		return nil
	}
	ids, err := ss.savedRepo.ListSaved(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load saved events: %w", err)
	}
	ss.store.HydrateSaved(userID, ids)
	return nil
}

func (ss *SavedService) Toggle(ctx context.Context, userID, eventID string) (*models.Event, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user ID")
	}
	if strings.TrimSpace(eventID) == "" {
		return nil, fmt.Errorf("event ID cannot be empty")
	}

	unlock := ss.lockUser(userID)
	defer unlock()

	if err := ss.Hydrate(ctx, userID); err != nil {
		return nil, err
	}

	e, err := ss.store.ToggleSave(userID, eventID)
	if err != nil {
		return nil, err
	}
	if ss.savedRepo == nil {
		return &e, nil
	}

	if e.IsSaved {
		err = ss.savedRepo.AddSaved(ctx, userID, eventID)
	} else {
		err = ss.savedRepo.RemoveSaved(ctx, userID, eventID)
	}
	if err != nil {
		// roll the in-memory flip back so memory and storage agree
		if _, rerr := ss.store.ToggleSave(userID, eventID); rerr != nil {
			return nil, fmt.Errorf("%w (rollback failed: %v)", err, rerr)
		}
		return nil, err
	}
	return &e, nil
}

func (ss *SavedService) List(ctx context.Context, userID string) ([]models.Event, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user ID")
	}
	if err := ss.Hydrate(ctx, userID); err != nil {
		return nil, err
	}
	return ss.store.Saved(userID), nil
}
