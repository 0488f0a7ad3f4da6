// Package session holds the client-resident membership state that is not
// mirrored by the record store: the per-user saved-posts set and the
// joinedCommunities set. The memory store keeps the original process-local
// lifetime (lost on restart, by design); the Redis store gives the same
// state a durable, session-bound home.
package session

import (
	"context"
	"sort"
	"sync"
)

// Store tracks per-user saved posts and joined communities.
type Store interface {
	ToggleSavedPost(ctx context.Context, userID, postID int) (bool, error)
	IsPostSaved(ctx context.Context, userID, postID int) (bool, error)
	SavedPosts(ctx context.Context, userID int) ([]int, error)

	JoinCommunity(ctx context.Context, userID, communityID int) error
	LeaveCommunity(ctx context.Context, userID, communityID int) error
	IsJoined(ctx context.Context, userID, communityID int) (bool, error)
	JoinedCommunities(ctx context.Context, userID int) ([]int, error)
}

// MemoryStore is the process-local implementation.
type MemoryStore struct {
	mu     sync.RWMutex
	saved  map[int]map[int]bool
	joined map[int]map[int]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		saved:  make(map[int]map[int]bool),
		joined: make(map[int]map[int]bool),
	}
}

func (s *MemoryStore) ToggleSavedPost(ctx context.Context, userID, postID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved[userID] == nil {
		s.saved[userID] = make(map[int]bool)
	}
	if s.saved[userID][postID] {
		delete(s.saved[userID], postID)
		return false, nil
	}
	s.saved[userID][postID] = true
	return true, nil
}

func (s *MemoryStore) IsPostSaved(ctx context.Context, userID, postID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[userID][postID], nil
}

func (s *MemoryStore) SavedPosts(ctx context.Context, userID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.saved[userID]), nil
}

func (s *MemoryStore) JoinCommunity(ctx context.Context, userID, communityID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.joined[userID] == nil {
		s.joined[userID] = make(map[int]bool)
	}
	s.joined[userID][communityID] = true
	return nil
}

func (s *MemoryStore) LeaveCommunity(ctx context.Context, userID, communityID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.joined[userID], communityID)
	return nil
}

func (s *MemoryStore) IsJoined(ctx context.Context, userID, communityID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.joined[userID][communityID], nil
}

func (s *MemoryStore) JoinedCommunities(ctx context.Context, userID int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.joined[userID]), nil
}

func sortedKeys(set map[int]bool) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
