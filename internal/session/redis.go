package session

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the saved-post and joined-community sets in Redis so they
// survive restarts. One set per user and concern.
type RedisStore struct {
	inner *redis.Client
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisStore{inner: client}, nil
}

func savedKey(userID int) string {
	return fmt.Sprintf("savedPosts:%d", userID)
}

func joinedKey(userID int) string {
	return fmt.Sprintf("joinedCommunities:%d", userID)
}

func (s *RedisStore) ToggleSavedPost(ctx context.Context, userID, postID int) (bool, error) {
	key := savedKey(userID)
	member := strconv.Itoa(postID)

	saved, err := s.inner.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	if saved {
		if err := s.inner.SRem(ctx, key, member).Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.inner.SAdd(ctx, key, member).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) IsPostSaved(ctx context.Context, userID, postID int) (bool, error) {
	return s.inner.SIsMember(ctx, savedKey(userID), strconv.Itoa(postID)).Result()
}

func (s *RedisStore) SavedPosts(ctx context.Context, userID int) ([]int, error) {
	return s.members(ctx, savedKey(userID))
}

func (s *RedisStore) JoinCommunity(ctx context.Context, userID, communityID int) error {
	return s.inner.SAdd(ctx, joinedKey(userID), strconv.Itoa(communityID)).Err()
}

func (s *RedisStore) LeaveCommunity(ctx context.Context, userID, communityID int) error {
	return s.inner.SRem(ctx, joinedKey(userID), strconv.Itoa(communityID)).Err()
}

func (s *RedisStore) IsJoined(ctx context.Context, userID, communityID int) (bool, error) {
	return s.inner.SIsMember(ctx, joinedKey(userID), strconv.Itoa(communityID)).Result()
}

func (s *RedisStore) JoinedCommunities(ctx context.Context, userID int) ([]int, error) {
	return s.members(ctx, joinedKey(userID))
}

func (s *RedisStore) members(ctx context.Context, key string) ([]int, error) {
	raw, err := s.inner.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(raw))
	for _, member := range raw {
		if id, err := strconv.Atoi(member); err == nil {
			ids = append(ids, id)
		}
	}
	// SMEMBERS order is unspecified
	sort.Ints(ids)
	return ids, nil
}
