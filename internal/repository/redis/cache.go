package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	leaderboardKey = "leaderboard"
	userKeyPrefix  = "user:"
)

// Backend is the authoritative store the cache sits in front of.
type Backend interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.UserStats, error)
	FindAccount(ctx context.Context, username string) (*domain.Account, error)
	FindUser(ctx context.Context, username string) (*domain.UserStats, error)
	UpdateStats(ctx context.Context, stats domain.UserStats) error
	SaveMatch(ctx context.Context, rec domain.MatchRecord, stats []domain.UserStats) error
	MatchHistory(ctx context.Context, username string, limit int) ([]domain.MatchRecord, error)
	TopByRating(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
	SetBanned(ctx context.Context, username string, banned bool) error

	AreFriends(ctx context.Context, a, b string) (bool, error)
	HasFriendRequest(ctx context.Context, from, to string) (bool, error)
	AddFriendRequest(ctx context.Context, from, to string) error
	DeleteFriendRequest(ctx context.Context, from, to string) error
	AddFriends(ctx context.Context, a, b string) error
	ListFriends(ctx context.Context, username string) ([]string, error)
	ListFriendRequests(ctx context.Context, username string) ([]string, error)
}

// CachedStore serves leaderboards and player stats from Redis and drops the
// cached copies whenever a write could change them. Redis failures are
// logged and the backend answers instead.
type CachedStore struct {
	Backend
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedStore(backend Backend, client *redis.Client, ttl time.Duration, log *zap.Logger) *CachedStore {
	return &CachedStore{Backend: backend, client: client, ttl: ttl, log: log}
}

func (s *CachedStore) load(get *redis.StringCmd, dst any) bool {
	raw, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.log.Warn("cache read failed", zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("cache entry corrupt", zap.Error(err))
		return false
	}
	return true
}

func (s *CachedStore) invalidate(ctx context.Context, users ...string) {
	keys := make([]string, 0, len(users)+1)
	keys = append(keys, leaderboardKey)
	for _, u := range users {
		keys = append(keys, userKeyPrefix+u)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Error("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *CachedStore) TopByRating(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	field := strconv.Itoa(n)

	var cached []domain.LeaderboardEntry
	if s.load(s.client.HGet(ctx, leaderboardKey, field), &cached) {
		return cached, nil
	}

	top, err := s.Backend.TopByRating(ctx, n)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(top); err == nil {
		pipe := s.client.TxPipeline()
		pipe.HSet(ctx, leaderboardKey, field, raw)
		pipe.Expire(ctx, leaderboardKey, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Warn("cache write failed", zap.String("key", leaderboardKey), zap.Error(err))
		}
	}
	return top, nil
}

func (s *CachedStore) FindUser(ctx context.Context, username string) (*domain.UserStats, error) {
	key := userKeyPrefix + username

	var cached domain.UserStats
	if s.load(s.client.Get(ctx, key), &cached) {
		return &cached, nil
	}

	stats, err := s.Backend.FindUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *CachedStore) CreateUser(ctx context.Context, username, passwordHash string) (*domain.UserStats, error) {
	stats, err := s.Backend.CreateUser(ctx, username, passwordHash)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, username)
	return stats, nil
}

func (s *CachedStore) UpdateStats(ctx context.Context, stats domain.UserStats) error {
	if err := s.Backend.UpdateStats(ctx, stats); err != nil {
		return err
	}
	s.invalidate(ctx, stats.Username)
	return nil
}

func (s *CachedStore) SaveMatch(ctx context.Context, rec domain.MatchRecord, stats []domain.UserStats) error {
	if err := s.Backend.SaveMatch(ctx, rec, stats); err != nil {
		return err
	}
	users := make([]string, len(stats))
	for i, st := range stats {
		users[i] = st.Username
	}
	s.invalidate(ctx, users...)
	return nil
}

func (s *CachedStore) SetBanned(ctx context.Context, username string, banned bool) error {
	if err := s.Backend.SetBanned(ctx, username, banned); err != nil {
		return err
	}
	s.invalidate(ctx, username)
	return nil
}
