package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
)

type pair struct{ a, b string }

func friendKey(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Store keeps everything in process memory. It backs local runs without a
// database and the service tests.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	matches  []domain.MatchRecord
	friends  map[pair]bool
	requests map[pair]bool // from -> to, not normalized
	writeErr error
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		friends:  make(map[pair]bool),
		requests: make(map[pair]bool),
	}
}

// FailWrites makes every subsequent write return err until called with nil.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return nil, s.writeErr
	}
	if _, ok := s.accounts[username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	acc := &domain.Account{UserStats: domain.NewUserStats(username, time.Now()), PasswordHash: passwordHash}
	s.accounts[username] = acc
	stats := acc.UserStats
	return &stats, nil
}

func (s *Store) FindAccount(ctx context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *acc
	return &out, nil
}

func (s *Store) FindUser(ctx context.Context, username string) (*domain.UserStats, error) {
	acc, err := s.FindAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	return &acc.UserStats, nil
}

func (s *Store) UpdateStats(ctx context.Context, stats domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	return s.updateStatsLocked(stats)
}

func (s *Store) updateStatsLocked(stats domain.UserStats) error {
	acc, ok := s.accounts[stats.Username]
	if !ok {
		return domain.ErrUserNotFound
	}
	acc.Wins, acc.Losses, acc.Draws, acc.Rating = stats.Wins, stats.Losses, stats.Draws, stats.Rating
	return nil
}

func (s *Store) SaveMatch(ctx context.Context, rec domain.MatchRecord, stats []domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	for _, st := range stats {
		if _, ok := s.accounts[st.Username]; !ok {
			return domain.ErrUserNotFound
		}
	}
	for _, st := range stats {
		_ = s.updateStatsLocked(st)
	}
	s.matches = append(s.matches, rec)
	return nil
}

func (s *Store) MatchHistory(ctx context.Context, username string, limit int) ([]domain.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MatchRecord, 0)
	for i := len(s.matches) - 1; i >= 0 && len(out) < limit; i-- {
		m := s.matches[i]
		if m.PlayerX == username || m.PlayerO == username {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) TopByRating(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.UserStats, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if !acc.Banned {
			all = append(all, acc.UserStats)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Rating != all[j].Rating {
			return all[i].Rating > all[j].Rating
		}
		if all[i].Wins != all[j].Wins {
			return all[i].Wins > all[j].Wins
		}
		return all[i].Username < all[j].Username
	})

	if len(all) > n {
		all = all[:n]
	}
	out := make([]domain.LeaderboardEntry, len(all))
	for i, u := range all {
		out[i] = domain.LeaderboardEntry{
			Rank: i + 1, Username: u.Username, Rating: u.Rating,
			Wins: u.Wins, Losses: u.Losses, Draws: u.Draws,
		}
	}
	return out, nil
}

func (s *Store) AreFriends(ctx context.Context, a, b string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.friends[friendKey(a, b)], nil
}

func (s *Store) HasFriendRequest(ctx context.Context, from, to string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests[pair{from, to}], nil
}

func (s *Store) AddFriendRequest(ctx context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.requests[pair{from, to}] = true
	return nil
}

func (s *Store) DeleteFriendRequest(ctx context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.requests, pair{from, to})
	return nil
}

func (s *Store) AddFriends(ctx context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.friends[friendKey(a, b)] = true
	return nil
}

func (s *Store) ListFriends(ctx context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for k := range s.friends {
		switch username {
		case k.a:
			out = append(out, k.b)
		case k.b:
			out = append(out, k.a)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *Store) ListFriendRequests(ctx context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for k := range s.requests {
		if k.b == username {
			out = append(out, k.a)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *Store) SetBanned(ctx context.Context, username string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	acc, ok := s.accounts[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	acc.Banned = banned
	return nil
}
