package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(ctx context.Context, t *testing.T, s *Store, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := s.CreateUser(ctx, n, "hash-"+n)
		require.NoError(t, err)
	}
}

func TestUserRepo(t *testing.T) {
	ctx, s := newStore(t)

	stats, err := s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, domain.InitialRating, stats.Rating)

	_, err = s.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	acc, err := s.FindAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", acc.PasswordHash)
	assert.False(t, acc.Banned)

	_, err = s.FindUser(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, s.SetBanned(ctx, "alice", true))
	acc, err = s.FindAccount(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, acc.Banned)
	assert.ErrorIs(t, s.SetBanned(ctx, "nobody", true), domain.ErrUserNotFound)
}

func TestGameRepo_SaveMatch(t *testing.T) {
	ctx, s := newStore(t)
	seed(ctx, t, s, "alice", "bob")

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	win := domain.MatchRecord{
		RoomID: "r1", PlayerX: "alice", PlayerO: "bob", Winner: "alice",
		Reason: domain.ReasonWin, Moves: 9, StartedAt: start, EndedAt: start.Add(time.Minute),
	}
	require.NoError(t, s.SaveMatch(ctx, win, []domain.UserStats{
		{Username: "alice", Wins: 1, Rating: 1020},
		{Username: "bob", Losses: 1, Rating: 980},
	}))

	draw := domain.MatchRecord{
		RoomID: "r1", PlayerX: "bob", PlayerO: "alice",
		Reason: domain.ReasonDraw, Moves: 3, StartedAt: start.Add(2 * time.Minute), EndedAt: start.Add(3 * time.Minute),
	}
	require.NoError(t, s.SaveMatch(ctx, draw, []domain.UserStats{
		{Username: "bob", Losses: 1, Draws: 1, Rating: 980},
		{Username: "alice", Wins: 1, Draws: 1, Rating: 1020},
	}))

	bob, err := s.FindUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 980, bob.Rating)
	assert.Equal(t, 1, bob.Draws)

	history, err := s.MatchHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ReasonDraw, history[0].Reason)
	assert.Empty(t, history[0].Winner)
	assert.Equal(t, "alice", history[1].Winner)
	assert.True(t, win.EndedAt.Equal(history[1].EndedAt))
}

func TestGameRepo_SaveMatchIsAtomic(t *testing.T) {
	ctx, s := newStore(t)
	seed(ctx, t, s, "alice")

	rec := domain.MatchRecord{RoomID: "r1", PlayerX: "alice", PlayerO: "ghost", Reason: domain.ReasonWin, StartedAt: time.Now(), EndedAt: time.Now()}
	err := s.SaveMatch(ctx, rec, []domain.UserStats{
		{Username: "alice", Wins: 1, Rating: 1020},
		{Username: "ghost", Losses: 1, Rating: 980},
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	alice, err := s.FindUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.InitialRating, alice.Rating)
}

func TestUserRepo_TopByRating(t *testing.T) {
	ctx, s := newStore(t)
	seed(ctx, t, s, "alice", "bob", "carol", "dave")
	require.NoError(t, s.UpdateStats(ctx, domain.UserStats{Username: "carol", Rating: 1100, Wins: 5}))
	require.NoError(t, s.UpdateStats(ctx, domain.UserStats{Username: "bob", Rating: 1000, Wins: 2}))
	require.NoError(t, s.SetBanned(ctx, "dave", true))

	top, err := s.TopByRating(ctx, 3)
	require.NoError(t, err)

	require.Len(t, top, 3)
	assert.Equal(t, domain.LeaderboardEntry{Rank: 1, Username: "carol", Rating: 1100, Wins: 5}, top[0])
	assert.Equal(t, "bob", top[1].Username)
	assert.Equal(t, "alice", top[2].Username)
}

func TestFriendRepo(t *testing.T) {
	ctx, s := newStore(t)
	seed(ctx, t, s, "alice", "bob", "carol")

	require.NoError(t, s.AddFriendRequest(ctx, "carol", "alice"))
	require.NoError(t, s.AddFriendRequest(ctx, "carol", "alice"))
	require.NoError(t, s.AddFriends(ctx, "bob", "alice"))

	ok, err := s.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := s.HasFriendRequest(ctx, "carol", "alice")
	require.NoError(t, err)
	assert.True(t, pending)

	incoming, err := s.ListFriendRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, incoming)

	require.NoError(t, s.DeleteFriendRequest(ctx, "carol", "alice"))
	incoming, err = s.ListFriendRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	friends, err := s.ListFriends(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, friends)
}
