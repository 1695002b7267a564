package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := s.CreateUser(context.Background(), n, "hash-"+n)
		require.NoError(t, err)
	}
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "alice")

	_, err := s.CreateUser(ctx, "alice", "x")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	acc, err := s.FindAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-alice", acc.PasswordHash)
	assert.Equal(t, domain.InitialRating, acc.Rating)

	_, err = s.FindUser(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_SaveMatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "alice", "bob")

	rec := domain.MatchRecord{RoomID: "r1", PlayerX: "alice", PlayerO: "bob", Winner: "alice", Reason: domain.ReasonWin, Moves: 9}
	stats := []domain.UserStats{
		{Username: "alice", Wins: 1, Rating: 1020},
		{Username: "bob", Losses: 1, Rating: 980},
	}
	require.NoError(t, s.SaveMatch(ctx, rec, stats))

	bob, err := s.FindUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 980, bob.Rating)

	history, err := s.MatchHistory(ctx, "bob", 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.MatchRecord{rec}, history)

	err = s.SaveMatch(ctx, rec, []domain.UserStats{{Username: "ghost"}})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_FailWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "alice", "bob")
	boom := errors.New("boom")

	s.FailWrites(boom)
	err := s.SaveMatch(ctx, domain.MatchRecord{PlayerX: "alice", PlayerO: "bob"}, []domain.UserStats{{Username: "alice", Rating: 5000}})
	assert.ErrorIs(t, err, boom)

	alice, err := s.FindUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.InitialRating, alice.Rating)
}

func TestStore_TopByRating(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "alice", "bob", "carol", "dave")
	require.NoError(t, s.UpdateStats(ctx, domain.UserStats{Username: "carol", Rating: 1100, Wins: 5}))
	require.NoError(t, s.UpdateStats(ctx, domain.UserStats{Username: "bob", Rating: 1000, Wins: 2}))
	require.NoError(t, s.SetBanned(ctx, "dave", true))

	top, err := s.TopByRating(ctx, 3)
	require.NoError(t, err)

	names := make([]string, len(top))
	for i, e := range top {
		names[i] = e.Username
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, []string{"carol", "bob", "alice"}, names)
}

func TestStore_Friends(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seed(t, s, "alice", "bob", "carol")

	require.NoError(t, s.AddFriendRequest(ctx, "carol", "alice"))
	require.NoError(t, s.AddFriends(ctx, "bob", "alice"))

	ok, err := s.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err := s.HasFriendRequest(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.False(t, pending, "requests are directional")

	friends, err := s.ListFriends(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, friends)

	incoming, err := s.ListFriendRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, incoming)
}

func TestBlocklist(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	b := NewBlocklist()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Block(ctx, "tok", time.Minute))
	blocked, err := b.IsBlocked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, blocked)

	now = now.Add(2 * time.Minute)
	blocked, err = b.IsBlocked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, blocked)
}
