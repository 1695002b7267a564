package game

import (
	"errors"
	"testing"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeMove_NoWinAfterThreeMoves(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 15})

	h.play(t, room, [2]int{7, 7}, [2]int{7, 8}, [2]int{7, 6})

	assert.Equal(t, domain.StatusPlaying, room.Status)
	assert.Equal(t, 3, room.MoveNo)
	assert.Equal(t, "bob", room.Turn)
	assert.Equal(t, domain.X, room.Board[7][6])
	assert.Equal(t, domain.O, room.Board[7][8])
	assertRoomInvariants(t, room)

	moves := h.rec.of("bob", domain.MsgMoveMade)
	require.Len(t, moves, 3)
	assert.Equal(t, 3, moves[2].Move.MoveNo)
	assert.Equal(t, "bob", moves[2].Move.NextTurn)

	snap := h.rec.last(t, "alice", domain.MsgSnapshot).Snapshot
	assert.Equal(t, 3, snap.MoveNo)
	assert.Equal(t, 7, snap.LastMove.Row)
	assert.Equal(t, 6, snap.LastMove.Col)
}

func TestMakeMove_Rejections(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 10})
	h.play(t, room, [2]int{0, 0})

	tests := []struct {
		name     string
		user     string
		roomID   string
		row, col int
		want     error
	}{
		{"unknown room", "bob", "missing", 1, 1, domain.ErrRoomNotFound},
		{"outsider", "carol", room.ID, 1, 1, domain.ErrNotMember},
		{"out of turn", "alice", room.ID, 1, 1, domain.ErrNotYourTurn},
		{"off the board", "bob", room.ID, 10, 0, domain.ErrOutOfBounds},
		{"negative index", "bob", room.ID, -1, 3, domain.ErrOutOfBounds},
		{"occupied", "bob", room.ID, 0, 0, domain.ErrCellOccupied},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := h.e.MakeMove(ctx, tc.user, tc.roomID, tc.row, tc.col)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 1, room.MoveNo)
	assert.Equal(t, "bob", room.Turn)
}

func TestMakeMove_NotPlaying(t *testing.T) {
	h := newHarness(t)
	id, err := h.e.CreateRoom(ctx, "alice", domain.RoomConfig{Name: "waiting", BoardSize: 10})
	require.NoError(t, err)

	err = h.e.MakeMove(ctx, "alice", id, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotPlaying)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestMakeMove_WinFromBoardEdge(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 10, BlockTwoEnds: true})

	// X runs (3,0)..(3,4); the far end is blocked, the edge counts as open.
	h.play(t, room,
		[2]int{3, 0}, [2]int{3, 5},
		[2]int{3, 1}, [2]int{9, 9},
		[2]int{3, 2}, [2]int{9, 7},
		[2]int{3, 3}, [2]int{0, 9},
		[2]int{3, 4},
	)

	assert.Equal(t, domain.StatusWaiting, room.Status)
	assertRoomInvariants(t, room)

	for _, user := range []string{"alice", "bob"} {
		ended := h.rec.last(t, user, domain.MsgMatchEnded)
		assert.Equal(t, domain.ReasonWin, ended.Result.Reason)
		assert.Equal(t, "alice", ended.Result.Winner)
		assert.Equal(t, "bob", ended.Result.Loser)
	}

	alice, bob := h.stats(t, "alice"), h.stats(t, "bob")
	assert.Equal(t, 1, alice.Wins)
	assert.Equal(t, domain.InitialRating+domain.RatingStep, alice.Rating)
	assert.Equal(t, 1, bob.Losses)
	assert.Equal(t, domain.InitialRating-domain.RatingStep, bob.Rating)

	history, err := h.store.MatchHistory(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 9, history[0].Moves)
	assert.Equal(t, domain.ReasonWin, history[0].Reason)
}

func TestMakeMove_BlockTwoEnds(t *testing.T) {
	// X fills (5,3)..(5,7) between O stones at (5,2) and (5,8).
	sequence := [][2]int{
		{5, 3}, {5, 2},
		{5, 4}, {5, 8},
		{5, 5}, {0, 0},
		{5, 6}, {0, 2},
		{5, 7},
	}

	tests := []struct {
		name         string
		blockTwoEnds bool
		wantStatus   domain.RoomStatus
	}{
		{"blocked five does not win", true, domain.StatusPlaying},
		{"five wins without the rule", false, domain.StatusWaiting},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			room := h.match(t, domain.RoomConfig{BoardSize: 15, BlockTwoEnds: tc.blockTwoEnds})

			h.play(t, room, sequence...)

			assert.Equal(t, tc.wantStatus, room.Status)
			assertRoomInvariants(t, room)
		})
	}
}

func TestMakeMove_StorageFailureLeavesRoomUnchanged(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 10})
	h.play(t, room,
		[2]int{3, 0}, [2]int{9, 0},
		[2]int{3, 1}, [2]int{9, 1},
		[2]int{3, 2}, [2]int{9, 2},
		[2]int{3, 3}, [2]int{9, 3},
	)
	before := room.Snapshot()
	h.rec.reset()

	h.store.FailWrites(errors.New("connection reset"))
	err := h.e.MakeMove(ctx, "alice", room.ID, 3, 4)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	assert.Equal(t, before, room.Snapshot())
	assert.Empty(t, h.rec.of("bob", domain.MsgMoveMade))
	assert.Equal(t, domain.InitialRating, h.stats(t, "alice").Rating)

	h.store.FailWrites(nil)
	require.NoError(t, h.e.MakeMove(ctx, "alice", room.ID, 3, 4))
	assert.Equal(t, domain.StatusWaiting, room.Status)
	assert.Equal(t, 1, h.stats(t, "alice").Wins)
}

func TestResign(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 15})
	h.play(t, room, [2]int{7, 7})

	assert.ErrorIs(t, h.e.Resign(ctx, "carol", room.ID), domain.ErrNotMember)
	require.NoError(t, h.e.Resign(ctx, "alice", room.ID))

	ended := h.rec.last(t, "bob", domain.MsgMatchEnded)
	assert.Equal(t, domain.ReasonResign, ended.Result.Reason)
	assert.Equal(t, "bob", ended.Result.Winner)
	assert.Equal(t, 1, h.stats(t, "bob").Wins)

	assert.ErrorIs(t, h.e.Resign(ctx, "alice", room.ID), domain.ErrNotPlaying)
}

func TestSweepTimeouts(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 15, Timed: true, TurnSeconds: 10})

	h.advance(9 * time.Second)
	h.play(t, room, [2]int{7, 7})
	h.advance(9 * time.Second)
	assert.Zero(t, h.e.SweepTimeouts(ctx), "deadline resets on each move")

	h.advance(2 * time.Second)
	assert.Equal(t, 1, h.e.SweepTimeouts(ctx))
	assert.Zero(t, h.e.SweepTimeouts(ctx))

	assert.Equal(t, domain.StatusWaiting, room.Status)
	assertRoomInvariants(t, room)

	ended := h.rec.of("alice", domain.MsgMatchEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, domain.ReasonTimeout, ended[0].Result.Reason)
	assert.Equal(t, "alice", ended[0].Result.Winner)
	assert.Equal(t, "bob", ended[0].Result.Loser)
	assert.Equal(t, 1, h.stats(t, "bob").Losses)
}

func TestSweepTimeouts_IgnoresUntimedRooms(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 15})

	h.advance(time.Hour)

	assert.Zero(t, h.e.SweepTimeouts(ctx))
	assert.Equal(t, domain.StatusPlaying, room.Status)
}

func TestSweepTimeouts_StorageFailureStillEndsMatch(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 15, Timed: true, TurnSeconds: 5})
	h.store.FailWrites(errors.New("disk full"))

	h.advance(6 * time.Second)

	assert.Equal(t, 1, h.e.SweepTimeouts(ctx))
	assert.Equal(t, domain.StatusWaiting, room.Status)
	assert.Equal(t, domain.InitialRating, h.stats(t, "alice").Rating)
}

func TestSnapshot(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 10, Timed: true, TurnSeconds: 20})
	h.play(t, room, [2]int{4, 4})

	snap, err := h.e.Snapshot("bob", room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.X, snap.Board[4][4])
	assert.Equal(t, "bob", snap.Turn)
	require.NotNil(t, snap.Deadline)
	assert.Equal(t, h.now.Add(20*time.Second), *snap.Deadline)

	snap.Board[4][4] = domain.Empty
	assert.Equal(t, domain.X, room.Board[4][4], "snapshot owns its board")

	_, err = h.e.Snapshot("carol", room.ID)
	assert.ErrorIs(t, err, domain.ErrNotMember)
}
