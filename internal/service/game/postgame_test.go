package game

import (
	"testing"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finished plays a match to an agreed draw and leaves both players seated.
func (h *harness) finished(t *testing.T) *domain.Room {
	t.Helper()
	room := h.match(t, domain.RoomConfig{BoardSize: 15})
	h.play(t, room, [2]int{7, 7})
	require.NoError(t, h.e.RequestDraw(ctx, "alice", room.ID))
	_, err := h.e.RespondDraw(ctx, "bob", room.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.StatusWaiting, room.Status)
	return room
}

func TestPostGame_RematchThenReturn(t *testing.T) {
	h := newHarness(t)
	room := h.finished(t)

	out, err := h.e.SubmitPostGameChoice(ctx, "alice", room.ID, domain.ChoiceRematch)
	require.NoError(t, err)
	assert.True(t, out.Pending)
	h.rec.last(t, "bob", domain.MsgRematchRequest)

	out, err = h.e.SubmitPostGameChoice(ctx, "bob", room.ID, domain.ChoiceReturn)
	require.NoError(t, err)
	assert.True(t, out.Accepted)

	declined := h.rec.last(t, "alice", domain.MsgRematchDeclined)
	assert.Equal(t, "bob", declined.From)
	h.rec.last(t, "bob", domain.MsgReturnToLobby)

	assert.Equal(t, []string{"alice"}, room.Players)
	assert.Equal(t, domain.StatusWaiting, room.Status)
	assert.NotContains(t, h.e.seats, "bob")
	assertRoomInvariants(t, room)

	rooms := h.e.ListOpenRooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, room.ID, rooms[0].ID)
}

func TestPostGame_RematchSwapsMarks(t *testing.T) {
	h := newHarness(t)
	room := h.finished(t)
	require.Equal(t, "alice", room.PlayerX)

	out, err := h.e.SubmitPostGameChoice(ctx, "bob", room.ID, domain.ChoiceRematch)
	require.NoError(t, err)
	assert.True(t, out.Pending)

	out, err = h.e.SubmitPostGameChoice(ctx, "bob", room.ID, domain.ChoiceRematch)
	require.NoError(t, err)
	assert.True(t, out.Pending, "repeating the choice keeps waiting")

	out, err = h.e.SubmitPostGameChoice(ctx, "alice", room.ID, domain.ChoiceRematch)
	require.NoError(t, err)
	assert.True(t, out.Accepted)

	assert.Equal(t, domain.StatusPlaying, room.Status)
	assert.Equal(t, "bob", room.PlayerX)
	assert.Equal(t, "alice", room.PlayerO)
	assert.Equal(t, "bob", room.Turn)
	assert.Zero(t, room.MoveNo)
	assertRoomInvariants(t, room)

	started := h.rec.last(t, "bob", domain.MsgMatchStarted)
	assert.Equal(t, domain.X, started.YourMark)
}

func TestPostGame_RematchWithoutOpponent(t *testing.T) {
	h := newHarness(t)
	room := h.finished(t)
	require.NoError(t, h.e.LeaveRoom(ctx, "bob", room.ID))

	out, err := h.e.SubmitPostGameChoice(ctx, "alice", room.ID, domain.ChoiceRematch)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.False(t, out.Pending)
	h.rec.last(t, "alice", domain.MsgRematchDeclined)
}

func TestPostGame_Rejections(t *testing.T) {
	h := newHarness(t)
	room := h.match(t, domain.RoomConfig{BoardSize: 15})

	_, err := h.e.SubmitPostGameChoice(ctx, "alice", room.ID, domain.PostGameChoice("STAY"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = h.e.SubmitPostGameChoice(ctx, "alice", room.ID, domain.ChoiceRematch)
	assert.ErrorIs(t, err, domain.ErrNotWaiting)

	_, err = h.e.SubmitPostGameChoice(ctx, "carol", room.ID, domain.ChoiceReturn)
	assert.ErrorIs(t, err, domain.ErrNotMember)
}

func TestPostGame_ReturnClosesEmptyRoom(t *testing.T) {
	h := newHarness(t)
	room := h.finished(t)

	_, err := h.e.SubmitPostGameChoice(ctx, "alice", room.ID, domain.ChoiceReturn)
	require.NoError(t, err)
	_, err = h.e.SubmitPostGameChoice(ctx, "bob", room.ID, domain.ChoiceReturn)
	require.NoError(t, err)

	assert.NotContains(t, h.e.rooms, room.ID)
	assert.Empty(t, h.e.seats)
}
