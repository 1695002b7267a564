package game

import (
	"context"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
)

// SubmitPostGameChoice records what a player wants after a match: RETURN
// leaves the room at once, REMATCH starts a new match with swapped marks as
// soon as the opponent also asks for one.
func (e *Engine) SubmitPostGameChoice(ctx context.Context, user, roomID string, choice domain.PostGameChoice) (Outcome, error) {
	if !choice.Valid() {
		return Outcome{}, fmt.Errorf("%w: choice must be REMATCH or RETURN", domain.ErrInvalidRequest)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return Outcome{}, err
	}
	if room.Status != domain.StatusWaiting {
		return Outcome{}, domain.ErrNotWaiting
	}

	if choice == domain.ChoiceReturn {
		e.leaveLocked(ctx, room, user)
		e.send(user, domain.ServerMessage{Type: domain.MsgReturnToLobby, RoomID: roomID, Message: "returned to lobby"})
		e.pushRoomList()
		return Outcome{Accepted: true, Message: "returned to lobby"}, nil
	}

	opponent := room.Opponent(user)
	if opponent == "" || room.Choices[opponent] == domain.ChoiceReturn {
		msg := "opponent declined the rematch"
		e.send(user, domain.ServerMessage{Type: domain.MsgRematchDeclined, RoomID: roomID, Message: msg})
		return Outcome{Accepted: false, Message: msg}, nil
	}

	if room.Choices[opponent] == domain.ChoiceRematch {
		x, o := room.PlayerO, room.PlayerX
		if x == "" || o == "" {
			x, o = user, opponent
			if e.coin() {
				x, o = o, x
			}
		}
		e.startMatchLocked(room, x, o)
		return Outcome{Accepted: true, Message: "rematch started"}, nil
	}

	if room.Choices[user] == domain.ChoiceRematch {
		return Outcome{Pending: true, Message: "waiting for opponent"}, nil
	}
	room.Choices[user] = domain.ChoiceRematch
	if err := room.Rematch.Open(domain.Proposal[struct{}]{From: user, To: opponent}); err != nil {
		return Outcome{}, err
	}
	e.send(opponent, domain.ServerMessage{
		Type:    domain.MsgRematchRequest,
		RoomID:  roomID,
		From:    user,
		Message: fmt.Sprintf("%s wants a rematch", user),
	})
	return Outcome{Pending: true, Message: "waiting for opponent"}, nil
}
