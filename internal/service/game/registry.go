package game

import (
	"context"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"go.uber.org/zap"
)

func (e *Engine) CreateRoom(ctx context.Context, owner string, cfg domain.RoomConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, seated := e.seats[owner]; seated {
		return "", domain.ErrAlreadySeated
	}

	room := e.newRoomLocked(owner, cfg)
	e.pushRoomList()
	return room.ID, nil
}

func (e *Engine) newRoomLocked(owner string, cfg domain.RoomConfig) *domain.Room {
	id := e.newID()
	for _, taken := e.rooms[id]; taken; _, taken = e.rooms[id] {
		id = e.newID()
	}

	room := domain.NewRoom(id, owner, cfg, e.now())
	e.rooms[id] = room
	e.seats[owner] = id

	e.log.Info("room created",
		zap.String("room", id),
		zap.String("owner", owner),
		zap.Int("size", cfg.BoardSize),
		zap.Bool("blockTwoEnds", cfg.BlockTwoEnds),
		zap.Bool("timed", cfg.Timed),
	)
	return room
}

// JoinRoom seats user in the room. A full or running room yields false
// without an error. The second player to sit down starts the match.
func (e *Engine) JoinRoom(ctx context.Context, user, roomID, password string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.roomLocked(roomID)
	if err != nil {
		return false, err
	}
	if room.HasPlayer(user) {
		return true, nil
	}
	if _, seated := e.seats[user]; seated {
		return false, domain.ErrAlreadySeated
	}
	if room.Status != domain.StatusWaiting || room.IsFull() {
		return false, nil
	}
	if !room.CheckPassword(password) {
		return false, domain.ErrWrongPassword
	}

	e.seatLocked(room, user)
	e.pushRoomList()
	return true, nil
}

func (e *Engine) seatLocked(room *domain.Room, user string) {
	if err := room.AddPlayer(user); err != nil {
		// callers check status and capacity first
		e.log.Error("seat failed", zap.String("room", room.ID), zap.String("user", user), zap.Error(err))
		return
	}
	e.seats[user] = room.ID

	if room.IsFull() {
		x, o := room.Players[0], room.Players[1]
		if e.coin() {
			x, o = o, x
		}
		e.startMatchLocked(room, x, o)
	}
}

func (e *Engine) LeaveRoom(ctx context.Context, user, roomID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return err
	}

	e.leaveLocked(ctx, room, user)
	e.pushRoomList()
	return nil
}

// leaveLocked unseats user. A running match is aborted in the remaining
// player's favour; an empty room is destroyed.
func (e *Engine) leaveLocked(ctx context.Context, room *domain.Room, user string) {
	remaining := room.Opponent(user)

	if room.Status == domain.StatusPlaying {
		rec := e.matchRecord(room, remaining, domain.ReasonAbort, room.MoveNo)
		if err := e.recordResultLocked(ctx, rec); err != nil {
			e.log.Error("abort result not persisted", zap.String("room", room.ID), zap.Error(err))
		}
		room.Finish()
		e.send(remaining, domain.ServerMessage{
			Type:   domain.MsgMatchEnded,
			RoomID: room.ID,
			Result: &domain.MatchResult{Winner: remaining, Loser: user, Reason: domain.ReasonAbort},
		})
		e.pushLeaderboard(ctx)
	} else if remaining != "" && e.awaitingRematchLocked(room, remaining) {
		e.send(remaining, domain.ServerMessage{
			Type:    domain.MsgRematchDeclined,
			RoomID:  room.ID,
			From:    user,
			Message: fmt.Sprintf("%s declined the rematch", user),
		})
	}

	room.RemovePlayer(user)
	delete(e.seats, user)

	if len(room.Players) == 0 {
		room.Status = domain.StatusClosed
		delete(e.rooms, room.ID)
		e.log.Info("room closed", zap.String("room", room.ID))
		return
	}

	room.Finish()
	e.send(remaining, domain.ServerMessage{
		Type:    domain.MsgOpponentLeft,
		RoomID:  room.ID,
		From:    user,
		Message: fmt.Sprintf("%s left the room", user),
	})
	e.pushSnapshot(room)
}

func (e *Engine) awaitingRematchLocked(room *domain.Room, user string) bool {
	if room.Choices[user] == domain.ChoiceRematch {
		return true
	}
	p, ok := room.Rematch.Pending()
	return ok && p.From == user
}

// QuickPlay seats user in the oldest open room someone else is waiting in,
// or opens a default room for them.
func (e *Engine) QuickPlay(ctx context.Context, user string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, seated := e.seats[user]; seated {
		return "", domain.ErrAlreadySeated
	}

	var target *domain.Room
	for _, r := range e.rooms {
		if r.Status != domain.StatusWaiting || len(r.Players) != 1 || r.Owner == user || r.Config.Locked {
			continue
		}
		if target == nil || r.CreatedAt.Before(target.CreatedAt) ||
			(r.CreatedAt.Equal(target.CreatedAt) && r.ID < target.ID) {
			target = r
		}
	}

	if target != nil {
		e.seatLocked(target, user)
		e.pushRoomList()
		return target.ID, nil
	}

	cfg := e.quickPlay
	cfg.Name = fmt.Sprintf("%s's room", user)
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	room := e.newRoomLocked(user, cfg)
	e.pushRoomList()
	return room.ID, nil
}
