package game

import (
	"context"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"go.uber.org/zap"
)

func (e *Engine) startMatchLocked(room *domain.Room, playerX, playerO string) {
	room.StartMatch(playerX, playerO, e.now())

	e.log.Info("match started",
		zap.String("room", room.ID),
		zap.String("x", playerX),
		zap.String("o", playerO),
	)

	cfg := room.Config
	for _, p := range room.Players {
		e.send(p, domain.ServerMessage{
			Type:     domain.MsgMatchStarted,
			RoomID:   room.ID,
			Opponent: room.Opponent(p),
			YourMark: room.MarkOf(p),
			YourTurn: domain.Bool(room.Turn == p),
			Config:   &cfg,
		})
	}
	e.pushSnapshot(room)
}

// MakeMove places the mover's mark. A move that ends the match is persisted
// before anything else changes, so a storage failure leaves the room as it was.
func (e *Engine) MakeMove(ctx context.Context, user, roomID string, row, col int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.roomLocked(roomID)
	if err != nil {
		return err
	}
	if err := room.ValidateMove(user, row, col); err != nil {
		return err
	}

	win, draw := room.Evaluate(row, col)

	var rec domain.MatchRecord
	if win || draw {
		winner, reason := user, domain.ReasonWin
		if draw {
			winner, reason = "", domain.ReasonDraw
		}
		rec = e.matchRecord(room, winner, reason, room.MoveNo+1)
		if err := e.recordResultLocked(ctx, rec); err != nil {
			return err
		}
	}

	mv := room.ApplyMove(row, col, e.now())
	e.toRoom(room, domain.ServerMessage{
		Type:   domain.MsgMoveMade,
		RoomID: room.ID,
		Move:   &domain.MoveUpdate{MoveRecord: mv, NextTurn: room.Turn},
	})
	e.pushSnapshot(room)

	if win || draw {
		e.concludeLocked(ctx, room, rec)
	}
	return nil
}

func (e *Engine) Resign(ctx context.Context, user, roomID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return err
	}
	if room.Status != domain.StatusPlaying {
		return domain.ErrNotPlaying
	}

	rec := e.matchRecord(room, room.Opponent(user), domain.ReasonResign, room.MoveNo)
	if err := e.recordResultLocked(ctx, rec); err != nil {
		return err
	}
	e.concludeLocked(ctx, room, rec)
	return nil
}

// SweepTimeouts ends every timed match whose turn deadline has passed, with
// the player on turn losing. It returns how many matches it ended.
func (e *Engine) SweepTimeouts(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	ended := 0
	for _, room := range e.rooms {
		if !room.DeadlinePassed(now) {
			continue
		}
		// cleared before anything else so a repeated sweep cannot fire again
		room.TurnDeadline = time.Time{}

		loser := room.Turn
		rec := e.matchRecord(room, room.Opponent(loser), domain.ReasonTimeout, room.MoveNo)
		if err := e.recordResultLocked(ctx, rec); err != nil {
			e.log.Error("timeout result not persisted", zap.String("room", room.ID), zap.Error(err))
		}
		e.concludeLocked(ctx, room, rec)
		ended++
	}
	return ended
}

func (e *Engine) matchRecord(room *domain.Room, winner string, reason domain.EndReason, moves int) domain.MatchRecord {
	return domain.MatchRecord{
		RoomID:    room.ID,
		PlayerX:   room.PlayerX,
		PlayerO:   room.PlayerO,
		Winner:    winner,
		Reason:    reason,
		Moves:     moves,
		StartedAt: room.StartedAt,
		EndedAt:   e.now(),
	}
}

// concludeLocked returns the room to WAITING after the result is stored and
// tells both players.
func (e *Engine) concludeLocked(ctx context.Context, room *domain.Room, rec domain.MatchRecord) {
	room.Finish()

	e.log.Info("match ended",
		zap.String("room", room.ID),
		zap.String("winner", rec.Winner),
		zap.String("reason", string(rec.Reason)),
		zap.Int("moves", rec.Moves),
	)

	e.toRoom(room, domain.ServerMessage{
		Type:   domain.MsgMatchEnded,
		RoomID: room.ID,
		Result: &domain.MatchResult{Winner: rec.Winner, Loser: rec.Loser(), Reason: rec.Reason},
	})
	e.pushSnapshot(room)
	e.pushLeaderboard(ctx)
}
