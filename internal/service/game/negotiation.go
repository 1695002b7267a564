package game

import (
	"context"
	"fmt"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
)

// bilateral is a request/response exchange between the two seated players
// of a running match.
type bilateral[T any] struct {
	slot      func(*domain.Room) *domain.Slot[T]
	validate  func(room *domain.Room, from string) (T, error)
	requested func(room *domain.Room, p domain.Proposal[T])
	apply     func(ctx context.Context, room *domain.Room, p domain.Proposal[T]) error
	reject    func(room *domain.Room, p domain.Proposal[T])
}

func (b bilateral[T]) request(room *domain.Room, from string) (domain.Proposal[T], error) {
	var zero domain.Proposal[T]
	if room.Status != domain.StatusPlaying {
		return zero, domain.ErrNotPlaying
	}
	to := room.Opponent(from)
	if to == "" {
		return zero, domain.ErrNoOpponent
	}
	slot := b.slot(room)
	if _, pending := slot.Pending(); pending {
		return zero, domain.ErrNegotiationPending
	}

	terms, err := b.validate(room, from)
	if err != nil {
		return zero, err
	}

	p := domain.Proposal[T]{From: from, To: to, Terms: terms}
	if err := slot.Open(p); err != nil {
		return zero, err
	}
	b.requested(room, p)
	return p, nil
}

func (b bilateral[T]) respond(ctx context.Context, room *domain.Room, responder string, accept bool) (Outcome, error) {
	if room.Status != domain.StatusPlaying {
		return Outcome{}, domain.ErrNotPlaying
	}
	slot := b.slot(room)
	p, err := slot.Take(responder)
	if err != nil {
		return Outcome{}, err
	}

	if !accept {
		b.reject(room, p)
		return Outcome{Accepted: false, Message: fmt.Sprintf("declined request from %s", p.From)}, nil
	}

	if err := b.apply(ctx, room, p); err != nil {
		_ = slot.Open(p)
		return Outcome{}, err
	}
	return Outcome{Accepted: true}, nil
}

func (e *Engine) undoExchange() bilateral[domain.UndoPlan] {
	return bilateral[domain.UndoPlan]{
		slot: func(r *domain.Room) *domain.Slot[domain.UndoPlan] { return &r.Undo },
		validate: func(r *domain.Room, from string) (domain.UndoPlan, error) {
			return r.PlanUndo(from)
		},
		requested: func(r *domain.Room, p domain.Proposal[domain.UndoPlan]) {
			plan := p.Terms
			e.send(p.To, domain.ServerMessage{
				Type:    domain.MsgUndoRequested,
				RoomID:  r.ID,
				From:    p.From,
				Undo:    &plan,
				Message: fmt.Sprintf("%s asks to take back %d move(s)", p.From, plan.Count),
			})
		},
		apply: func(_ context.Context, r *domain.Room, p domain.Proposal[domain.UndoPlan]) error {
			removed := r.ApplyUndo(p.From, p.Terms, e.now())
			e.pushSnapshot(r)
			e.toRoom(r, domain.ServerMessage{
				Type:     domain.MsgUndoResult,
				RoomID:   r.ID,
				From:     p.To,
				Accepted: domain.Bool(true),
				Removed:  removed,
				Message:  fmt.Sprintf("%d move(s) taken back", len(removed)),
			})
			return nil
		},
		reject: func(r *domain.Room, p domain.Proposal[domain.UndoPlan]) {
			e.toRoom(r, domain.ServerMessage{
				Type:     domain.MsgUndoResult,
				RoomID:   r.ID,
				From:     p.To,
				Accepted: domain.Bool(false),
				Message:  fmt.Sprintf("%s declined the undo request", p.To),
			})
		},
	}
}

func (e *Engine) drawExchange() bilateral[struct{}] {
	return bilateral[struct{}]{
		slot: func(r *domain.Room) *domain.Slot[struct{}] { return &r.Draw },
		validate: func(*domain.Room, string) (struct{}, error) {
			return struct{}{}, nil
		},
		requested: func(r *domain.Room, p domain.Proposal[struct{}]) {
			e.send(p.To, domain.ServerMessage{
				Type:    domain.MsgDrawRequested,
				RoomID:  r.ID,
				From:    p.From,
				Message: fmt.Sprintf("%s offers a draw", p.From),
			})
		},
		apply: func(ctx context.Context, r *domain.Room, p domain.Proposal[struct{}]) error {
			rec := e.matchRecord(r, "", domain.ReasonDraw, r.MoveNo)
			if err := e.recordResultLocked(ctx, rec); err != nil {
				return err
			}
			e.toRoom(r, domain.ServerMessage{
				Type:     domain.MsgDrawResult,
				RoomID:   r.ID,
				From:     p.To,
				Accepted: domain.Bool(true),
			})
			e.concludeLocked(ctx, r, rec)
			return nil
		},
		reject: func(r *domain.Room, p domain.Proposal[struct{}]) {
			e.toRoom(r, domain.ServerMessage{
				Type:     domain.MsgDrawResult,
				RoomID:   r.ID,
				From:     p.To,
				Accepted: domain.Bool(false),
				Message:  fmt.Sprintf("%s declined the draw offer", p.To),
			})
		},
	}
}

// RequestUndo asks the opponent to approve taking back the requester's last
// move, plus the single reply after it if there is one.
func (e *Engine) RequestUndo(ctx context.Context, user, roomID string) (domain.UndoPlan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return domain.UndoPlan{}, err
	}
	p, err := e.undoExchange().request(room, user)
	if err != nil {
		return domain.UndoPlan{}, err
	}
	return p.Terms, nil
}

func (e *Engine) RespondUndo(ctx context.Context, user, roomID string, accept bool) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return Outcome{}, err
	}
	return e.undoExchange().respond(ctx, room, user, accept)
}

func (e *Engine) RequestDraw(ctx context.Context, user, roomID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return err
	}
	_, err = e.drawExchange().request(room, user)
	return err
}

func (e *Engine) RespondDraw(ctx context.Context, user, roomID string, accept bool) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return Outcome{}, err
	}
	return e.drawExchange().respond(ctx, room, user, accept)
}
