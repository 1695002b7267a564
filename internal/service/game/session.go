package game

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/notify"
	"go.uber.org/zap"
)

// Connect registers sink as user's push channel, replacing any earlier one,
// and sends the initial lobby state.
func (e *Engine) Connect(ctx context.Context, user string, sink notify.Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if old, ok := e.sessions[user]; ok && old.sink != sink {
		e.send(user, domain.ServerMessage{Type: domain.MsgWarning, Message: "logged in from another location"})
		e.log.Info("session replaced", zap.String("user", user))
	}
	e.sessions[user] = &session{sink: sink}
	e.notifier.Attach(user, sink)

	e.pushOnlineUsers()
	e.send(user, domain.ServerMessage{Type: domain.MsgRoomList, Rooms: e.openRoomsLocked()})
	e.pushLeaderboard(ctx, user)
	e.pushFriendListLocked(ctx, user)

	if roomID, ok := e.seats[user]; ok {
		if room, ok := e.rooms[roomID]; ok {
			snap := room.Snapshot()
			e.send(user, domain.ServerMessage{Type: domain.MsgSnapshot, RoomID: roomID, Snapshot: &snap})
		}
	}
}

// Disconnect is called when sink's connection goes away. It is a no-op if
// the user has since connected again with another sink.
func (e *Engine) Disconnect(ctx context.Context, user string, sink notify.Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[user]
	if !ok || s.sink != sink {
		return
	}
	e.endSessionLocked(ctx, user)
}

func (e *Engine) Logout(ctx context.Context, user string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sessions[user]; !ok {
		return
	}
	e.endSessionLocked(ctx, user)
}

func (e *Engine) endSessionLocked(ctx context.Context, user string) {
	if roomID, seated := e.seats[user]; seated {
		if room, ok := e.rooms[roomID]; ok {
			e.leaveLocked(ctx, room, user)
		}
		delete(e.seats, user)
		e.pushRoomList()
	}

	s := e.sessions[user]
	delete(e.sessions, user)
	e.notifier.Detach(user, s.sink)
	e.pushOnlineUsers()

	e.log.Info("session ended", zap.String("user", user))
}

// Ban persists the ban, then removes the user from play if online.
func (e *Engine) Ban(ctx context.Context, user, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.SetBanned(ctx, user, true); err != nil {
		return storageErr(err)
	}
	e.log.Warn("user banned", zap.String("user", user), zap.String("reason", reason))

	if _, online := e.sessions[user]; online {
		e.send(user, domain.ServerMessage{Type: domain.MsgAccountBanned, Message: reason})
		e.endSessionLocked(ctx, user)
	}
	return nil
}

func (e *Engine) Announce(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrInvalidMessage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.broadcast(domain.ServerMessage{Type: domain.MsgAnnouncement, Message: text})
	return nil
}

func (e *Engine) IsOnline(user string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.sessions[user]
	return ok
}

func (e *Engine) Profile(ctx context.Context, user string) (*domain.Profile, error) {
	stats, err := e.store.FindUser(ctx, user)
	if err != nil {
		return nil, storageErr(err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, online := e.sessions[user]
	return &domain.Profile{UserStats: *stats, Online: online, RoomID: e.seats[user]}, nil
}

func cleanChat(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > domain.MaxChatLength {
		return "", domain.ErrInvalidMessage
	}
	return text, nil
}

func (e *Engine) SendGlobalChat(ctx context.Context, user, text string) error {
	text, err := cleanChat(text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.broadcast(domain.ServerMessage{Type: domain.MsgGlobalChat, From: user, Message: text})
	return nil
}

func (e *Engine) SendRoomChat(ctx context.Context, user, roomID, text string) error {
	text, err := cleanChat(text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return err
	}
	e.toRoom(room, domain.ServerMessage{Type: domain.MsgRoomChat, RoomID: roomID, From: user, Message: text})
	return nil
}
