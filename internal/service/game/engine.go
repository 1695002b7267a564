package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/notify"
	"github.com/iamasit07/5-in-a-row/backend/pkg/uid"
	"go.uber.org/zap"
)

// Store is the persistence the engine depends on. Implementations return
// domain.ErrUserNotFound for unknown users.
type Store interface {
	FindUser(ctx context.Context, username string) (*domain.UserStats, error)
	SaveMatch(ctx context.Context, rec domain.MatchRecord, stats []domain.UserStats) error
	TopByRating(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)

	AreFriends(ctx context.Context, a, b string) (bool, error)
	HasFriendRequest(ctx context.Context, from, to string) (bool, error)
	AddFriendRequest(ctx context.Context, from, to string) error
	DeleteFriendRequest(ctx context.Context, from, to string) error
	AddFriends(ctx context.Context, a, b string) error
	ListFriends(ctx context.Context, username string) ([]string, error)
	ListFriendRequests(ctx context.Context, username string) ([]string, error)

	SetBanned(ctx context.Context, username string, banned bool) error
}

// Notifier queues messages for delivery. Send must not block.
type Notifier interface {
	Attach(user string, sink notify.Sink)
	Detach(user string, sink notify.Sink)
	Send(user string, msg domain.ServerMessage)
}

// Outcome is the result of a negotiation step. A declined request is an
// Outcome with Accepted false, not an error.
type Outcome struct {
	Accepted bool   `json:"accepted"`
	Pending  bool   `json:"pending,omitempty"`
	Message  string `json:"message,omitempty"`
}

type Options struct {
	QuickPlay       domain.RoomConfig
	LeaderboardSize int

	Now   func() time.Time
	Coin  func() bool
	NewID func() string
}

type session struct {
	sink notify.Sink
}

// Engine owns every room and session. One lock serializes all mutations;
// notifications are only queued while it is held.
type Engine struct {
	mu       sync.RWMutex
	rooms    map[string]*domain.Room
	seats    map[string]string // username -> room id
	sessions map[string]*session

	store    Store
	notifier Notifier
	log      *zap.Logger

	quickPlay       domain.RoomConfig
	leaderboardSize int
	now             func() time.Time
	coin            func() bool
	newID           func() string
}

func NewEngine(store Store, notifier Notifier, log *zap.Logger, opts Options) *Engine {
	e := &Engine{
		rooms:           make(map[string]*domain.Room),
		seats:           make(map[string]string),
		sessions:        make(map[string]*session),
		store:           store,
		notifier:        notifier,
		log:             log,
		quickPlay:       opts.QuickPlay,
		leaderboardSize: opts.LeaderboardSize,
		now:             opts.Now,
		coin:            opts.Coin,
		newID:           opts.NewID,
	}
	if e.quickPlay.BoardSize == 0 {
		e.quickPlay = domain.RoomConfig{BoardSize: 15}
	}
	if e.leaderboardSize <= 0 {
		e.leaderboardSize = 10
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.coin == nil {
		e.coin = func() bool { return rand.IntN(2) == 0 }
	}
	if e.newID == nil {
		e.newID = uid.NewRoomID
	}
	return e
}

// storageErr marks a store failure as ErrStorage. Errors the store already
// classified, such as ErrUserNotFound, pass through.
func storageErr(err error) error {
	if err == nil || domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

func (e *Engine) roomLocked(roomID string) (*domain.Room, error) {
	room, ok := e.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (e *Engine) memberRoomLocked(roomID, user string) (*domain.Room, error) {
	room, err := e.roomLocked(roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasPlayer(user) {
		return nil, domain.ErrNotMember
	}
	return room, nil
}

func (e *Engine) send(user string, msg domain.ServerMessage) {
	e.notifier.Send(user, msg)
}

func (e *Engine) broadcast(msg domain.ServerMessage) {
	for user := range e.sessions {
		e.notifier.Send(user, msg)
	}
}

func (e *Engine) toRoom(room *domain.Room, msg domain.ServerMessage) {
	for _, p := range room.Players {
		e.notifier.Send(p, msg)
	}
}

func (e *Engine) pushSnapshot(room *domain.Room) {
	snap := room.Snapshot()
	e.toRoom(room, domain.ServerMessage{Type: domain.MsgSnapshot, RoomID: room.ID, Snapshot: &snap})
}

func (e *Engine) openRoomsLocked() []domain.RoomSummary {
	open := make([]*domain.Room, 0, len(e.rooms))
	for _, r := range e.rooms {
		if r.Status == domain.StatusWaiting && !r.IsFull() {
			open = append(open, r)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		if !open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].CreatedAt.After(open[j].CreatedAt)
		}
		return open[i].ID < open[j].ID
	})

	out := make([]domain.RoomSummary, len(open))
	for i, r := range open {
		out[i] = r.Summary()
	}
	return out
}

func (e *Engine) onlineLocked() []string {
	users := make([]string, 0, len(e.sessions))
	for u := range e.sessions {
		users = append(users, u)
	}
	slices.Sort(users)
	return users
}

func (e *Engine) pushRoomList() {
	e.broadcast(domain.ServerMessage{Type: domain.MsgRoomList, Rooms: e.openRoomsLocked()})
}

func (e *Engine) pushOnlineUsers() {
	e.broadcast(domain.ServerMessage{Type: domain.MsgOnlineUsers, Users: e.onlineLocked()})
}

func (e *Engine) pushLeaderboard(ctx context.Context, users ...string) {
	top, err := e.store.TopByRating(ctx, e.leaderboardSize)
	if err != nil {
		e.log.Error("leaderboard read failed", zap.Error(err))
		return
	}
	msg := domain.ServerMessage{Type: domain.MsgLeaderboard, Leaderboard: top}
	if len(users) == 0 {
		e.broadcast(msg)
		return
	}
	for _, u := range users {
		e.send(u, msg)
	}
}

// ListOpenRooms returns joinable rooms, newest first.
func (e *Engine) ListOpenRooms() []domain.RoomSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.openRoomsLocked()
}

func (e *Engine) ListOnlineUsers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.onlineLocked()
}

// Snapshot returns the current board of a room the user sits in.
func (e *Engine) Snapshot(user, roomID string) (domain.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	room, err := e.memberRoomLocked(roomID, user)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return room.Snapshot(), nil
}

func (e *Engine) Leaderboard(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 || n > 100 {
		n = e.leaderboardSize
	}
	top, err := e.store.TopByRating(ctx, n)
	if err != nil {
		return nil, storageErr(err)
	}
	return top, nil
}
