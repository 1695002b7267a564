package domain

import (
	"crypto/subtle"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// RoomConfig is fixed once the room exists.
type RoomConfig struct {
	Name         string `json:"name"`
	BoardSize    int    `json:"boardSize"`
	BlockTwoEnds bool   `json:"blockTwoEnds"`
	Locked       bool   `json:"locked"`
	Password     string `json:"-"`
	Timed        bool   `json:"timed"`
	TurnSeconds  int    `json:"turnSeconds,omitempty"`
}

// Validate checks and normalizes the configuration in place.
func (c *RoomConfig) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" || utf8.RuneCountInString(c.Name) > MaxRoomNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidConfig, MaxRoomNameLength)
	}
	if c.BoardSize < MinBoardSize || c.BoardSize > MaxBoardSize {
		return fmt.Errorf("%w: board size must be between %d and %d", ErrInvalidConfig, MinBoardSize, MaxBoardSize)
	}
	if c.Timed {
		if c.TurnSeconds < MinTurnSeconds || c.TurnSeconds > MaxTurnSeconds {
			return fmt.Errorf("%w: turn time must be between %d and %d seconds", ErrInvalidConfig, MinTurnSeconds, MaxTurnSeconds)
		}
	} else {
		c.TurnSeconds = 0
	}
	if c.Locked {
		if c.Password == "" {
			return fmt.Errorf("%w: password required", ErrInvalidConfig)
		}
		if len(c.Password) > MaxPasswordLength {
			return fmt.Errorf("%w: password too long", ErrInvalidConfig)
		}
	} else {
		c.Password = ""
	}
	return nil
}

type MoveRecord struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Mark   Mark   `json:"mark"`
	Author string `json:"author"`
	MoveNo int    `json:"moveNo"`
}

// UndoPlan is how many of the most recent moves an undo removes.
type UndoPlan struct {
	Count int `json:"count"`
}

// Room is one game table. It is not safe for concurrent use; the owner of
// the registry serializes access.
type Room struct {
	ID        string
	Owner     string
	CreatedAt time.Time
	Config    RoomConfig

	Players      []string
	Status       RoomStatus
	Board        Board
	PlayerX      string
	PlayerO      string
	Turn         string
	MoveNo       int
	TurnDeadline time.Time
	StartedAt    time.Time

	// oldest first
	moves []MoveRecord

	Undo    Slot[UndoPlan]
	Draw    Slot[struct{}]
	Rematch Slot[struct{}]
	Choices map[string]PostGameChoice
}

func NewRoom(id, owner string, cfg RoomConfig, now time.Time) *Room {
	return &Room{
		ID:        id,
		Owner:     owner,
		CreatedAt: now,
		Config:    cfg,
		Players:   []string{owner},
		Status:    StatusWaiting,
		Board:     NewBoard(cfg.BoardSize),
		Choices:   make(map[string]PostGameChoice),
	}
}

func (r *Room) HasPlayer(user string) bool {
	return slices.Contains(r.Players, user)
}

// Opponent returns the other seated player, or "".
func (r *Room) Opponent(user string) string {
	for _, p := range r.Players {
		if p != user {
			return p
		}
	}
	return ""
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= 2
}

func (r *Room) CheckPassword(password string) bool {
	if !r.Config.Locked {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(r.Config.Password)) == 1
}

func (r *Room) AddPlayer(user string) error {
	if r.Status != StatusWaiting {
		return ErrNotWaiting
	}
	if r.IsFull() {
		return ErrRoomFull
	}
	r.Players = append(r.Players, user)
	return nil
}

// RemovePlayer unseats user and hands ownership to whoever remains.
func (r *Room) RemovePlayer(user string) {
	r.Players = slices.DeleteFunc(r.Players, func(p string) bool { return p == user })
	if r.Owner == user && len(r.Players) > 0 {
		r.Owner = r.Players[0]
	}
	r.PlayerX, r.PlayerO = "", ""
	delete(r.Choices, user)
}

func (r *Room) MarkOf(user string) Mark {
	switch user {
	case "":
		return Empty
	case r.PlayerX:
		return X
	case r.PlayerO:
		return O
	default:
		return Empty
	}
}

func (r *Room) StartMatch(playerX, playerO string, now time.Time) {
	r.Status = StatusPlaying
	r.PlayerX, r.PlayerO = playerX, playerO
	r.Board.Clear()
	r.moves = nil
	r.MoveNo = 0
	r.Turn = playerX
	r.StartedAt = now
	r.ResetDeadline(now)
	r.ClearNegotiations()
}

func (r *Room) ResetDeadline(now time.Time) {
	if r.Config.Timed && r.Status == StatusPlaying {
		r.TurnDeadline = now.Add(time.Duration(r.Config.TurnSeconds) * time.Second)
		return
	}
	r.TurnDeadline = time.Time{}
}

func (r *Room) ClearNegotiations() {
	r.Undo.Clear()
	r.Draw.Clear()
	r.Rematch.Clear()
	clear(r.Choices)
}

// DeadlinePassed reports whether a live turn deadline is before now.
func (r *Room) DeadlinePassed(now time.Time) bool {
	return r.Status == StatusPlaying && r.Config.Timed && !r.TurnDeadline.IsZero() && now.After(r.TurnDeadline)
}

func (r *Room) ValidateMove(user string, row, col int) error {
	if r.Status != StatusPlaying {
		return ErrNotPlaying
	}
	if !r.HasPlayer(user) {
		return ErrNotMember
	}
	if r.Turn != user {
		return ErrNotYourTurn
	}
	if !r.Board.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if r.Board[row][col] != Empty {
		return ErrCellOccupied
	}
	return nil
}

// Evaluate reports what the current mover playing (row, col) would produce.
// The move must already be validated.
func (r *Room) Evaluate(row, col int) (win, draw bool) {
	return Outcome(r.Board, row, col, r.MarkOf(r.Turn), r.MoveNo, r.Config.BlockTwoEnds)
}

// ApplyMove commits a validated move for the player holding the turn.
func (r *Room) ApplyMove(row, col int, now time.Time) MoveRecord {
	mover := r.Turn
	mark := r.MarkOf(mover)
	r.Board[row][col] = mark
	r.MoveNo++
	rec := MoveRecord{Row: row, Col: col, Mark: mark, Author: mover, MoveNo: r.MoveNo}
	r.moves = append(r.moves, rec)

	r.Undo.Clear()
	r.Draw.Clear()
	clear(r.Choices)

	r.Turn = r.Opponent(mover)
	r.ResetDeadline(now)
	return rec
}

// Finish returns the room to WAITING with an empty board. The previous marks
// are kept so a rematch can swap them.
func (r *Room) Finish() {
	r.Status = StatusWaiting
	r.Turn = ""
	r.TurnDeadline = time.Time{}
	r.ClearNegotiations()
	r.Board.Clear()
	r.moves = nil
	r.MoveNo = 0
}

// Moves returns the move log, most recent first.
func (r *Room) Moves() []MoveRecord {
	out := make([]MoveRecord, len(r.moves))
	for i, m := range r.moves {
		out[len(r.moves)-1-i] = m
	}
	return out
}

func (r *Room) LastMove() (MoveRecord, bool) {
	if len(r.moves) == 0 {
		return MoveRecord{}, false
	}
	return r.moves[len(r.moves)-1], true
}

// PlanUndo works out how many moves an undo by requester would remove: their
// own last move, or their last move plus the single reply after it.
func (r *Room) PlanUndo(requester string) (UndoPlan, error) {
	n := len(r.moves)
	if n == 0 {
		return UndoPlan{}, fmt.Errorf("%w: no moves to undo", ErrUndoNotAllowed)
	}
	if r.moves[n-1].Author == requester {
		return UndoPlan{Count: 1}, nil
	}
	if n >= 2 && r.moves[n-2].Author == requester {
		return UndoPlan{Count: 2}, nil
	}
	return UndoPlan{}, fmt.Errorf("%w: you have no move to take back", ErrUndoNotAllowed)
}

// ApplyUndo pops plan.Count moves and gives the turn back to requester. The
// removed moves are returned most recent first.
func (r *Room) ApplyUndo(requester string, plan UndoPlan, now time.Time) []MoveRecord {
	count := min(plan.Count, len(r.moves))
	removed := make([]MoveRecord, 0, count)
	for range count {
		last := r.moves[len(r.moves)-1]
		r.moves = r.moves[:len(r.moves)-1]
		r.Board[last.Row][last.Col] = Empty
		removed = append(removed, last)
	}
	r.MoveNo = 0
	if top, ok := r.LastMove(); ok {
		r.MoveNo = top.MoveNo
	}
	r.Turn = requester
	r.ResetDeadline(now)
	r.Draw.Clear()
	return removed
}

type RoomSummary struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Owner        string     `json:"owner"`
	BoardSize    int        `json:"boardSize"`
	BlockTwoEnds bool       `json:"blockTwoEnds"`
	Locked       bool       `json:"locked"`
	Timed        bool       `json:"timed"`
	TurnSeconds  int        `json:"turnSeconds,omitempty"`
	Players      []string   `json:"players"`
	Status       RoomStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:           r.ID,
		Name:         r.Config.Name,
		Owner:        r.Owner,
		BoardSize:    r.Config.BoardSize,
		BlockTwoEnds: r.Config.BlockTwoEnds,
		Locked:       r.Config.Locked,
		Timed:        r.Config.Timed,
		TurnSeconds:  r.Config.TurnSeconds,
		Players:      slices.Clone(r.Players),
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}

// Snapshot is the authoritative board state sent to clients.
type Snapshot struct {
	RoomID   string      `json:"roomId"`
	Status   RoomStatus  `json:"status"`
	Board    Board       `json:"board"`
	PlayerX  string      `json:"playerX,omitempty"`
	PlayerO  string      `json:"playerO,omitempty"`
	Turn     string      `json:"turn,omitempty"`
	MoveNo   int         `json:"moveNo"`
	Deadline *time.Time  `json:"deadline,omitempty"`
	LastMove *MoveRecord `json:"lastMove,omitempty"`
}

func (r *Room) Snapshot() Snapshot {
	s := Snapshot{
		RoomID:  r.ID,
		Status:  r.Status,
		Board:   r.Board.Clone(),
		PlayerX: r.PlayerX,
		PlayerO: r.PlayerO,
		Turn:    r.Turn,
		MoveNo:  r.MoveNo,
	}
	if !r.TurnDeadline.IsZero() {
		d := r.TurnDeadline
		s.Deadline = &d
	}
	if last, ok := r.LastMove(); ok {
		s.LastMove = &last
	}
	return s
}
