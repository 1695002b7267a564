package domain

// Mark is the occupant of a board cell.
type Mark int8

const (
	Empty Mark = 0
	X     Mark = 1
	O     Mark = 2
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

const (
	MinBoardSize = 10
	MaxBoardSize = 30
	WinLength    = 5

	MinTurnSeconds = 5
	MaxTurnSeconds = 600

	MaxRoomNameLength = 32
	MaxPasswordLength = 32
	MaxChatLength     = 300
)

type RoomStatus string

const (
	StatusWaiting RoomStatus = "WAITING"
	StatusPlaying RoomStatus = "PLAYING"
	StatusClosed  RoomStatus = "CLOSED"
)

// EndReason explains why a match ended.
type EndReason string

const (
	ReasonWin     EndReason = "WIN"
	ReasonDraw    EndReason = "DRAW"
	ReasonResign  EndReason = "RESIGN"
	ReasonTimeout EndReason = "TIMEOUT"
	ReasonAbort   EndReason = "ABORT"
)

type PostGameChoice string

const (
	ChoiceRematch PostGameChoice = "REMATCH"
	ChoiceReturn  PostGameChoice = "RETURN"
)

func (c PostGameChoice) Valid() bool {
	return c == ChoiceRematch || c == ChoiceReturn
}
