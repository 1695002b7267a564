package domain

import "errors"

// Kind groups errors by how the caller should react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrInvalidConfig   = newError(KindValidation, "invalid room configuration")
	ErrInvalidRequest  = newError(KindValidation, "invalid request")
	ErrOutOfBounds     = newError(KindValidation, "move is out of bounds")
	ErrInvalidUsername = newError(KindValidation, "username must be 3-20 letters, digits or underscores")
	ErrInvalidPassword = newError(KindValidation, "password must be at least 6 characters")
	ErrInvalidMessage  = newError(KindValidation, "message must be 1-300 characters")

	ErrRoomNotFound        = newError(KindConflict, "room not found")
	ErrRoomFull            = newError(KindConflict, "room is full")
	ErrWrongPassword       = newError(KindConflict, "wrong room password")
	ErrNotPlaying          = newError(KindConflict, "no match in progress")
	ErrNotWaiting          = newError(KindConflict, "match in progress")
	ErrNotYourTurn         = newError(KindConflict, "not your turn")
	ErrCellOccupied        = newError(KindConflict, "cell is occupied")
	ErrNotMember           = newError(KindConflict, "not a member of this room")
	ErrAlreadySeated       = newError(KindConflict, "already in a room")
	ErrNoOpponent          = newError(KindConflict, "no opponent present")
	ErrNegotiationPending  = newError(KindConflict, "a request is already pending")
	ErrNoPendingRequest    = newError(KindConflict, "no pending request")
	ErrUndoNotAllowed      = newError(KindConflict, "undo not allowed")
	ErrUserNotFound        = newError(KindConflict, "user not found")
	ErrUsernameTaken       = newError(KindConflict, "username already taken")
	ErrAlreadyFriends      = newError(KindConflict, "already friends")
	ErrFriendRequestExists = newError(KindConflict, "friend request already pending")

	ErrBadCredentials = newError(KindAuth, "invalid credentials")
	ErrBanned         = newError(KindAuth, "account banned")
	ErrUnauthorized   = newError(KindAuth, "unauthorized")

	ErrStorage = newError(KindStorage, "storage failure")
)

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
