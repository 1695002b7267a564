package websocket

import "github.com/iamasit07/5-in-a-row/backend/internal/domain"

// Client request types.
const (
	opInit           = "init"
	opCreateRoom     = "create_room"
	opJoinRoom       = "join_room"
	opLeaveRoom      = "leave_room"
	opQuickPlay      = "quick_play"
	opListRooms      = "list_rooms"
	opListOnline     = "list_online_users"
	opSnapshot       = "get_snapshot"
	opMakeMove       = "make_move"
	opResign         = "resign"
	opRequestUndo    = "request_undo"
	opRespondUndo    = "respond_undo"
	opOfferDraw      = "offer_draw"
	opRespondDraw    = "respond_draw"
	opPostGameChoice = "post_game_choice"
	opGlobalChat     = "global_chat"
	opRoomChat       = "room_chat"
	opFriendRequest  = "send_friend_request"
	opRespondFriend  = "respond_friend_request"
	opListFriends    = "list_friends"
	opProfile        = "get_profile"
	opLeaderboard    = "get_leaderboard"
	opLogout         = "logout"
	replyType        = "reply"
)

type RoomRequest struct {
	Name         string `json:"name"`
	BoardSize    int    `json:"boardSize"`
	BlockTwoEnds bool   `json:"blockTwoEnds"`
	Locked       bool   `json:"locked"`
	Password     string `json:"password"`
	Timed        bool   `json:"timed"`
	TurnSeconds  int    `json:"turnSeconds"`
}

func (r RoomRequest) config() domain.RoomConfig {
	return domain.RoomConfig{
		Name:         r.Name,
		BoardSize:    r.BoardSize,
		BlockTwoEnds: r.BlockTwoEnds,
		Locked:       r.Locked,
		Password:     r.Password,
		Timed:        r.Timed,
		TurnSeconds:  r.TurnSeconds,
	}
}

type ClientMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Token     string `json:"token,omitempty"`

	RoomID   string       `json:"roomId,omitempty"`
	Password string       `json:"password,omitempty"`
	Room     *RoomRequest `json:"room,omitempty"`
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	Accept   bool         `json:"accept"`
	Choice   string       `json:"choice,omitempty"`
	Text     string       `json:"text,omitempty"`
	Username string       `json:"username,omitempty"`
	Limit    int          `json:"limit,omitempty"`
}

type ReplyError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Reply answers one ClientMessage, matched by RequestID.
type Reply struct {
	Type      string      `json:"type"`
	RequestID string      `json:"requestId,omitempty"`
	Op        string      `json:"op"`
	OK        bool        `json:"ok"`
	Data      any         `json:"data,omitempty"`
	Error     *ReplyError `json:"error,omitempty"`
}
