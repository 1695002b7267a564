package domain

// Push message types.
const (
	MsgRoomList        = "room_list_updated"
	MsgOnlineUsers     = "online_users_updated"
	MsgLeaderboard     = "leaderboard_updated"
	MsgFriendList      = "friend_list_updated"
	MsgFriendRequest   = "friend_request"
	MsgGlobalChat      = "global_chat"
	MsgRoomChat        = "room_chat"
	MsgMatchStarted    = "match_started"
	MsgMoveMade        = "move_made"
	MsgSnapshot        = "board_snapshot"
	MsgMatchEnded      = "match_ended"
	MsgUndoRequested   = "undo_requested"
	MsgUndoResult      = "undo_result"
	MsgDrawRequested   = "draw_offer_requested"
	MsgDrawResult      = "draw_offer_result"
	MsgRematchRequest  = "rematch_requested"
	MsgRematchDeclined = "rematch_declined"
	MsgReturnToLobby   = "return_to_lobby"
	MsgOpponentLeft    = "opponent_left"
	MsgAnnouncement    = "announcement"
	MsgWarning         = "warning"
	MsgAccountBanned   = "account_banned"
)

type MoveUpdate struct {
	MoveRecord
	NextTurn string `json:"nextTurn,omitempty"`
}

type MatchResult struct {
	Winner string    `json:"winner,omitempty"`
	Loser  string    `json:"loser,omitempty"`
	Reason EndReason `json:"reason"`
}

// ServerMessage is every server to client push. Only the fields relevant to
// Type are set.
type ServerMessage struct {
	Type     string       `json:"type"`
	RoomID   string       `json:"roomId,omitempty"`
	Message  string       `json:"message,omitempty"`
	From     string       `json:"from,omitempty"`
	Opponent string       `json:"opponent,omitempty"`
	YourMark Mark         `json:"yourMark,omitempty"`
	YourTurn *bool        `json:"yourTurn,omitempty"`
	Accepted *bool        `json:"accepted,omitempty"`
	Config   *RoomConfig  `json:"config,omitempty"`
	Move     *MoveUpdate  `json:"move,omitempty"`
	Snapshot *Snapshot    `json:"snapshot,omitempty"`
	Result   *MatchResult `json:"result,omitempty"`
	Undo     *UndoPlan    `json:"undo,omitempty"`
	Removed  []MoveRecord `json:"removed,omitempty"`

	Rooms       []RoomSummary      `json:"rooms"`
	Users       []string           `json:"users"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Friends     *FriendList        `json:"friends,omitempty"`
}

func Bool(b bool) *bool {
	return &b
}
