package domain

import "time"

type UserStats struct {
	Username  string    `json:"username"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Draws     int       `json:"draws"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is the stored credential view of a user.
type Account struct {
	UserStats
	PasswordHash string
	Banned       bool
}

func NewUserStats(username string, now time.Time) UserStats {
	return UserStats{Username: username, Rating: InitialRating, CreatedAt: now}
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

type Profile struct {
	UserStats
	Online bool   `json:"online"`
	RoomID string `json:"roomId,omitempty"`
}

type MatchRecord struct {
	RoomID    string    `json:"roomId"`
	PlayerX   string    `json:"playerX"`
	PlayerO   string    `json:"playerO"`
	Winner    string    `json:"winner,omitempty"`
	Reason    EndReason `json:"reason"`
	Moves     int       `json:"moves"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

// Loser returns the losing player or "" for a draw.
func (m MatchRecord) Loser() string {
	switch m.Winner {
	case "":
		return ""
	case m.PlayerX:
		return m.PlayerO
	default:
		return m.PlayerX
	}
}

type Friend struct {
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

type FriendList struct {
	Friends  []Friend `json:"friends"`
	Incoming []string `json:"incoming"`
}
