package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMessage_EmptyListsAreSent(t *testing.T) {
	cases := []struct {
		name string
		msg  ServerMessage
		want string
	}{
		{"rooms", ServerMessage{Type: MsgRoomList, Rooms: []RoomSummary{}}, `"rooms":[]`},
		{"users", ServerMessage{Type: MsgOnlineUsers, Users: []string{}}, `"users":[]`},
		{"leaderboard", ServerMessage{Type: MsgLeaderboard, Leaderboard: []LeaderboardEntry{}}, `"leaderboard":[]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.msg)
			require.NoError(t, err)
			assert.Contains(t, string(raw), tc.want)
		})
	}
}
