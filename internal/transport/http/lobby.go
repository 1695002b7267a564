package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"go.uber.org/zap"
)

type Lobby interface {
	ListOpenRooms() []domain.RoomSummary
	ListOnlineUsers() []string
	Leaderboard(ctx context.Context, n int) ([]domain.LeaderboardEntry, error)
	Profile(ctx context.Context, user string) (*domain.Profile, error)
}

type LobbyHandler struct {
	lobby Lobby
	log   *zap.Logger
}

func NewLobbyHandler(lobby Lobby, log *zap.Logger) *LobbyHandler {
	return &LobbyHandler{lobby: lobby, log: log}
}

func (h *LobbyHandler) Leaderboard(c *gin.Context) {
	n, _ := strconv.Atoi(c.Query("limit"))
	top, err := h.lobby.Leaderboard(c.Request.Context(), n)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

func (h *LobbyHandler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.lobby.ListOpenRooms())
}

func (h *LobbyHandler) Online(c *gin.Context) {
	c.JSON(http.StatusOK, h.lobby.ListOnlineUsers())
}

func (h *LobbyHandler) Profile(c *gin.Context) {
	profile, err := h.lobby.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
