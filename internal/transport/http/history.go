package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/internal/transport/http/middleware"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryStore interface {
	MatchHistory(ctx context.Context, username string, limit int) ([]domain.MatchRecord, error)
}

type HistoryHandler struct {
	store HistoryStore
	log   *zap.Logger
}

func NewHistoryHandler(store HistoryStore, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, log: log}
}

// HistoryItem is one match seen from the requested player's side.
type HistoryItem struct {
	RoomID    string           `json:"roomId"`
	Opponent  string           `json:"opponent"`
	Result    string           `json:"result"` // "win", "loss", "draw"
	EndReason domain.EndReason `json:"endReason"`
	Moves     int              `json:"moves"`
	StartedAt time.Time        `json:"startedAt"`
	EndedAt   time.Time        `json:"endedAt"`
}

func historyItem(user string, rec domain.MatchRecord) HistoryItem {
	item := HistoryItem{
		RoomID:    rec.RoomID,
		Opponent:  rec.PlayerX,
		EndReason: rec.Reason,
		Moves:     rec.Moves,
		StartedAt: rec.StartedAt,
		EndedAt:   rec.EndedAt,
	}
	if rec.PlayerX == user {
		item.Opponent = rec.PlayerO
	}

	switch rec.Winner {
	case "":
		item.Result = "draw"
	case user:
		item.Result = "win"
	default:
		item.Result = "loss"
	}
	return item
}

// GetHistory lists the matches of :username, or of the caller when the
// route has no username.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	user := c.Param("username")
	if user == "" {
		user = middleware.Username(c)
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, h.log, domain.ErrInvalidRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.store.MatchHistory(c.Request.Context(), user, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	history := make([]HistoryItem, 0, len(records))
	for _, rec := range records {
		history = append(history, historyItem(user, rec))
	}
	c.JSON(http.StatusOK, history)
}
