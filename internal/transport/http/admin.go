package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"go.uber.org/zap"
)

type Moderator interface {
	Ban(ctx context.Context, user, reason string) error
	Announce(ctx context.Context, text string) error
}

type AdminHandler struct {
	mod Moderator
	log *zap.Logger
}

func NewAdminHandler(mod Moderator, log *zap.Logger) *AdminHandler {
	return &AdminHandler{mod: mod, log: log}
}

func (h *AdminHandler) Ban(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "banned by an administrator"
	}

	if err := h.mod.Ban(c.Request.Context(), c.Param("username"), req.Reason); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "banned"})
}

func (h *AdminHandler) Announce(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, domain.ErrInvalidMessage)
		return
	}

	if err := h.mod.Announce(c.Request.Context(), req.Text); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sent"})
}
