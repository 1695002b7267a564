package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/account"
	"github.com/iamasit07/5-in-a-row/backend/internal/transport/http/middleware"
	"github.com/iamasit07/5-in-a-row/backend/pkg/httputil"
	"go.uber.org/zap"
)

type Accounts interface {
	Register(ctx context.Context, username, password string) (*account.Session, error)
	Login(ctx context.Context, username, password string) (*account.Session, error)
	Logout(ctx context.Context, token string) (string, error)
}

// SessionEnder drops a user's live connection and seat on logout.
type SessionEnder interface {
	Logout(ctx context.Context, user string)
	Profile(ctx context.Context, user string) (*domain.Profile, error)
}

type AuthHandler struct {
	accounts   Accounts
	sessions   SessionEnder
	log        *zap.Logger
	cookieTTL  time.Duration
	production bool
}

func NewAuthHandler(accounts Accounts, sessions SessionEnder, log *zap.Logger, cookieTTL time.Duration, production bool) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		sessions:   sessions,
		log:        log,
		cookieTTL:  cookieTTL,
		production: production,
	}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, domain.ErrInvalidRequest)
		return
	}

	sess, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httputil.SetAuthCookie(c.Writer, sess.Token, h.cookieTTL, h.production)
	c.JSON(http.StatusCreated, sess)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, domain.ErrInvalidRequest)
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httputil.SetAuthCookie(c.Writer, sess.Token, h.cookieTTL, h.production)
	c.JSON(http.StatusOK, sess)
}

// Logout revokes the caller's token and ends their live session.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := httputil.GetTokenFromRequest(c.Request)
	if err != nil {
		writeError(c, h.log, domain.ErrUnauthorized)
		return
	}

	user, err := h.accounts.Logout(c.Request.Context(), token)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.sessions.Logout(c.Request.Context(), user)
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.sessions.Profile(c.Request.Context(), middleware.Username(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
