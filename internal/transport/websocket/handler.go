package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/internal/service/game"
	"go.uber.org/zap"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	initWait     = 10 * time.Second
	maxFrameSize = 8 << 10
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

type Options struct {
	AllowedOrigins []string
	WriteTimeout   time.Duration
}

// Handler upgrades player connections and routes their requests to the engine.
type Handler struct {
	engine       *game.Engine
	auth         Authenticator
	log          *zap.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

func NewHandler(engine *game.Engine, auth Authenticator, log *zap.Logger, opts Options) *Handler {
	h := &Handler{
		engine:       engine,
		auth:         auth,
		log:          log,
		writeTimeout: opts.WriteTimeout,
	}
	if h.writeTimeout <= 0 {
		h.writeTimeout = 10 * time.Second
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(opts.AllowedOrigins) == 0 || slices.Contains(opts.AllowedOrigins, origin)
		},
	}
	return h
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}
	h.serve(context.WithoutCancel(r.Context()), newConn(ws, h.writeTimeout))
}

func (h *Handler) serve(ctx context.Context, conn *Conn) {
	defer conn.Close()

	conn.ws.SetReadLimit(maxFrameSize)
	user, ok := h.handshake(ctx, conn)
	if !ok {
		return
	}
	log := h.log.With(zap.String("user", user))

	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go h.keepAlive(conn)

	h.engine.Connect(ctx, user, conn)
	defer h.engine.Disconnect(ctx, user, conn)
	log.Info("connected")

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("connection lost", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reply(ctx, conn, "", "", nil, fmt.Errorf("%w: malformed message", domain.ErrInvalidRequest))
			continue
		}

		result, err := h.dispatch(ctx, user, msg)
		if err != nil && domain.KindOf(err) == domain.KindStorage {
			log.Error("request failed", zap.String("op", msg.Type), zap.Error(err))
		}
		h.reply(ctx, conn, msg.Type, msg.RequestID, result, err)

		if msg.Type == opLogout && err == nil {
			return
		}
	}
}

// handshake waits for the init frame and resolves its token to a user.
func (h *Handler) handshake(ctx context.Context, conn *Conn) (string, bool) {
	_ = conn.ws.SetReadDeadline(time.Now().Add(initWait))

	var msg ClientMessage
	if err := conn.ws.ReadJSON(&msg); err != nil {
		h.log.Debug("init not received", zap.Error(err))
		return "", false
	}
	if msg.Type != opInit || msg.Token == "" {
		h.reply(ctx, conn, msg.Type, msg.RequestID, nil, domain.ErrUnauthorized)
		return "", false
	}

	user, err := h.auth.Authenticate(ctx, msg.Token)
	if err != nil {
		h.reply(ctx, conn, opInit, msg.RequestID, nil, err)
		return "", false
	}

	h.reply(ctx, conn, opInit, msg.RequestID, map[string]string{"username": user}, nil)
	return user, true
}

func (h *Handler) keepAlive(conn *Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-conn.done:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (h *Handler) reply(ctx context.Context, conn *Conn, op, requestID string, data any, err error) {
	r := Reply{Type: replyType, RequestID: requestID, Op: op, OK: err == nil, Data: data}
	if err != nil {
		r.Data = nil
		r.Error = &ReplyError{Kind: domain.KindOf(err).String(), Message: err.Error()}
		var de *domain.Error
		if domain.KindOf(err) == domain.KindStorage && errors.As(err, &de) {
			r.Error.Message = de.Msg
		}
	}
	if werr := conn.writeJSON(ctx, r); werr != nil {
		h.log.Debug("reply not written", zap.String("op", op), zap.Error(werr))
	}
}

func (h *Handler) dispatch(ctx context.Context, user string, msg ClientMessage) (any, error) {
	e := h.engine

	switch msg.Type {
	case opCreateRoom:
		if msg.Room == nil {
			return nil, fmt.Errorf("%w: room settings required", domain.ErrInvalidRequest)
		}
		id, err := e.CreateRoom(ctx, user, msg.Room.config())
		return map[string]string{"roomId": id}, err

	case opJoinRoom:
		joined, err := e.JoinRoom(ctx, user, msg.RoomID, msg.Password)
		return map[string]bool{"joined": joined}, err

	case opLeaveRoom:
		return nil, e.LeaveRoom(ctx, user, msg.RoomID)

	case opQuickPlay:
		id, err := e.QuickPlay(ctx, user)
		return map[string]string{"roomId": id}, err

	case opListRooms:
		return e.ListOpenRooms(), nil

	case opListOnline:
		return e.ListOnlineUsers(), nil

	case opSnapshot:
		return e.Snapshot(user, msg.RoomID)

	case opMakeMove:
		return nil, e.MakeMove(ctx, user, msg.RoomID, msg.Row, msg.Col)

	case opResign:
		return nil, e.Resign(ctx, user, msg.RoomID)

	case opRequestUndo:
		return e.RequestUndo(ctx, user, msg.RoomID)

	case opRespondUndo:
		return e.RespondUndo(ctx, user, msg.RoomID, msg.Accept)

	case opOfferDraw:
		return nil, e.RequestDraw(ctx, user, msg.RoomID)

	case opRespondDraw:
		return e.RespondDraw(ctx, user, msg.RoomID, msg.Accept)

	case opPostGameChoice:
		return e.SubmitPostGameChoice(ctx, user, msg.RoomID, domain.PostGameChoice(msg.Choice))

	case opGlobalChat:
		return nil, e.SendGlobalChat(ctx, user, msg.Text)

	case opRoomChat:
		return nil, e.SendRoomChat(ctx, user, msg.RoomID, msg.Text)

	case opFriendRequest:
		return nil, e.SendFriendRequest(ctx, user, msg.Username)

	case opRespondFriend:
		return e.RespondFriendRequest(ctx, user, msg.Username, msg.Accept)

	case opListFriends:
		return e.Friends(ctx, user)

	case opProfile:
		name := msg.Username
		if name == "" {
			name = user
		}
		return e.Profile(ctx, name)

	case opLeaderboard:
		return e.Leaderboard(ctx, msg.Limit)

	case opLogout:
		e.Logout(ctx, user)
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", domain.ErrInvalidRequest, msg.Type)
	}
}
