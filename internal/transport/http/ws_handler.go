package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"millionaire-quiz-service/internal/app"
	"millionaire-quiz-service/internal/auth"
	"millionaire-quiz-service/internal/domain"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second
)

type WSHandler struct {
	service  *app.QuizService
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	CategoryIDs []int64 `json:"categoryIds"`
}

type answerPayload struct {
	AnswerID int64 `json:"answerId"`
}

type lifelinePayload struct {
	Lifeline string `json:"lifeline"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// connection is the per-socket game: one live session at a time.
type connection struct {
	h         *WSHandler
	ctx       context.Context
	userID    int64
	sessionID string
	send      chan outboundMessage[any]
	log       logrus.FieldLogger
}

// ServeWS upgrades an authenticated request and plays games over the socket.
// Closing the socket abandons whatever game is still running.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	c := &connection{
		h:      h,
		ctx:    r.Context(),
		userID: user.ID,
		send:   make(chan outboundMessage[any], 16),
		log:    h.log.WithField("userId", user.ID),
	}
	writerDone := make(chan struct{})
	go c.writeLoop(conn, writerDone)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Debug("ws read error")
			}
			break
		}
		c.handle(inbound)
	}

	if c.sessionID != "" {
		h.service.Abandon(context.WithoutCancel(c.ctx), c.userID, c.sessionID)
	}
	close(c.send)
	<-writerDone
}

func (c *connection) writeLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				c.log.WithError(err).Warn("ws write error")
				// Unblock the reader; it drains send until closed.
				conn.Close()
				for range c.send {
				}
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				conn.Close()
				for range c.send {
				}
				return
			}
		}
	}
}

func (c *connection) handle(inbound inboundMessage) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.sendError("invalidPayload", "invalid start payload")
				return
			}
		}
		c.start(domain.Scope{CategoryIDs: payload.CategoryIDs})
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.sendError("invalidPayload", "invalid answer payload")
			return
		}
		c.play(func(id string) (domain.GameState, error) {
			return c.h.service.Answer(c.ctx, c.userID, id, payload.AnswerID)
		})
	case "continue":
		c.play(func(id string) (domain.GameState, error) {
			return c.h.service.Continue(c.ctx, c.userID, id)
		})
	case "walkAway":
		c.play(func(id string) (domain.GameState, error) {
			return c.h.service.WalkAway(c.ctx, c.userID, id)
		})
	case "lifeline":
		var payload lifelinePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.sendError("invalidPayload", "invalid lifeline payload")
			return
		}
		kind, err := domain.ParseLifeline(payload.Lifeline)
		if err != nil {
			c.sendServiceError(err)
			return
		}
		c.play(func(id string) (domain.GameState, error) {
			return c.h.service.UseLifeline(c.ctx, c.userID, id, kind)
		})
	default:
		c.sendError("unsupported", "unsupported message type")
	}
}

func (c *connection) start(scope domain.Scope) {
	if c.sessionID != "" {
		c.h.service.Abandon(c.ctx, c.userID, c.sessionID)
		c.sessionID = ""
	}
	state, err := c.h.service.Start(c.ctx, c.userID, scope)
	if errors.Is(err, domain.ErrNoQuestions) {
		c.send <- outboundMessage[any]{Type: "noQuestions", Payload: errorPayload{Message: err.Error(), Code: "noQuestions"}}
		return
	}
	if err != nil {
		c.sendServiceError(err)
		return
	}
	c.sessionID = state.SessionID
	c.sendState(state)
}

func (c *connection) play(action func(sessionID string) (domain.GameState, error)) {
	if c.sessionID == "" {
		c.sendServiceError(domain.ErrSessionNotFound)
		return
	}
	state, err := action(c.sessionID)
	if err != nil {
		c.sendServiceError(err)
		return
	}
	if state.Outcome.Terminal() {
		c.sessionID = ""
	}
	c.sendState(state)
}

func (c *connection) sendState(state domain.GameState) {
	c.send <- outboundMessage[any]{Type: "game", Payload: state}
	if state.Notice != nil {
		c.send <- outboundMessage[any]{Type: "notice", Payload: state.Notice}
	}
}

func (c *connection) sendServiceError(err error) {
	status, code := classify(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		c.log.WithError(err).Error("ws action failed")
		message = http.StatusText(status)
	}
	c.sendError(code, message)
}

func (c *connection) sendError(code, message string) {
	c.send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message, Code: code}}
}
