package feed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"homeserve/internal/domain/auth"
	"homeserve/internal/domain/lead"
	jwtsvc "homeserve/internal/pkg/jwt"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins (configure in prod)
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades clients onto the realtime feed and runs one
// Session per connection.
type WSHandler struct {
	bus      *Bus
	jwt      *jwtsvc.Service
	src      BookingSource
	acceptor lead.Acceptor
	userRepo *auth.UserRepository
	leadTTL  time.Duration
}

func NewWSHandler(bus *Bus, jwt *jwtsvc.Service, src BookingSource, acceptor lead.Acceptor, userRepo *auth.UserRepository, leadTTL time.Duration) *WSHandler {
	return &WSHandler{
		bus:      bus,
		jwt:      jwt,
		src:      src,
		acceptor: acceptor,
		userRepo: userRepo,
		leadTTL:  leadTTL,
	}
}

// clientMessage is what a connected client may send upstream.
type clientMessage struct {
	Type           string `json:"type"`
	BookingID      string `json:"booking_id,omitempty"`
	NotificationID int64  `json:"notification_id,omitempty"`
}

// HandleFeed serves GET /ws/feed?token=JWT_TOKEN.
//
// Authentication is via query parameter: the browser WebSocket API
// cannot set headers.
func (h *WSHandler) HandleFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required. Use ?token=YOUR_JWT_TOKEN"})
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("feed: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess, err := NewSession(c.Request.Context(), claims.UserID, auth.Role(claims.Role), h.bus, h.src, h.acceptor, h.leadTTL)
	if err != nil {
		log.Printf("feed: session setup failed for user %d: %v", claims.UserID, err)
		conn.WriteJSON(Frame{Type: FrameError, Error: "session setup failed"})
		return
	}
	defer sess.Close()

	go sess.Run()
	go h.writePump(conn, sess)

	h.readPump(conn, sess, claims.UserID)
}

// writePump is the only goroutine that writes to the connection.
// Replies produced by readPump travel through the session's frame
// channel so the conn never sees two concurrent writers.
func (h *WSHandler) writePump(conn *websocket.Conn, sess *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-sess.done:
			return
		case f, ok := <-sess.Frames():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				return
			}
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readPump(conn *websocket.Conn, sess *Session, userID int64) {
	conn.SetReadLimit(maxMsgSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("feed: websocket error for user %d: %v", userID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sess.push(Frame{Type: FrameError, Error: "failed to parse message"})
			continue
		}

		switch msg.Type {
		case "ping":
			sess.push(Frame{Type: FramePong})
		case "accept":
			h.handleAccept(sess, userID, msg.BookingID)
		case "decline":
			if q := sess.Queue(); q != nil {
				q.Decline(msg.BookingID)
			}
		case "mark_read":
			sess.Relay().MarkRead(msg.NotificationID)
		default:
			sess.push(Frame{Type: FrameError, Error: "unknown message type: " + msg.Type})
		}
	}
}

// handleAccept claims the current lead for the connected helper. A
// lost race produces no error frame: the lead just disappears.
func (h *WSHandler) handleAccept(sess *Session, userID int64, bookingID string) {
	q := sess.Queue()
	if q == nil || bookingID == "" {
		return
	}

	helper, err := h.userRepo.GetByID(context.Background(), userID)
	if err != nil {
		sess.push(Frame{Type: FrameError, Error: "unknown helper"})
		return
	}

	b, err := q.Accept(context.Background(), bookingID, helper.ID, helper.Name, helper.Phone)
	if err != nil {
		sess.push(Frame{Type: FrameError, Error: err.Error()})
		return
	}
	if b != nil {
		sess.push(Frame{Type: FrameBookingUpdate, Booking: b})
	}
}
