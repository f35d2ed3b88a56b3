package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AltairaLabs/BackdropKit/logger"
	"github.com/AltairaLabs/BackdropKit/session"
)

const (
	// wsWriteWait is the write deadline for each outbound message.
	wsWriteWait = 10 * time.Second

	// wsMaxMessageSize is the read limit. Frames arrive base64-encoded, so
	// this allows roughly a 12MB image per message.
	wsMaxMessageSize = 16 * 1024 * 1024

	// wsBufferSize sizes the upgrader's read and write buffers.
	wsBufferSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsBufferSize,
	WriteBufferSize: wsBufferSize,
	// The streaming frontend may be served from a different origin; access
	// control is out of scope for this surface.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS upgrades the connection and runs one session for its lifetime.
// One goroutine per connection; message handling within it is sequential.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	conn.SetReadLimit(wsMaxMessageSize)

	sess := session.New(session.Config{
		Conn:              &wsConn{conn: conn},
		Backgrounds:       s.backgrounds,
		Segmenter:         s.segmenter,
		InitialBackground: s.DefaultBackground(),
		JPEGQuality:       s.cfg.JPEGQuality,
		BlurRadius:        s.cfg.BlurRadius,
		OnClose: func(closed *session.Session) {
			remaining := s.conns.Remove(closed.ID())
			logger.SessionClosed(closed.ID(), remaining)
		},
	})

	total := s.conns.Add(sess)
	logger.SessionConnected(sess.ID(), total, "remote", r.RemoteAddr)

	ctx := logger.WithRemoteAddr(r.Context(), r.RemoteAddr)
	sess.Run(ctx)
}

// wsConn adapts a gorilla connection to session.Conn. The session loop is
// its only caller, which satisfies gorilla's one-concurrent-writer rule.
type wsConn struct {
	conn *websocket.Conn
}

// ReadMessage blocks for the next text or binary message.
func (c *wsConn) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage || msgType == websocket.BinaryMessage {
			return data, nil
		}
		// Control frames are handled by gorilla; skip anything else.
	}
}

// WriteJSON writes one JSON text message under a write deadline.
func (c *wsConn) WriteJSON(v any) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Close closes the underlying connection. Safe to call more than once.
func (c *wsConn) Close() error {
	return c.conn.Close()
}
