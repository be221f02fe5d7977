// Package control serves the websocket control channel.
package control

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/frudas24/padremote/internal/protocol"
	"github.com/frudas24/padremote/internal/session"
	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// Transport is the name recorded on sessions opened by this server.
const Transport = "websocket"

const (
	defaultPingInterval = 20 * time.Second
	writeWait           = 5 * time.Second
	maxFrameBytes       = 256 << 10
)

// Server accepts control websocket connections, one session per connection.
type Server struct {
	upgrader     websocket.Upgrader
	manager      *session.Manager
	log          zerolog.Logger
	pingInterval time.Duration
	conns        *xsync.MapOf[*websocket.Conn, string]
}

// NewServer creates a control websocket server. A zero pingInterval uses the default.
func NewServer(manager *session.Manager, log zerolog.Logger, pingInterval time.Duration) *Server {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}
	return &Server{
		manager:      manager,
		log:          log.With().Str("transport", Transport).Logger(),
		pingInterval: pingInterval,
		conns:        xsync.NewMapOf[*websocket.Conn, string](),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and feeds every frame to its session.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("control: upgrade failed")
		return
	}
	sess, err := s.manager.Open(r.RemoteAddr, Transport)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("control: connection refused")
		s.rejectConn(conn, err)
		return
	}
	s.conns.Store(conn, sess.ID())
	defer s.cleanupConn(conn, sess)

	done := make(chan struct{})
	defer close(done)
	s.keepAlive(conn, done)

	for {
		kind, data, err := readFrame(conn)
		if errors.Is(err, errFrameTooLarge) {
			sess.RejectFrame(fmt.Errorf("%w: %w", protocol.ErrMalformed, err))
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Str("session", sess.ID()).Msg("control: connection lost")
			}
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		// Frame errors are logged by the session and never end the connection.
		_ = sess.HandleMessage(data)
	}
}

var errFrameTooLarge = fmt.Errorf("frame exceeds %d bytes", maxFrameBytes)

// readFrame reads one message of at most maxFrameBytes. A larger message is
// drained and reported as errFrameTooLarge, leaving the connection usable.
func readFrame(conn *websocket.Conn) (int, []byte, error) {
	kind, r, err := conn.NextReader()
	if err != nil {
		return 0, nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, maxFrameBytes+1))
	if err != nil {
		return 0, nil, err
	}
	if len(data) > maxFrameBytes {
		if _, err := io.Copy(io.Discard, r); err != nil {
			return 0, nil, err
		}
		return kind, nil, errFrameTooLarge
	}
	return kind, data, nil
}

// keepAlive pings the peer and extends the read deadline on every pong.
func (s *Server) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	pongWait := 2 * s.pingInterval
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()
}

// rejectConn closes a connection that cannot get a session.
func (s *Server) rejectConn(conn *websocket.Conn, reason error) {
	code := websocket.CloseInternalServerErr
	if errors.Is(reason, session.ErrTooManySessions) {
		code = websocket.ClosePolicyViolation
	}
	message := websocket.FormatCloseMessage(code, reason.Error())
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	_ = conn.Close()
}

// cleanupConn tears down the session and closes the connection.
func (s *Server) cleanupConn(conn *websocket.Conn, sess *session.Session) {
	s.conns.Delete(conn)
	s.manager.Close(sess)
	_ = conn.Close()
}

// Close sends a going-away frame to every open connection. Read loops then
// exit and close their sessions.
func (s *Server) Close() {
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	s.conns.Range(func(conn *websocket.Conn, _ string) bool {
		_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
		_ = conn.Close()
		return true
	})
}

// Len returns the number of open connections.
func (s *Server) Len() int {
	return s.conns.Size()
}
