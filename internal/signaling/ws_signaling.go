package signaling

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/padremote/internal/rtc"
	"github.com/frudas24/padremote/internal/session"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
)

// Transport is the name recorded on sessions opened over a data channel.
const Transport = "webrtc"

// Server handles WebRTC signaling over WebSocket. Each signaling
// connection negotiates one peer whose "control" data channel becomes a session.
type Server struct {
	upgrader websocket.Upgrader
	factory  *rtc.Factory
	manager  *session.Manager
	log      zerolog.Logger
}

// NewServer creates a signaling server.
func NewServer(factory *rtc.Factory, manager *session.Manager, log zerolog.Logger) *Server {
	return &Server{
		factory: factory,
		manager: manager,
		log:     log.With().Str("transport", Transport).Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// signalConn serializes writes to one signaling websocket.
type signalConn struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

// send writes a message to the websocket.
func (c *signalConn) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(msg)
}

// channelSession binds a session to the lifetime of one data channel.
type channelSession struct {
	mu      sync.Mutex
	manager *session.Manager
	sess    *session.Session
	ended   bool
}

// open creates the session unless the channel already ended.
func (c *channelSession) open(remote string) (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ended {
		return nil, errors.New("channel already closed")
	}
	if c.sess != nil {
		return c.sess, nil
	}
	sess, err := c.manager.Open(remote, Transport)
	if err != nil {
		return nil, err
	}
	c.sess = sess
	return sess, nil
}

// current returns the open session, if any.
func (c *channelSession) current() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// end closes the session once.
func (c *channelSession) end() {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	c.ended = true
	c.mu.Unlock()
	if sess != nil {
		c.manager.Close(sess)
	}
}

// ServeHTTP upgrades the request and starts the signaling loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	sc := &signalConn{conn: conn}
	remote := r.RemoteAddr

	peer, err := s.factory.NewPeer()
	if err != nil {
		s.log.Error().Err(err).Msg("signaling: peer creation failed")
		rejectConn(conn, err.Error())
		return
	}
	binding := &channelSession{manager: s.manager}
	defer func() {
		binding.end()
		_ = peer.Close()
		_ = conn.Close()
	}()

	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		candidate := c.ToJSON()
		_ = sc.send(Message{T: TypeICE, Candidate: &candidate})
	})
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		s.log.Debug().Str("remote", remote).Str("state", state.String()).Msg("signaling: peer state")
		if state == webrtc.PeerConnectionStateFailed || state == webrtc.PeerConnectionStateClosed {
			binding.end()
		}
	})
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		s.attachChannel(dc, binding, sc, remote)
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(sc, peer, msg); err != nil {
			s.log.Warn().Err(err).Str("remote", remote).Msg("signaling: negotiation failed")
			_ = sc.send(Message{T: TypeError, Error: err.Error()})
			return
		}
	}
}

// attachChannel wires a data channel to a session. Channels with another label are closed.
func (s *Server) attachChannel(dc *webrtc.DataChannel, binding *channelSession, sc *signalConn, remote string) {
	if dc.Label() != rtc.ControlLabel {
		s.log.Debug().Str("label", dc.Label()).Msg("signaling: ignoring data channel")
		_ = dc.Close()
		return
	}
	dc.OnOpen(func() {
		if _, err := binding.open(remote); err != nil {
			s.log.Warn().Err(err).Str("remote", remote).Msg("signaling: channel refused")
			_ = sc.send(Message{T: TypeError, Error: err.Error()})
			_ = dc.Close()
		}
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		sess := binding.current()
		if sess == nil {
			return
		}
		_ = sess.HandleMessage(msg.Data)
	})
	dc.OnClose(binding.end)
}

// rejectConn sends a policy violation close and closes the socket.
func rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(1*time.Second))
	_ = conn.Close()
}

// handleMessage dispatches signaling messages.
func (s *Server) handleMessage(sc *signalConn, peer *webrtc.PeerConnection, msg Message) error {
	switch msg.T {
	case TypeOffer:
		return s.handleOffer(sc, peer, msg.SDP)
	case TypeICE:
		return handleICE(peer, msg.Candidate)
	default:
		return nil
	}
}

// handleOffer processes an SDP offer and replies with an answer.
func (s *Server) handleOffer(sc *signalConn, peer *webrtc.PeerConnection, sdp string) error {
	if sdp == "" {
		return fmt.Errorf("empty offer")
	}
	if err := peer.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  sdp,
	}); err != nil {
		return err
	}
	answer, err := peer.CreateAnswer(nil)
	if err != nil {
		return err
	}
	gatherComplete := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(answer); err != nil {
		return err
	}
	<-gatherComplete
	local := peer.LocalDescription()
	if local == nil {
		return fmt.Errorf("missing local description")
	}
	return sc.send(Message{T: TypeAnswer, SDP: local.SDP})
}

// handleICE adds a remote ICE candidate.
func handleICE(peer *webrtc.PeerConnection, candidate *webrtc.ICECandidateInit) error {
	if candidate == nil {
		return nil
	}
	return peer.AddICECandidate(*candidate)
}
