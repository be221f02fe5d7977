// Package session runs one control connection: it decodes frames, feeds the
// gesture recognizer and dispatches the resulting commands.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/frudas24/padremote/internal/gesture"
	"github.com/frudas24/padremote/internal/input"
	"github.com/frudas24/padremote/internal/protocol"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Options configures a new Session.
type Options struct {
	ID        string
	Remote    string
	Transport string
	// Profiles is the set selectable by profile messages; Profile names the initial one.
	Profiles map[string]gesture.Profile
	Profile  string
	// Sensitivity overrides the profile default when positive.
	Sensitivity float64
	Dispatcher  *input.Dispatcher
	Clock       clockwork.Clock
	Log         zerolog.Logger
}

// Stats counts frame outcomes for one session.
type Stats struct {
	Frames      uint64 `json:"frames"`
	Commands    uint64 `json:"commands"`
	Failures    uint64 `json:"failures"`
	Malformed   uint64 `json:"malformed"`
	Unsupported uint64 `json:"unsupported"`
}

// Snapshot represents a read-only view of a session.
type Snapshot struct {
	ID          string    `json:"id"`
	Remote      string    `json:"remote"`
	Transport   string    `json:"transport"`
	Opened      time.Time `json:"opened"`
	State       string    `json:"state"`
	Profile     string    `json:"profile"`
	Sensitivity float64   `json:"sensitivity"`
	Dragging    bool      `json:"dragging"`
	Held        []string  `json:"held,omitempty"`
	Stats       Stats     `json:"stats"`
}

// Session is one logical connection. It owns a recognizer and the set of
// buttons pressed by direct commands.
type Session struct {
	id         string
	remote     string
	transport  string
	opened     time.Time
	log        zerolog.Logger
	dispatcher *input.Dispatcher
	profiles   map[string]gesture.Profile
	rec        *gesture.Recognizer

	mu     sync.Mutex
	held   map[protocol.Button]bool
	stats  Stats
	closed bool

	closeOnce sync.Once
}

// New returns an open session. It fails when the initial profile is unknown.
func New(opts Options) (*Session, error) {
	if opts.Dispatcher == nil {
		return nil, errors.New("session: dispatcher is required")
	}
	if opts.Profiles == nil {
		opts.Profiles = gesture.Builtin()
	}
	if opts.Profile == "" {
		opts.Profile = gesture.ProfileStandard
	}
	profile, ok := opts.Profiles[opts.Profile]
	if !ok {
		return nil, fmt.Errorf("session: unknown profile %q", opts.Profile)
	}
	if opts.Sensitivity > 0 {
		profile.Sensitivity = opts.Sensitivity
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	s := &Session{
		id:         opts.ID,
		remote:     opts.Remote,
		transport:  opts.Transport,
		opened:     opts.Clock.Now(),
		dispatcher: opts.Dispatcher,
		profiles:   opts.Profiles,
		held:       make(map[protocol.Button]bool),
		log: opts.Log.With().
			Str("session", opts.ID).
			Str("remote", opts.Remote).
			Str("transport", opts.Transport).
			Logger(),
	}
	s.rec = gesture.NewRecognizer(profile, opts.Clock, s.dispatchGesture)
	s.log.Info().Str("profile", profile.Name).Float64("sensitivity", s.rec.Sensitivity()).Msg("session: opened")
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Remote returns the peer address.
func (s *Session) Remote() string {
	return s.remote
}

// HandleMessage decodes and applies one inbound frame. Errors are logged
// and returned; none of them should end the connection.
func (s *Session) HandleMessage(data []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errClosed
	}
	s.stats.Frames++
	s.mu.Unlock()

	frame, err := protocol.Decode(data)
	if err != nil {
		s.reject(err)
		return err
	}
	switch frame.Kind {
	case protocol.FrameTouch:
		s.handleTouch(frame.Touch)
		return nil
	case protocol.FrameControl:
		if err := s.applyControl(frame.Control); err != nil {
			s.reject(err)
			return err
		}
		return nil
	default:
		return s.dispatchDirect(frame.Command)
	}
}

var errClosed = errors.New("session closed")

// handleTouch feeds a touch sample to the recognizer.
func (s *Session) handleTouch(t protocol.Touch) {
	ts := t.Time
	if !t.HasTime {
		ts = s.rec.Now()
	}
	s.rec.Handle(gesture.RawSample{Surface: t.Surface, Phase: t.Phase, X: t.X, Y: t.Y, Time: ts})
}

// applyControl handles session control messages.
func (s *Session) applyControl(c protocol.Control) error {
	switch c.Kind {
	case protocol.ControlSensitivity:
		if err := s.rec.SetSensitivity(c.Sensitivity); err != nil {
			return fmt.Errorf("%w: %w", protocol.ErrUnsupported, err)
		}
		s.log.Debug().Float64("sensitivity", c.Sensitivity).Msg("session: sensitivity changed")
	case protocol.ControlDragToggle:
		dragging := s.rec.ToggleDrag(c.DragEnabled)
		s.log.Debug().Bool("dragging", dragging).Msg("session: drag toggled")
	case protocol.ControlProfile:
		p, ok := s.profiles[c.Profile]
		if !ok {
			return fmt.Errorf("%w: unknown profile %q", protocol.ErrUnsupported, c.Profile)
		}
		// Keep the session's current multiplier across profile switches.
		p.Sensitivity = s.rec.Sensitivity()
		s.rec.SetProfile(p)
		s.log.Debug().Str("profile", p.Name).Msg("session: profile changed")
	}
	return nil
}

// dispatchDirect executes a command sent by the device and tracks buttons
// it leaves pressed.
func (s *Session) dispatchDirect(cmd protocol.Command) error {
	err := s.dispatch(cmd)
	if err != nil {
		return err
	}
	s.mu.Lock()
	switch cmd.Type {
	case protocol.CmdButtonDown:
		s.held[cmd.Button] = true
	case protocol.CmdButtonUp:
		delete(s.held, cmd.Button)
	}
	s.mu.Unlock()
	return nil
}

// dispatchGesture is the recognizer sink.
func (s *Session) dispatchGesture(cmd protocol.Command) {
	_ = s.dispatch(cmd)
}

// dispatch runs one command and logs failures.
func (s *Session) dispatch(cmd protocol.Command) error {
	err := s.dispatcher.Dispatch(cmd)
	s.mu.Lock()
	if err != nil {
		s.stats.Failures++
	} else {
		s.stats.Commands++
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Str("command", cmd.String()).Msg("session: command failed")
		return err
	}
	if cmd.Type == protocol.CmdMouseMove {
		s.log.Trace().Str("command", cmd.String()).Msg("session: dispatched")
	} else {
		s.log.Debug().Str("command", cmd.String()).Msg("session: dispatched")
	}
	return nil
}

// RejectFrame counts a frame the transport refused to decode, for example
// one over its size limit, and logs it like any other dropped frame.
func (s *Session) RejectFrame(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stats.Frames++
	s.mu.Unlock()
	s.reject(err)
}

// reject counts and logs a dropped frame.
func (s *Session) reject(err error) {
	s.mu.Lock()
	if errors.Is(err, protocol.ErrUnsupported) {
		s.stats.Unsupported++
	} else {
		s.stats.Malformed++
	}
	s.mu.Unlock()
	s.log.Warn().Err(err).Msg("session: frame dropped")
}

// Close ends the session. Pending deadlines are cancelled, a recognizer
// drag is released with one ButtonUp{left}, then buttons still held by
// direct commands are released. Later calls do nothing.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		released := s.rec.Close()

		s.mu.Lock()
		s.closed = true
		held := make([]protocol.Button, 0, len(s.held))
		for b := range s.held {
			if b == protocol.ButtonLeft && released {
				continue
			}
			held = append(held, b)
		}
		s.held = map[protocol.Button]bool{}
		s.mu.Unlock()

		sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })
		for _, b := range held {
			_ = s.dispatch(protocol.ButtonUp(b))
		}
		s.log.Info().Bool("drag_released", released).Int("buttons_released", len(held)).Msg("session: closed")
	})
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	profile := s.rec.Profile()
	snap := Snapshot{
		ID:          s.id,
		Remote:      s.remote,
		Transport:   s.transport,
		Opened:      s.opened,
		State:       s.rec.State().String(),
		Profile:     profile.Name,
		Sensitivity: s.rec.Sensitivity(),
		Dragging:    s.rec.Dragging(),
	}
	s.mu.Lock()
	snap.Stats = s.stats
	for b := range s.held {
		snap.Held = append(snap.Held, string(b))
	}
	s.mu.Unlock()
	sort.Strings(snap.Held)
	return snap
}
