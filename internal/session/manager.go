package session

import (
	"errors"
	"sort"
	"sync/atomic"

	"github.com/frudas24/padremote/internal/gesture"
	"github.com/frudas24/padremote/internal/input"
	"github.com/jonboulle/clockwork"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// ErrTooManySessions is returned by Open when MaxClients sessions are live.
var ErrTooManySessions = errors.New("too many sessions")

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Executor is shared by every session; the manager serializes it.
	Executor    input.Executor
	Profiles    map[string]gesture.Profile
	Profile     string
	Sensitivity float64
	// MaxClients limits concurrent sessions; zero means unlimited.
	MaxClients int
	Clock      clockwork.Clock
	Log        zerolog.Logger
}

// Manager creates sessions and tracks the live ones.
type Manager struct {
	opts       ManagerOptions
	dispatcher *input.Dispatcher
	sessions   *xsync.MapOf[string, *Session]
	live       atomic.Int64
}

// NewManager returns a manager whose sessions share one serialized executor.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Profiles == nil {
		opts.Profiles = gesture.Builtin()
	}
	return &Manager{
		opts:       opts,
		dispatcher: input.NewDispatcher(input.Serialize(opts.Executor)),
		sessions:   xsync.NewMapOf[string, *Session](),
	}
}

// Open creates and registers a session for a new connection.
func (m *Manager) Open(remote, transport string) (*Session, error) {
	if n := m.live.Add(1); m.opts.MaxClients > 0 && n > int64(m.opts.MaxClients) {
		m.live.Add(-1)
		return nil, ErrTooManySessions
	}
	s, err := New(Options{
		Remote:      remote,
		Transport:   transport,
		Profiles:    m.opts.Profiles,
		Profile:     m.opts.Profile,
		Sensitivity: m.opts.Sensitivity,
		Dispatcher:  m.dispatcher,
		Clock:       m.opts.Clock,
		Log:         m.opts.Log,
	})
	if err != nil {
		m.live.Add(-1)
		return nil, err
	}
	m.sessions.Store(s.ID(), s)
	return s, nil
}

// Close tears down s and forgets it. Closing twice is harmless.
func (m *Manager) Close(s *Session) {
	if s == nil {
		return
	}
	s.Close()
	if _, ok := m.sessions.LoadAndDelete(s.ID()); ok {
		m.live.Add(-1)
	}
}

// Get returns the live session with id.
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Load(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Size()
}

// Snapshots returns views of all live sessions, oldest first.
func (m *Manager) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, m.sessions.Size())
	m.sessions.Range(func(_ string, s *Session) bool {
		out = append(out, s.Snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Opened.Equal(out[j].Opened) {
			return out[i].ID < out[j].ID
		}
		return out[i].Opened.Before(out[j].Opened)
	})
	return out
}

// CloseAll tears down every live session.
func (m *Manager) CloseAll() {
	m.sessions.Range(func(_ string, s *Session) bool {
		m.Close(s)
		return true
	})
}
