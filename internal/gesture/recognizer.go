package gesture

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/frudas24/padremote/internal/protocol"
	"github.com/jonboulle/clockwork"
)

// ErrInvalidSensitivity is returned for non-positive or non-finite multipliers.
var ErrInvalidSensitivity = errors.New("sensitivity must be a positive number")

// RawSample is one observed touch point.
type RawSample struct {
	Surface protocol.Surface
	Phase   protocol.Phase
	X       float64
	Y       float64
	// Time is a monotonic timestamp; only differences between samples matter.
	Time time.Duration
}

// State names the recognizer machine states.
type State int

const (
	// StateIdle has no finger down and nothing pending.
	StateIdle State = iota
	// StateActive has a stroke in progress.
	StateActive
	// StateAwaitingTapConfirm holds a single tap until the grace window ends.
	StateAwaitingTapConfirm
	// StateDragging holds the left button down.
	StateDragging
)

// String returns the state name used in snapshots.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateAwaitingTapConfirm:
		return "awaiting_tap_confirm"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type event int

const (
	evStart event = iota
	evMove
	evEnd
	evHoldExpired
	evTapExpired
)

type handler func(r *Recognizer, s RawSample)

// transitions is the pad state machine. Pairs that are absent are ignored.
// It is filled in init because the handlers refer back to it through dispatch.
var transitions map[State]map[event]handler

func init() {
	transitions = map[State]map[event]handler{
		StateIdle: {
			evStart: (*Recognizer).beginStroke,
		},
		StateActive: {
			evStart:       (*Recognizer).beginStroke,
			evMove:        (*Recognizer).moveStroke,
			evEnd:         (*Recognizer).endStroke,
			evHoldExpired: (*Recognizer).holdExpired,
		},
		StateAwaitingTapConfirm: {
			evStart:      (*Recognizer).beginStroke,
			evTapExpired: (*Recognizer).confirmTap,
		},
		StateDragging: {
			evStart: (*Recognizer).beginStroke,
			evMove:  (*Recognizer).moveStroke,
			evEnd:   (*Recognizer).endStroke,
		},
	}
}

type point struct {
	x, y float64
}

// deadline is a cancellable delayed event. gen identifies the arming; a
// timer that fires with a stale gen does nothing.
type deadline struct {
	timer clockwork.Timer
	gen   uint64
}

// Recognizer interprets the touch samples of one session. Commands are
// passed to the emit sink in the order they are decided.
type Recognizer struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	epoch   time.Time
	emit    func(protocol.Command)
	profile Profile
	state   State
	closed  bool

	sensitivity float64
	active      bool
	startPos    point
	lastPos     point
	startTime   time.Duration
	moved       bool
	tapCount    int
	lastTapTime time.Duration
	tapped      bool

	scrolling bool
	scrollRef float64

	gen  uint64
	hold deadline
	tap  deadline
}

// NewRecognizer returns a recognizer in the idle state. A nil clock uses the real clock.
func NewRecognizer(profile Profile, clock clockwork.Clock, emit func(protocol.Command)) *Recognizer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if emit == nil {
		emit = func(protocol.Command) {}
	}
	sens := profile.Sensitivity
	if !validSensitivity(sens) {
		sens = 1
	}
	return &Recognizer{
		clock:       clock,
		epoch:       clock.Now(),
		emit:        emit,
		profile:     profile,
		sensitivity: sens,
	}
}

// Now returns the recognizer clock as a sample timestamp.
func (r *Recognizer) Now() time.Duration {
	return r.clock.Since(r.epoch)
}

// Handle feeds one sample to the recognizer.
func (r *Recognizer) Handle(s RawSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if s.Surface == protocol.SurfaceScroll {
		r.handleScroll(s)
		return
	}
	switch s.Phase {
	case protocol.PhaseStart:
		r.dispatch(evStart, s)
	case protocol.PhaseMove:
		r.dispatch(evMove, s)
	case protocol.PhaseEnd:
		r.dispatch(evEnd, s)
	}
}

// dispatch runs the handler for ev in the current state, if any.
func (r *Recognizer) dispatch(ev event, s RawSample) {
	if h, ok := transitions[r.state][ev]; ok {
		h(r, s)
	}
}

// beginStroke starts a touchpad stroke and counts taps.
func (r *Recognizer) beginStroke(s RawSample) {
	interval := s.Time - r.lastTapTime
	repeated := r.tapped && interval < r.profile.TapInterval

	r.hold.cancel()
	if r.state == StateAwaitingTapConfirm {
		r.tap.cancel()
		r.state = StateIdle
		if !repeated {
			r.emit(protocol.Click(protocol.ButtonLeft, false))
			r.tapCount = 0
		}
	}

	pos := point{s.X, s.Y}
	r.active = true
	r.startPos = pos
	r.lastPos = pos
	r.startTime = s.Time
	r.moved = false
	if repeated {
		r.tapCount++
	} else {
		r.tapCount = 1
	}
	r.lastTapTime = s.Time
	r.tapped = true

	if r.state == StateDragging {
		return
	}
	r.state = StateActive
	r.arm(&r.hold, r.profile.HoldDelay, evHoldExpired)
}

// moveStroke emits pointer motion for the stroke.
func (r *Recognizer) moveStroke(s RawSample) {
	if !r.active {
		return
	}
	if math.Abs(s.X-r.startPos.x) > r.profile.MoveThreshold || math.Abs(s.Y-r.startPos.y) > r.profile.MoveThreshold {
		r.moved = true
	}
	dx := s.X - r.lastPos.x
	dy := s.Y - r.lastPos.y
	r.emit(protocol.MouseMove(dx*r.sensitivity, dy*r.sensitivity))
	r.lastPos = point{s.X, s.Y}
}

// endStroke decides between drag release, tap and plain movement.
func (r *Recognizer) endStroke(s RawSample) {
	r.hold.cancel()
	wasActive := r.active
	r.active = false
	duration := s.Time - r.startTime

	switch {
	case r.state == StateDragging:
		r.emit(protocol.ButtonUp(protocol.ButtonLeft))
		r.state = StateIdle
	case wasActive && !r.moved && duration < r.profile.TapMaxDuration:
		switch {
		case r.profile.ImmediateTap:
			r.emit(protocol.Click(protocol.ButtonLeft, false))
			r.state = StateIdle
		case r.tapCount >= 2:
			r.emit(protocol.Click(protocol.ButtonRight, false))
			r.tapCount = 0
			r.state = StateIdle
		default:
			r.state = StateAwaitingTapConfirm
			r.arm(&r.tap, r.profile.TapConfirm, evTapExpired)
		}
	default:
		r.state = StateIdle
	}
}

// holdExpired starts a drag after a stationary double-tap hold.
func (r *Recognizer) holdExpired(RawSample) {
	if !r.active || r.moved || r.tapCount != 2 {
		return
	}
	r.emit(protocol.ButtonDown(protocol.ButtonLeft))
	r.state = StateDragging
}

// confirmTap commits a pending single tap to a left click.
func (r *Recognizer) confirmTap(RawSample) {
	r.emit(protocol.Click(protocol.ButtonLeft, false))
	r.tapCount = 0
	r.state = StateIdle
}

// handleScroll converts scroll strip travel into discrete ticks.
func (r *Recognizer) handleScroll(s RawSample) {
	switch s.Phase {
	case protocol.PhaseStart:
		r.scrolling = true
		r.scrollRef = s.Y
	case protocol.PhaseMove:
		if !r.scrolling {
			r.scrolling = true
			r.scrollRef = s.Y
			return
		}
		delta := r.scrollRef - s.Y
		if math.Abs(delta) > r.profile.ScrollThreshold {
			ticks := r.profile.ScrollTicks
			if delta < 0 {
				ticks = -ticks
			}
			r.emit(protocol.Scroll(ticks))
			r.scrollRef = s.Y
		}
	case protocol.PhaseEnd:
		r.scrolling = false
	}
}

// ToggleDrag flips the explicit drag state, or forces it when enabled is
// non-nil. Pending deadlines are cancelled. It reports the resulting state.
func (r *Recognizer) ToggleDrag(enabled *bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	dragging := r.state == StateDragging
	if r.closed {
		return dragging
	}
	r.hold.cancel()
	if r.state == StateAwaitingTapConfirm {
		r.tap.cancel()
		r.tapCount = 0
		r.state = StateIdle
	}

	want := !dragging
	if enabled != nil {
		want = *enabled
	}
	if want == dragging {
		return dragging
	}
	if want {
		r.emit(protocol.ButtonDown(protocol.ButtonLeft))
		r.state = StateDragging
		return true
	}
	// A finger still down keeps moving the pointer, but its End must not
	// turn into a click.
	r.emit(protocol.ButtonUp(protocol.ButtonLeft))
	r.tapCount = 0
	if r.active {
		r.moved = true
		r.state = StateActive
		return false
	}
	r.state = StateIdle
	return false
}

// SetSensitivity changes the pointer multiplier for future moves.
func (r *Recognizer) SetSensitivity(v float64) error {
	if !validSensitivity(v) {
		return ErrInvalidSensitivity
	}
	r.mu.Lock()
	r.sensitivity = v
	r.mu.Unlock()
	return nil
}

// Sensitivity returns the pointer multiplier.
func (r *Recognizer) Sensitivity() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sensitivity
}

// SetProfile swaps thresholds without resetting stroke or drag state.
func (r *Recognizer) SetProfile(p Profile) {
	r.mu.Lock()
	r.profile = p
	r.mu.Unlock()
}

// Profile returns the active profile.
func (r *Recognizer) Profile() Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

// State returns the current machine state.
func (r *Recognizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dragging reports whether the recognizer holds the left button.
func (r *Recognizer) Dragging() bool {
	return r.State() == StateDragging
}

// Close cancels pending deadlines and releases an outstanding drag. It
// reports whether a release was emitted. Later samples are ignored.
func (r *Recognizer) Close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.closed = true
	r.hold.cancel()
	r.tap.cancel()
	released := false
	if r.state == StateDragging {
		r.emit(protocol.ButtonUp(protocol.ButtonLeft))
		released = true
	}
	r.state = StateIdle
	r.active = false
	return released
}

// arm schedules ev after d, replacing whatever d previously held.
func (r *Recognizer) arm(d *deadline, after time.Duration, ev event) {
	d.cancel()
	r.gen++
	gen := r.gen
	d.gen = gen
	d.timer = r.clock.AfterFunc(after, func() { r.fire(d, gen, ev) })
}

// fire runs a deadline event unless it was cancelled or re-armed.
func (r *Recognizer) fire(d *deadline, gen uint64, ev event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || d.gen != gen {
		return
	}
	d.timer = nil
	d.gen = 0
	r.dispatch(ev, RawSample{})
}

// cancel stops the timer and invalidates any in-flight firing.
func (d *deadline) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen = 0
}
