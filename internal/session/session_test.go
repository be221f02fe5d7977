package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/padremote/internal/gesture"
	"github.com/frudas24/padremote/internal/input"
	"github.com/frudas24/padremote/internal/protocol"
	"github.com/frudas24/padremote/internal/testutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession returns a session on a fake executor and fake clock.
func newTestSession(t *testing.T) (*Session, *testutil.FakeExecutor, func(time.Duration)) {
	t.Helper()
	exec := &testutil.FakeExecutor{}
	clock := clockwork.NewFakeClock()
	s, err := New(Options{
		Remote:     "10.0.0.5:5555",
		Transport:  "websocket",
		Dispatcher: input.NewDispatcher(exec),
		Clock:      clock,
		Log:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return s, exec, clock.Advance
}

// send is a shorthand for HandleMessage on a formatted frame.
func send(s *Session, format string, args ...any) error {
	return s.HandleMessage([]byte(fmt.Sprintf(format, args...)))
}

// TestMalformedFrameNoCalls verifies a bad frame is dropped and the session keeps working.
func TestMalformedFrameNoCalls(t *testing.T) {
	s, exec, _ := newTestSession(t)
	err := send(s, `{"type":"mouse_move","dx":"abc"}`)
	assert.ErrorIs(t, err, protocol.ErrMalformed)
	assert.Empty(t, exec.Calls())

	require.NoError(t, send(s, `{"type":"mouse_move","dx":1,"dy":2}`))
	assert.Equal(t, []string{"MoveRelative"}, exec.Names())

	snap := s.Snapshot()
	assert.EqualValues(t, 2, snap.Stats.Frames)
	assert.EqualValues(t, 1, snap.Stats.Malformed)
	assert.EqualValues(t, 1, snap.Stats.Commands)
}

// TestUnsupportedKeyDropped verifies unknown key names make no executor call.
func TestUnsupportedKeyDropped(t *testing.T) {
	s, exec, _ := newTestSession(t)
	err := send(s, `{"type":"key","key":"hyper"}`)
	assert.ErrorIs(t, err, protocol.ErrUnsupported)
	assert.Empty(t, exec.Calls())
	assert.EqualValues(t, 1, s.Snapshot().Stats.Unsupported)
}

// TestExecutorFailureContinues verifies one failing command does not stop later ones.
func TestExecutorFailureContinues(t *testing.T) {
	s, exec, _ := newTestSession(t)
	exec.FailOn("PressKey", errors.New("boom"))

	err := send(s, `{"type":"key","key":"enter"}`)
	assert.ErrorIs(t, err, input.ErrExecutor)
	require.NoError(t, send(s, `{"type":"type","text":"ok"}`))

	assert.Equal(t, []string{"PressKey", "TypeText"}, exec.Names())
	assert.EqualValues(t, 1, s.Snapshot().Stats.Failures)
}

// TestTouchDrivesRecognizer verifies touch frames become pointer moves scaled by sensitivity.
func TestTouchDrivesRecognizer(t *testing.T) {
	s, exec, _ := newTestSession(t)
	require.NoError(t, send(s, `{"type":"touch","phase":"start","x":0,"y":0,"t":0}`))
	require.NoError(t, send(s, `{"type":"touch","phase":"move","x":10,"y":-4,"t":16}`))
	require.NoError(t, send(s, `{"type":"touch","phase":"end","x":10,"y":-4,"t":32}`))

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, testutil.Call{Name: "MoveRelative", DX: 20, DY: -8}, calls[0])
}

// TestDoubleTapWithoutTimestamps verifies host-stamped samples still recognize a double tap.
func TestDoubleTapWithoutTimestamps(t *testing.T) {
	s, exec, advance := newTestSession(t)
	for i := 0; i < 2; i++ {
		require.NoError(t, send(s, `{"type":"touch","phase":"start","x":5,"y":5}`))
		advance(30 * time.Millisecond)
		require.NoError(t, send(s, `{"type":"touch","phase":"end","x":5,"y":5}`))
		advance(50 * time.Millisecond)
	}
	assert.Equal(t, 1, exec.Count("Click", protocol.ButtonRight))
	assert.Zero(t, exec.Count("Click", protocol.ButtonLeft))
}

// TestSensitivityControl verifies sensitivity changes apply to later moves only.
func TestSensitivityControl(t *testing.T) {
	s, exec, _ := newTestSession(t)
	require.NoError(t, send(s, `{"type":"sensitivity","value":0.5}`))
	assert.ErrorIs(t, send(s, `{"type":"sensitivity","value":-1}`), protocol.ErrUnsupported)
	require.NoError(t, send(s, `{"type":"touch","phase":"start","x":0,"y":0,"t":0}`))
	require.NoError(t, send(s, `{"type":"touch","phase":"move","x":4,"y":4,"t":10}`))

	assert.Equal(t, 0.5, s.Snapshot().Sensitivity)
	assert.Equal(t, 2.0, exec.Calls()[0].DX)
}

// TestProfileControl verifies profile switches keep sensitivity and reject unknown names.
func TestProfileControl(t *testing.T) {
	s, exec, _ := newTestSession(t)
	require.NoError(t, send(s, `{"type":"sensitivity","value":3}`))
	require.NoError(t, send(s, `{"type":"profile","name":"immediate"}`))
	assert.ErrorIs(t, send(s, `{"type":"profile","name":"turbo"}`), protocol.ErrUnsupported)

	snap := s.Snapshot()
	assert.Equal(t, gesture.ProfileImmediate, snap.Profile)
	assert.Equal(t, 3.0, snap.Sensitivity)

	require.NoError(t, send(s, `{"type":"touch","phase":"start","x":0,"y":0,"t":0}`))
	require.NoError(t, send(s, `{"type":"touch","phase":"end","x":0,"y":0,"t":20}`))
	assert.Equal(t, 1, exec.Count("Click", protocol.ButtonLeft))
}

// TestCloseMidDragReleasesOnce verifies teardown during a drag sends exactly one left release.
func TestCloseMidDragReleasesOnce(t *testing.T) {
	s, exec, advance := newTestSession(t)
	require.NoError(t, send(s, `{"type":"touch","phase":"start","x":5,"y":5,"t":0}`))
	require.NoError(t, send(s, `{"type":"touch","phase":"end","x":5,"y":5,"t":30}`))
	require.NoError(t, send(s, `{"type":"touch","phase":"start","x":5,"y":5,"t":100}`))
	advance(200 * time.Millisecond)
	require.Eventually(t, func() bool { return exec.Count("ButtonDown", protocol.ButtonLeft) == 1 }, time.Second, 5*time.Millisecond)

	s.Close()
	s.Close()
	assert.Equal(t, 1, exec.Count("ButtonUp", protocol.ButtonLeft))
	assert.ErrorIs(t, send(s, `{"type":"click"}`), errClosed)
	assert.Equal(t, []string{"ButtonDown", "ButtonUp"}, exec.Names())
}

// TestCloseMidToggleDragReleasesOnce verifies an explicit drag is released on close.
func TestCloseMidToggleDragReleasesOnce(t *testing.T) {
	s, exec, _ := newTestSession(t)
	require.NoError(t, send(s, `{"type":"drag_toggle"}`))
	assert.True(t, s.Snapshot().Dragging)
	s.Close()
	assert.Equal(t, []string{"ButtonDown", "ButtonUp"}, exec.Names())
}

// TestCloseReleasesDirectButtons verifies buttons held by mousedown are released on close.
func TestCloseReleasesDirectButtons(t *testing.T) {
	s, exec, _ := newTestSession(t)
	require.NoError(t, send(s, `{"type":"mousedown","button":"right"}`))
	require.NoError(t, send(s, `{"type":"mousedown","button":"middle"}`))
	require.NoError(t, send(s, `{"type":"mouseup","button":"middle"}`))
	assert.Equal(t, []string{"right"}, s.Snapshot().Held)

	s.Close()
	assert.Equal(t, 1, exec.Count("ButtonUp", protocol.ButtonRight))
	assert.Equal(t, 1, exec.Count("ButtonUp", protocol.ButtonMiddle))
}

// TestCloseDirectAndGestureLeft verifies a left button held both ways is released once.
func TestCloseDirectAndGestureLeft(t *testing.T) {
	s, exec, _ := newTestSession(t)
	require.NoError(t, send(s, `{"type":"mousedown","button":"left"}`))
	require.NoError(t, send(s, `{"type":"drag_toggle","enabled":true}`))
	s.Close()
	assert.Equal(t, 1, exec.Count("ButtonUp", protocol.ButtonLeft))
}

// TestSessionsIndependent verifies two sessions keep separate gesture state.
func TestSessionsIndependent(t *testing.T) {
	exec := &testutil.FakeExecutor{}
	m := NewManager(ManagerOptions{Executor: exec, Clock: clockwork.NewFakeClock(), Log: zerolog.Nop()})
	a, err := m.Open("a", "websocket")
	require.NoError(t, err)
	b, err := m.Open("b", "websocket")
	require.NoError(t, err)

	require.NoError(t, send(a, `{"type":"drag_toggle"}`))
	assert.True(t, a.Snapshot().Dragging)
	assert.False(t, b.Snapshot().Dragging)

	var wg sync.WaitGroup
	for _, s := range []*Session{a, b} {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = send(s, `{"type":"mouse_move","dx":1,"dy":1}`)
			}
		}(s)
	}
	wg.Wait()
	assert.Equal(t, 100, exec.Count("MoveRelative", ""))
}
