package input

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frudas24/padremote/internal/protocol"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestDispatch_MapsEveryCommand verifies each command reaches exactly one executor call.
func TestDispatch_MapsEveryCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := NewMockExecutor(ctrl)
	d := NewDispatcher(exec)

	gomock.InOrder(
		exec.EXPECT().MoveRelative(3.0, -1.5).Return(nil),
		exec.EXPECT().Click(protocol.ButtonLeft, 1).Return(nil),
		exec.EXPECT().Click(protocol.ButtonRight, 2).Return(nil),
		exec.EXPECT().ButtonDown(protocol.ButtonMiddle).Return(nil),
		exec.EXPECT().ButtonUp(protocol.ButtonMiddle).Return(nil),
		exec.EXPECT().Scroll(-3).Return(nil),
		exec.EXPECT().PressKey("escape").Return(nil),
		exec.EXPECT().PressCombo([]string{"alt", "tab"}).Return(nil),
		exec.EXPECT().TypeText("hello").Return(nil),
	)

	for _, cmd := range []protocol.Command{
		protocol.MouseMove(3, -1.5),
		protocol.Click(protocol.ButtonLeft, false),
		protocol.Click(protocol.ButtonRight, true),
		protocol.ButtonDown(protocol.ButtonMiddle),
		protocol.ButtonUp(protocol.ButtonMiddle),
		protocol.Scroll(-3),
		protocol.Key("escape"),
		protocol.Combo("alt", "tab"),
		protocol.TypeText("hello"),
	} {
		require.NoError(t, d.Dispatch(cmd), cmd.String())
	}
}

// TestDispatch_WrapsExecutorErrors verifies failures are tagged as executor failures.
func TestDispatch_WrapsExecutorErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := NewMockExecutor(ctrl)
	cause := errors.New("device gone")
	exec.EXPECT().PressKey("f5").Return(cause)

	err := NewDispatcher(exec).Dispatch(protocol.Key("f5"))
	assert.ErrorIs(t, err, ErrExecutor)
	assert.ErrorIs(t, err, cause)
}

// TestDispatch_UnknownType verifies an unknown command makes no call.
func TestDispatch_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := NewMockExecutor(ctrl)

	err := NewDispatcher(exec).Dispatch(protocol.Command{Type: "teleport"})
	assert.ErrorIs(t, err, protocol.ErrUnsupported)
	assert.NotErrorIs(t, err, ErrExecutor)
}

// overlapExecutor fails the test if two calls run at the same time.
type overlapExecutor struct {
	LogExecutor
	busy    atomic.Int32
	overlap atomic.Bool
	calls   atomic.Int32
}

// ButtonDown simulates a slow injection.
func (o *overlapExecutor) ButtonDown(protocol.Button) error {
	if o.busy.Add(1) > 1 {
		o.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	o.busy.Add(-1)
	o.calls.Add(1)
	return nil
}

// TestSerialize_NoInterleaving verifies concurrent callers are serialized.
func TestSerialize_NoInterleaving(t *testing.T) {
	inner := &overlapExecutor{LogExecutor: *NewLogExecutor(zerolog.Nop())}
	s := Serialize(inner)
	assert.Same(t, s, Serialize(s))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_ = s.ButtonDown(protocol.ButtonLeft)
			}
		}()
	}
	wg.Wait()
	assert.False(t, inner.overlap.Load())
	assert.EqualValues(t, 40, inner.calls.Load())
}

// TestOpen_LogKind verifies the log executor is selected and logs calls.
func TestOpen_LogKind(t *testing.T) {
	var buf bytes.Buffer
	dev, err := Open(KindLog, zerolog.New(&buf))
	require.NoError(t, err)
	defer dev.Close()

	require.NoError(t, dev.Click(protocol.ButtonLeft, 2))
	require.NoError(t, dev.TypeText("secret"))
	assert.Contains(t, buf.String(), `"count":2`)
	assert.NotContains(t, buf.String(), "secret")
}

// TestOpen_UnknownKind verifies bad executor names are rejected.
func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open("xdotool", zerolog.Nop())
	assert.Error(t, err)
}

// TestEvdevKey verifies key names resolve to evdev codes.
func TestEvdevKey(t *testing.T) {
	for _, name := range protocol.KeyNames() {
		_, ok := evdevKey(name)
		assert.True(t, ok, name)
	}
	code, ok := evdevKey("a")
	assert.True(t, ok)
	assert.EqualValues(t, 30, code)
	code, ok = evdevKey("0")
	assert.True(t, ok)
	assert.EqualValues(t, 11, code)
	_, ok = evdevKey("hyper")
	assert.False(t, ok)
}

// TestRuneStroke verifies shifted characters add the shift key.
func TestRuneStroke(t *testing.T) {
	codes, ok := runeStroke('A')
	require.True(t, ok)
	assert.Equal(t, []uint32{keyLeftShift, 30}, codes)

	codes, ok = runeStroke('?')
	require.True(t, ok)
	assert.Equal(t, []uint32{keyLeftShift, 53}, codes)

	codes, ok = runeStroke(' ')
	require.True(t, ok)
	assert.Equal(t, []uint32{keySpace}, codes)

	_, ok = runeStroke('é')
	assert.False(t, ok)
}
