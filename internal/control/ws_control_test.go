package control

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/padremote/internal/protocol"
	"github.com/frudas24/padremote/internal/session"
	"github.com/frudas24/padremote/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer starts a control server backed by a fake executor.
func newTestServer(t *testing.T, maxClients int) (*httptest.Server, *session.Manager, *testutil.FakeExecutor) {
	t.Helper()
	exec := &testutil.FakeExecutor{}
	manager := session.NewManager(session.ManagerOptions{Executor: exec, MaxClients: maxClients, Log: zerolog.Nop()})
	srv := httptest.NewServer(NewServer(manager, zerolog.Nop(), 0))
	t.Cleanup(srv.Close)
	return srv, manager, exec
}

// dial opens a websocket client against srv.
func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

// TestServer_MalformedKeepsConnection verifies bad frames are dropped without closing the socket.
func TestServer_MalformedKeepsConnection(t *testing.T) {
	srv, manager, exec := newTestServer(t, 0)
	conn := dial(t, srv)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"mouse_move","dx":"abc"}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"click","button":"right"}`)))

	require.Eventually(t, func() bool { return len(exec.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, exec.Count("Click", protocol.ButtonRight))
	assert.Equal(t, 1, manager.Len())
	snaps := manager.Snapshots()
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 2, snaps[0].Stats.Malformed)
	assert.Equal(t, Transport, snaps[0].Transport)
}

// TestServer_OversizedFrameKeepsConnection verifies a frame over the size limit is dropped alone.
func TestServer_OversizedFrameKeepsConnection(t *testing.T) {
	srv, manager, exec := newTestServer(t, 0)
	conn := dial(t, srv)
	defer conn.Close()

	huge := `{"type":"type","text":"` + strings.Repeat("a", maxFrameBytes) + `"}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(huge)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"type","text":"ok"}`)))

	require.Eventually(t, func() bool { return exec.Count("TypeText", "") == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "ok", exec.Calls()[0].Text)
	snaps := manager.Snapshots()
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 1, snaps[0].Stats.Malformed)
	assert.EqualValues(t, 2, snaps[0].Stats.Frames)
}

// TestServer_DisconnectReleasesDrag verifies dropping the socket mid-drag releases the button once.
func TestServer_DisconnectReleasesDrag(t *testing.T) {
	srv, manager, exec := newTestServer(t, 0)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"drag_toggle"}`)))
	require.Eventually(t, func() bool { return exec.Count("ButtonDown", protocol.ButtonLeft) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return manager.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, exec.Count("ButtonUp", protocol.ButtonLeft))
}

// TestServer_RejectsOverLimit verifies extra clients get a policy violation close.
func TestServer_RejectsOverLimit(t *testing.T) {
	srv, manager, _ := newTestServer(t, 1)
	first := dial(t, srv)
	defer first.Close()
	require.Eventually(t, func() bool { return manager.Len() == 1 }, time.Second, 5*time.Millisecond)

	second := dial(t, srv)
	defer second.Close()
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := second.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "got %v", err)
}

// TestServer_CloseEndsSessions verifies shutdown closes connections and sessions.
func TestServer_CloseEndsSessions(t *testing.T) {
	exec := &testutil.FakeExecutor{}
	manager := session.NewManager(session.ManagerOptions{Executor: exec, Log: zerolog.Nop()})
	server := NewServer(manager, zerolog.Nop(), 0)
	srv := httptest.NewServer(server)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return server.Len() == 1 }, time.Second, 5*time.Millisecond)

	server.Close()
	require.Eventually(t, func() bool { return manager.Len() == 0 && server.Len() == 0 }, time.Second, 5*time.Millisecond)
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
