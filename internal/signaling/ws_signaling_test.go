package signaling

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/padremote/internal/protocol"
	"github.com/frudas24/padremote/internal/rtc"
	"github.com/frudas24/padremote/internal/session"
	"github.com/frudas24/padremote/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer_DataChannelSession verifies a negotiated control channel drives a session and closing it releases a drag.
func TestServer_DataChannelSession(t *testing.T) {
	factory, err := rtc.NewFactory(rtc.Options{IncludeLoopback: true})
	require.NoError(t, err)
	exec := &testutil.FakeExecutor{}
	manager := session.NewManager(session.ManagerOptions{Executor: exec, Log: zerolog.Nop()})
	srv := httptest.NewServer(NewServer(factory, manager, zerolog.Nop()))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	client, err := factory.NewPeer()
	require.NoError(t, err)
	defer client.Close()

	dc, err := client.CreateDataChannel(rtc.ControlLabel, nil)
	require.NoError(t, err)
	opened := make(chan struct{})
	dc.OnOpen(func() { close(opened) })

	offer, err := client.CreateOffer(nil)
	require.NoError(t, err)
	gathered := webrtc.GatheringCompletePromise(client)
	require.NoError(t, client.SetLocalDescription(offer))
	<-gathered
	require.NoError(t, ws.WriteJSON(Message{T: TypeOffer, SDP: client.LocalDescription().SDP}))

	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var msg Message
		require.NoError(t, ws.ReadJSON(&msg))
		if msg.T == TypeAnswer {
			require.NoError(t, client.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: msg.SDP}))
			break
		}
		require.NotEqual(t, TypeError, msg.T, msg.Error)
	}

	select {
	case <-opened:
	case <-time.After(10 * time.Second):
		t.Fatal("data channel did not open")
	}
	require.Eventually(t, func() bool { return manager.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, dc.SendText(`{"type":"mouse_move","dx":"abc"}`))
	require.NoError(t, dc.SendText(`{"type":"drag_toggle"}`))
	require.Eventually(t, func() bool { return exec.Count("ButtonDown", protocol.ButtonLeft) == 1 }, 5*time.Second, 10*time.Millisecond)

	snaps := manager.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, Transport, snaps[0].Transport)
	assert.EqualValues(t, 1, snaps[0].Stats.Malformed)

	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return manager.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, exec.Count("ButtonUp", protocol.ButtonLeft))
}

// TestServer_EmptyOfferReportsError verifies negotiation errors are reported to the client.
func TestServer_EmptyOfferReportsError(t *testing.T) {
	factory, err := rtc.NewFactory(rtc.Options{})
	require.NoError(t, err)
	manager := session.NewManager(session.ManagerOptions{Executor: &testutil.FakeExecutor{}, Log: zerolog.Nop()})
	srv := httptest.NewServer(NewServer(factory, manager, zerolog.Nop()))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(Message{T: TypeOffer}))
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, TypeError, msg.T)
	assert.Contains(t, msg.Error, "empty offer")
}
