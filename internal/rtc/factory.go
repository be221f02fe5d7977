// Package rtc builds WebRTC peer connections for the control data channel.
package rtc

import (
	"fmt"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
)

// ControlLabel is the data channel label that carries control frames.
const ControlLabel = "control"

// Options configures a Factory.
type Options struct {
	// STUNURLs are offered to peers as ICE servers; empty means host candidates only.
	STUNURLs []string
	// IncludeLoopback gathers 127.0.0.1 candidates, which lets same-host peers connect.
	IncludeLoopback bool
}

// Factory creates peer connections that share one API instance.
type Factory struct {
	api    *webrtc.API
	config webrtc.Configuration
}

// NewFactory initializes the WebRTC API with default codecs and interceptors.
func NewFactory(opts Options) (*Factory, error) {
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	settings := webrtc.SettingEngine{}
	settings.SetIncludeLoopbackCandidate(opts.IncludeLoopback)

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
		webrtc.WithSettingEngine(settings),
	)

	config := webrtc.Configuration{}
	if len(opts.STUNURLs) > 0 {
		config.ICEServers = []webrtc.ICEServer{{URLs: opts.STUNURLs}}
	}
	return &Factory{api: api, config: config}, nil
}

// NewPeer creates a new peer connection.
func (f *Factory) NewPeer() (*webrtc.PeerConnection, error) {
	peer, err := f.api.NewPeerConnection(f.config)
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	return peer, nil
}
