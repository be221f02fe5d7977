// Package app wires the session manager, transports, and HTTP routes together.
package app

import (
	"errors"
	"fmt"

	"github.com/frudas24/padremote/internal/config"
	"github.com/frudas24/padremote/internal/control"
	"github.com/frudas24/padremote/internal/input"
	"github.com/frudas24/padremote/internal/rtc"
	"github.com/frudas24/padremote/internal/session"
	"github.com/frudas24/padremote/internal/signaling"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// App coordinates the HTTP API and websocket servers around one executor.
type App struct {
	cfg       config.Config
	log       zerolog.Logger
	manager   *session.Manager
	control   *control.Server
	signaling *signaling.Server
}

// Options carries the optional collaborators of New.
type Options struct {
	// Clock drives gesture deadlines; nil means the real clock.
	Clock clockwork.Clock
	// IncludeLoopback lets same-host WebRTC peers connect.
	IncludeLoopback bool
}

// New creates an application with its dependencies wired. Signaling is only
// set up when WebRTC is enabled in cfg.
func New(cfg config.Config, exec input.Executor, log zerolog.Logger, opts Options) (*App, error) {
	if exec == nil {
		return nil, errors.New("executor is required")
	}
	if _, ok := cfg.Profiles[cfg.GestureProfile]; !ok {
		return nil, fmt.Errorf("gesture profile %q is not defined", cfg.GestureProfile)
	}

	a := &App{cfg: cfg, log: log}
	a.manager = session.NewManager(session.ManagerOptions{
		Executor:    exec,
		Profiles:    cfg.Profiles,
		Profile:     cfg.GestureProfile,
		Sensitivity: cfg.Sensitivity,
		MaxClients:  cfg.MaxClients,
		Clock:       opts.Clock,
		Log:         log,
	})
	a.control = control.NewServer(a.manager, log, cfg.PingInterval)

	if cfg.WebRTCEnabled {
		factory, err := rtc.NewFactory(rtc.Options{
			STUNURLs:        cfg.STUNURLs,
			IncludeLoopback: opts.IncludeLoopback,
		})
		if err != nil {
			return nil, fmt.Errorf("webrtc: %w", err)
		}
		a.signaling = signaling.NewServer(factory, a.manager, log)
	}
	return a, nil
}

// Manager returns the session manager.
func (a *App) Manager() *session.Manager {
	return a.manager
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// Signaling returns the signaling websocket handler, or nil when WebRTC is disabled.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Shutdown disconnects every client and releases held input.
func (a *App) Shutdown() {
	a.control.Close()
	a.manager.CloseAll()
	a.log.Info().Msg("app: sessions closed")
}
