package app

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/frudas24/padremote/internal/gesture"
	"github.com/frudas24/padremote/internal/web"
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/sessions", a.handleSessions)
	mux.Handle("/ws/control", a.Control())
	if sig := a.Signaling(); sig != nil {
		mux.Handle("/ws/signal", sig)
	}
	mux.HandleFunc("/favicon.ico", handleFavicon)

	mux.Handle("/", a.staticFileServer(staticDir))
}

type stateResponse struct {
	Profile     string   `json:"profile"`
	Profiles    []string `json:"profiles"`
	Sensitivity float64  `json:"sensitivity"`
	WebRTC      bool     `json:"webrtc"`
	MaxClients  int      `json:"maxClients"`
	Sessions    int      `json:"sessions"`
}

// handleState returns the configuration summary the client needs on load.
func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sensitivity := a.cfg.Sensitivity
	if sensitivity <= 0 {
		sensitivity = a.cfg.Profiles[a.cfg.GestureProfile].Sensitivity
	}
	writeJSON(w, stateResponse{
		Profile:     a.cfg.GestureProfile,
		Profiles:    gesture.Names(a.cfg.Profiles),
		Sensitivity: sensitivity,
		WebRTC:      a.signaling != nil,
		MaxClients:  a.cfg.MaxClients,
		Sessions:    a.manager.Len(),
	})
}

// handleSessions lists live sessions, oldest first.
func (a *App) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, a.manager.Snapshots())
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func (a *App) staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		a.log.Error().Err(err).Msg("app: static assets unavailable")
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
