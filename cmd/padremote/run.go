package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/frudas24/padremote/internal/app"
	"github.com/frudas24/padremote/internal/config"
	"github.com/frudas24/padremote/internal/input"
	"github.com/frudas24/padremote/internal/netinfo"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// run wires the application and blocks until shutdown.
func run(ctx context.Context, f *flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.listen != "" {
		cfg.ListenAddr = f.listen
	}
	if f.dryRun {
		cfg.Executor = input.KindLog
	}
	logStartup(cfg)

	exec, err := input.Open(cfg.Executor, log.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := exec.Close(); err != nil {
			log.Warn().Err(err).Msg("input: close failed")
		}
	}()

	appInstance, err := app.New(cfg, exec, log.Logger, app.Options{})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()
	printBanner(cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	appInstance.Shutdown()
	return server.Shutdown(shutdownCtx)
}

// logStartup reports the resolved configuration.
func logStartup(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	_, envErr := os.Stat(envPath)
	log.Info().
		Str("listen", cfg.ListenAddr).
		Str("executor", cfg.Executor).
		Str("profile", cfg.GestureProfile).
		Int("max_clients", cfg.MaxClients).
		Bool("webrtc", cfg.WebRTCEnabled).
		Str("env_file", envPath).
		Bool("env_file_found", envErr == nil).
		Msg("padremote starting")
}

// printBanner shows the page URL, and a QR code for it when enabled.
func printBanner(cfg config.Config) {
	url, err := netinfo.PageURL(cfg.ListenAddr, netinfo.LocalIP())
	if err != nil {
		log.Warn().Err(err).Msg("cannot derive page url")
		return
	}
	log.Info().Str("url", url).Msg("open this address on your phone")
	if !cfg.ShowQR {
		return
	}
	code, err := netinfo.QR(url)
	if err != nil {
		log.Warn().Err(err).Msg("qr code unavailable")
		return
	}
	fmt.Fprintln(os.Stderr, code)
}
