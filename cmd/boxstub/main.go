// Command boxstub runs the in-memory stub backend so the client can be
// exercised without the real server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/config"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
	"github.com/mysterybox-game/boxctl/internal/stubserver"
	"github.com/mysterybox-game/boxctl/pkg/logger"
)

func main() {
	cfg := config.LoadStub()
	log := logger.Init(logger.Options{Level: cfg.LogLevel})

	e, state, err := stubserver.New(stubserver.Options{
		JWTSecret:     cfg.JWTSecret,
		BoxCount:      cfg.BoxCount,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build stub server")
	}

	// A couple of ready-made players so a fresh stub is playable immediately.
	seed(state, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("stub server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Int("boxes", cfg.BoxCount).Msg("stub backend listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func seed(state *stubserver.State, log zerolog.Logger) {
	players := []ports.CreateUserInput{
		{Username: "alice", Password: "alice123", Email: "alice@example.com", Credits: 2},
		{Username: "bob", Password: "bob123", Email: "bob@example.com", Credits: 3},
	}
	for _, p := range players {
		if _, err := state.CreateUser(p); err != nil {
			log.Warn().Err(err).Str("username", p.Username).Msg("seed user skipped")
		}
	}
}
