package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-session-auth/internal/config"
	"github.com/jrsteele09/go-session-auth/reset"
	"github.com/jrsteele09/go-session-auth/server"
	"github.com/jrsteele09/go-session-auth/sessions"
	"github.com/jrsteele09/go-session-auth/sessions/memrepo"
	"github.com/jrsteele09/go-session-auth/users"
	"github.com/jrsteele09/go-session-auth/users/memstore"
	"github.com/jrsteele09/go-session-auth/users/pgstore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	userStore, sessionStore, closeStores, err := buildStores(c)
	if err != nil {
		return fmt.Errorf("buildStores: %w", err)
	}
	defer closeStores()

	resetManager, err := reset.NewManager(userStore, resetSecret(c), reset.WithValidity(c.GetResetTokenValidity()))
	if err != nil {
		return fmt.Errorf("reset.NewManager: %w", err)
	}

	handler, err := server.New(c, userStore, sessionStore, resetManager)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildStores picks the persistence layer from configuration: a PostgreSQL
// user table with user-column sessions when a DSN is set, otherwise
// in-memory stores with TTL sessions.
func buildStores(c config.Config) (users.Store, sessions.Store, func(), error) {
	if dsn := c.GetDatabaseDSN(); dsn != "" {
		store, err := pgstore.Open(dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := store.RunMigrations(context.Background()); err != nil {
			return nil, nil, nil, err
		}
		sessionStore, err := sessions.NewUserStore(store)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Msg("using PostgreSQL user store with persisted sessions")
		return store, sessionStore, func() { _ = store.Close() }, nil
	}

	store := memstore.New()
	manager, err := sessions.NewManager(memrepo.New(), sessions.WithTTL(c.GetSessionDuration()))
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info().Dur("ttl", c.GetSessionDuration()).Msg("using in-memory stores")
	return store, manager, func() {}, nil
}

// resetSecret returns the configured reset-token signing secret, generating
// an ephemeral one when unset. Ephemeral secrets invalidate outstanding
// reset tokens on restart.
func resetSecret(c config.Config) []byte {
	if secret := c.GetResetTokenSecret(); secret != "" {
		return []byte(secret)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal().Err(err).Msg("failed to generate reset token secret")
	}
	log.Warn().Msg("RESET_TOKEN_SECRET unset; reset tokens will not survive a restart")
	return secret
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
