package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-session-auth/auth"
	"github.com/jrsteele09/go-session-auth/internal/config"
	"github.com/jrsteele09/go-session-auth/reset"
	"github.com/jrsteele09/go-session-auth/sessions"
	"github.com/jrsteele09/go-session-auth/users"
)

// Server wires the authentication core to HTTP routes. Identity is resolved
// by explicit strategies - the session cookie first, then Basic credentials
// - injected at construction rather than inherited behavior.
type Server struct {
	env            string
	mux            *http.ServeMux
	handler        http.Handler
	routes         []string
	config         config.Config
	users          users.Store
	sessions       sessions.Store
	reset          *reset.Manager
	authenticators []auth.Authenticator
}

func New(cfg config.Config, userStore users.Store, sessionStore sessions.Store, resetManager *reset.Manager) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if userStore == nil {
		return nil, errors.New("[Server New] user store is required")
	}
	if sessionStore == nil {
		return nil, errors.New("[Server New] session store is required")
	}
	if resetManager == nil {
		return nil, errors.New("[Server New] reset manager is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		users:    userStore,
		sessions: sessionStore,
		reset:    resetManager,
		authenticators: []auth.Authenticator{
			auth.NewSession(userStore, sessionStore, cfg.GetSessionCookieName()),
			auth.NewBasic(userStore),
		},
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux,
		s.RecoverMiddleware,
		s.LoggingMiddleware,
		s.RequireAuthMiddleware,
	)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		log.Info().Str("route", route).Msg("registered")
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
