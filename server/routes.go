package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.WelcomeHandler())
	s.RegisterRouteFunc("GET /api/v1/status", s.StatusHandler())

	// Registration
	s.RegisterRouteFunc("POST /users", s.RegisterHandler())

	// Login / logout
	s.RegisterRouteFunc("POST /sessions", s.LoginHandler())
	s.RegisterRouteFunc("DELETE /sessions", s.LogoutHandler())

	// Requires authentication (not in the exclusion list)
	s.RegisterRouteFunc("GET /profile", s.ProfileHandler())

	// Password reset flow
	s.RegisterRouteFunc("POST /reset_password", s.ResetTokenHandler())
	s.RegisterRouteFunc("PUT /reset_password", s.UpdatePasswordHandler())
}
