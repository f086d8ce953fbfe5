package server

import "net/http"

// SetSessionCookie sets the configured session cookie. MaxAge follows the
// session duration so the browser drops the cookie around the time the
// server stops resolving it; zero duration yields a session cookie.
func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionDuration().Seconds()),
	})
}

// ClearSessionCookie expires the session cookie on the client.
func (s *Server) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
