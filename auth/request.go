package auth

import "net/http"

// Request is the narrow slice of an incoming request the authentication
// layer reads: a case-insensitive header lookup and a named cookie lookup.
// An adapter for any web framework only has to satisfy these two accessors;
// the core never constructs responses.
type Request interface {
	Header(name string) string
	Cookie(name string) (string, bool)
}

type httpRequest struct {
	r *http.Request
}

// FromHTTP adapts a net/http request to the Request interface.
func FromHTTP(r *http.Request) Request {
	return httpRequest{r: r}
}

func (h httpRequest) Header(name string) string {
	if h.r == nil {
		return ""
	}
	return h.r.Header.Get(name)
}

func (h httpRequest) Cookie(name string) (string, bool) {
	if h.r == nil {
		return "", false
	}
	cookie, err := h.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
