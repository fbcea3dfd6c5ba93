package api

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/promptbox/promptbox/internal/http/response"
)

// SessionCookieName is the cookie carrying the sealed session token.
const SessionCookieName = "promptbox_session"

// requireSession redirects anonymous page requests to the login form and
// refreshes the session cookie of authenticated ones.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticated(r) {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		if err := s.startSession(w); err != nil {
			s.logger.Warn("Failed to refresh session", "error", err)
		}

		next.ServeHTTP(w, r)
	})
}

// requireAPISession answers anonymous API requests with 401.
func (s *Server) requireAPISession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticated(r) {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticated reports whether r carries a valid session cookie.
func (s *Server) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = s.services.Sessions.Verify(cookie.Value)
	return err == nil
}

// startSession issues a fresh token and sets it as the session cookie.
func (s *Server) startSession(w http.ResponseWriter) error {
	token, expires, err := s.services.Sessions.Issue()
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(s.services.Sessions.Duration() / time.Second),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) endSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext returns next when it is a path on this site, "/" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

// clientIP returns the host part of RemoteAddr, which middleware.RealIP has
// already replaced with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
