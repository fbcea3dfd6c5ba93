package api

import (
	"net/http"

	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/web"
)

// handleLoginPage shows the sign-in form, or sends an existing session home.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.authenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	s.renderLogin(w, r, http.StatusOK, web.LoginPage{Next: r.URL.Query().Get("next")})
}

// handleLogin checks the shared password and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	next := r.PostFormValue("next")

	ip := clientIP(r)
	if s.services.Limiter != nil && !s.services.Limiter.Allow(ip) {
		s.logger.Warn("Login rate limit exceeded", "ip", ip)
		s.renderLogin(w, r, http.StatusTooManyRequests, web.LoginPage{Error: web.RateLimitedMessage, Next: next})
		return
	}

	if !auth.CheckPassword(s.opts.Password, r.PostFormValue("password")) {
		s.logger.Info("Login failed", "ip", ip)
		s.renderLogin(w, r, http.StatusOK, web.LoginPage{Error: web.LoginFailedMessage, Next: next})
		return
	}

	if err := s.startSession(w); err != nil {
		s.logger.Error("Failed to issue session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("Login succeeded", "ip", ip)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, page web.LoginPage) {
	if err := s.services.Templates.Render(w, status, web.LoginView, web.ViewData{Data: page}); err != nil {
		s.logger.Error("Failed to render login page", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
