// Package api provides the HTTP server: the HTML pages behind the password
// gate, the uploaded image files, and a read-only JSON API.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/http/response"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/ratelimit"
	"github.com/promptbox/promptbox/internal/service"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/web"
)

// apiPrefix is where the JSON API is mounted.
const apiPrefix = "/api/v1"

// DefaultMaxUploadSize caps request bodies when Options leaves it unset.
const DefaultMaxUploadSize = 16 << 20

// Services groups the dependencies the handlers call into.
type Services struct {
	Prompts   *service.PromptService
	Store     *store.Store
	Sessions  *auth.SessionService
	Limiter   *ratelimit.KeyedRateLimiter
	Templates *web.TemplateSet
}

// Options holds request handling settings.
type Options struct {
	// Password is the shared login password, plain or argon2id encoded.
	Password      string
	CookieSecure  bool
	MaxUploadSize int64
	CORSOrigins   []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	opts     Options
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		services: services,
		opts:     opts,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	// Public assets.
	s.router.Handle("/assets/*", web.StaticHandler("/assets/"))
	s.router.Handle("/static/uploads/*", uploadsHandler(s.services.Store.Images().Dir()))

	// Session endpoints (public).
	s.router.Get("/login", s.handleLoginPage)
	s.router.Post("/login", s.handleLogin)
	s.router.Get("/logout", s.handleLogout)

	// Pages (require session).
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleIndex)
		r.Post("/create", s.handleCreate)
		r.Post("/update", s.handleUpdate)
		r.Post("/delete", s.handleDelete)
	})

	// JSON API (require session). Mounted as a sub-router so CORS
	// preflights reach the middleware before routing.
	s.router.Route(apiPrefix, func(r chi.Router) {
		if len(s.opts.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.opts.CORSOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Use(s.requireAPISession)

		s.api = humachi.New(r, newHumaConfig())
		RegisterErrorHandler()
		s.registerPromptRoutes()
	})
}

func newHumaConfig() huma.Config {
	config := huma.DefaultConfig("Promptbox API", "1.0.0")
	config.Servers = []*huma.Server{{URL: apiPrefix}}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"session": {
			Type: "apiKey",
			In:   "cookie",
			Name: SessionCookieName,
		},
	}
	return config
}

// handleHealthCheck reports whether the prompt directory is reachable.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := s.services.Store.Ping(r.Context()); err != nil {
		s.logger.Error("Health check failed", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		}, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"status":  "healthy",
		"latency": time.Since(start).String(),
	}, s.logger)
}

// uploadsHandler serves stored images without directory listings.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
