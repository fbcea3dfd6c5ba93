package providers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/api"
	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/ratelimit"
	"github.com/promptbox/promptbox/internal/service"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/web"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideTemplates provides the parsed page templates.
func ProvideTemplates(i do.Injector) (*web.TemplateSet, error) {
	return web.NewTemplateSet()
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Prompts:   do.MustInvoke[*service.PromptService](i),
		Store:     do.MustInvoke[*store.Store](i),
		Sessions:  do.MustInvoke[*auth.SessionService](i),
		Limiter:   do.MustInvoke[*ratelimit.KeyedRateLimiter](i),
		Templates: do.MustInvoke[*web.TemplateSet](i),
	}

	handler := api.NewServer(services, api.Options{
		Password:      cfg.Auth.Password,
		CookieSecure:  cfg.Auth.CookieSecure,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		CORSOrigins:   cfg.Server.CORSOrigins,
	}, log.Component("http"))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Bind before returning so a taken port fails startup.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "prompts", services.Store.Dir())

	return &HTTPServerHandle{Server: srv}, nil
}
