// Package di provides dependency injection configuration for the Promptbox server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/di/providers"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/markdown"
	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/ratelimit"
	"github.com/promptbox/promptbox/internal/service"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/validation"
	"github.com/promptbox/promptbox/internal/web"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideRenderer)
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideSessionKey)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvidePromptService)

	// Server
	do.Provide(injector, providers.ProvideTemplates)
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services.
// This triggers lazy initialization of everything the server needs.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	steps := []func() error{
		invoke[*images.Storage](injector),
		invoke[*markdown.Renderer](injector),
		invoke[*store.Store](injector),
		invoke[providers.SessionKey](injector),
		invoke[*auth.SessionService](injector),
		invoke[*ratelimit.KeyedRateLimiter](injector),
		invoke[*validation.Validator](injector),
		invoke[*service.PromptService](injector),
		invoke[*web.TemplateSet](injector),
		invoke[*providers.HTTPServerHandle](injector),
		invoke[*providers.MDNSServiceHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
