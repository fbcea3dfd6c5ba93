// Package providers contains dependency injection providers for the Promptbox server.
package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig(os.Args[1:])
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Promptbox",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"prompts_path", cfg.Storage.PromptsPath,
		"uploads_path", cfg.Storage.UploadsPath,
	)

	if cfg.Auth.Password == "" {
		log.Warn("APP_PASSWORD is not set, every login attempt will be refused")
	}

	return log, nil
}
