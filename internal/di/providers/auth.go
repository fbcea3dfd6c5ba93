package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/ratelimit"
)

// SessionKey wraps the session sealing key bytes.
type SessionKey []byte

// ProvideSessionKey derives the key from SECRET_KEY, or loads or generates
// the key file.
func ProvideSessionKey(i do.Injector) (SessionKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.ResolveKey(cfg.Auth.SecretKey, cfg.Storage.KeyPath)
	if err != nil {
		return nil, err
	}

	source := "secret"
	if cfg.Auth.SecretKey == "" {
		source = cfg.Storage.KeyPath
	}
	log.Info("Session key loaded",
		"source", source,
		"session_duration", cfg.Auth.SessionDuration,
	)

	return SessionKey(key), nil
}

// ProvideSessionService provides the PASETO session service.
func ProvideSessionService(i do.Injector) (*auth.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[SessionKey](i)

	return auth.NewSessionService([]byte(key), cfg.Auth.SessionDuration)
}

// ProvideLoginLimiter provides the per-client login rate limiter.
// The limiter implements do.ShutdownerWithError, stopping its sweeper.
func ProvideLoginLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.PerMinute(cfg.Auth.LoginRatePerMinute), nil
}
