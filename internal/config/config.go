// Package config loads application configuration from command-line flags,
// environment variables and a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds the on-disk locations.
type StorageConfig struct {
	BasePath    string
	PromptsPath string // default: {base}/prompts
	UploadsPath string // default: {base}/static/uploads
	KeyPath     string // {base}/session.key, used when no secret is set
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxUploadSize int64
	CORSOrigins   []string
	// AdvertiseMDNS announces the server on the local network.
	AdvertiseMDNS bool
	MDNSName      string
}

// AuthConfig holds the shared-password gate configuration.
type AuthConfig struct {
	// SecretKey seeds the session key. Empty means a key file is used.
	SecretKey string
	// Password is the shared login password, plain or argon2id encoded.
	// Empty disables login.
	Password           string
	SessionDuration    time.Duration
	CookieSecure       bool
	LoginRatePerMinute int
}

// Defaults.
const (
	DefaultPort          = "8080"
	DefaultMaxUploadSize = 16 << 20
	DefaultLoginRate     = 10
	keyFileName          = "session.key"
)

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("promptbox", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	basePath := fs.String("base-path", "", "Base directory for prompts, uploads and the session key")
	promptsPath := fs.String("prompts-path", "", "Prompt directory (default: {base}/prompts)")
	uploadsPath := fs.String("uploads-path", "", "Upload directory (default: {base}/static/uploads)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	maxUpload := fs.String("max-upload-size", "", "Maximum request body for create/update in bytes (default: 16MiB)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated origins allowed to call /api")
	advertiseMDNS := fs.String("advertise-mdns", "", "Announce the server via mDNS (default: false)")
	mdnsName := fs.String("mdns-name", "", "Instance name announced via mDNS (default: Promptbox)")

	sessionDuration := fs.String("session-duration", "", "Session lifetime (default: 720h)")
	cookieSecure := fs.String("cookie-secure", "", "Mark the session cookie Secure (default: false)")
	loginRate := fs.String("login-rate", "", "Login attempts per minute per client (default: 10)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Variables already in the environment win over the file.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			BasePath:    getConfigValue(*basePath, "BASE_PATH", ""),
			PromptsPath: getConfigValue(*promptsPath, "PROMPTS_PATH", ""),
			UploadsPath: getConfigValue(*uploadsPath, "UPLOADS_PATH", ""),
		},
		Server: ServerConfig{
			Port:          getConfigValue(*serverPort, "SERVER_PORT", DefaultPort),
			CORSOrigins:   splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
			AdvertiseMDNS: getBoolConfigValue(*advertiseMDNS, "ADVERTISE_MDNS", false),
			MDNSName:      getConfigValue(*mdnsName, "MDNS_NAME", "Promptbox"),
		},
		Auth: AuthConfig{
			SecretKey:    os.Getenv("SECRET_KEY"),
			Password:     os.Getenv("APP_PASSWORD"),
			CookieSecure: getBoolConfigValue(*cookieSecure, "COOKIE_SECURE", false),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Auth.SessionDuration, err = getDurationConfigValue(*sessionDuration, "SESSION_DURATION", "720h"); err != nil {
		return nil, err
	}

	maxUploadStr := getConfigValue(*maxUpload, "MAX_UPLOAD_SIZE", strconv.Itoa(DefaultMaxUploadSize))
	if cfg.Server.MaxUploadSize, err = strconv.ParseInt(maxUploadStr, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid max upload size %q: %w", maxUploadStr, err)
	}

	loginRateStr := getConfigValue(*loginRate, "LOGIN_RATE_PER_MINUTE", strconv.Itoa(DefaultLoginRate))
	if cfg.Auth.LoginRatePerMinute, err = strconv.Atoi(loginRateStr); err != nil {
		return nil, fmt.Errorf("invalid login rate %q: %w", loginRateStr, err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.PromptsPath == "" || c.Storage.UploadsPath == "" {
		return errors.New("prompt and upload paths cannot be empty after expansion")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %q", c.Server.Port)
	}

	if c.Server.AdvertiseMDNS && strings.TrimSpace(c.Server.MDNSName) == "" {
		return errors.New("mDNS name cannot be empty when advertising")
	}
	if c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.Server.MaxUploadSize)
	}
	if c.Auth.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive, got %s", c.Auth.SessionDuration)
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("login rate must be positive, got %d", c.Auth.LoginRatePerMinute)
	}

	// An empty APP_PASSWORD is allowed: the gate stays locked.
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// PortNumber returns the validated port as an int.
func (c *Config) PortNumber() int {
	port, _ := strconv.Atoi(c.Server.Port)
	return port
}

// expandPaths resolves the base path (default: working directory) and
// derives the prompt, upload and key locations from it.
func (c *Config) expandPaths() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if c.Storage.BasePath, err = expandPath(c.Storage.BasePath, cwd); err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}

	base := c.Storage.BasePath
	if c.Storage.PromptsPath, err = expandPath(c.Storage.PromptsPath, filepath.Join(base, "prompts")); err != nil {
		return fmt.Errorf("invalid prompts path: %w", err)
	}
	if c.Storage.UploadsPath, err = expandPath(c.Storage.UploadsPath, filepath.Join(base, "static", "uploads")); err != nil {
		return fmt.Errorf("invalid uploads path: %w", err)
	}
	c.Storage.KeyPath = filepath.Join(base, keyFileName)

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned as-is.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), s, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for piece := range strings.SplitSeq(value, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
