package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/promptbox/promptbox/internal/id"
)

const (
	tokenIssuer   = "promptbox"
	tokenAudience = "promptbox-web"

	claimAuthenticated = "authenticated"

	// DefaultSessionDuration is the sliding lifetime of a session cookie.
	DefaultSessionDuration = 30 * 24 * time.Hour
)

// ErrInvalidSession is returned for tokens that fail decryption or claim
// checks, or that do not carry the authenticated flag.
var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the decrypted content of a session token.
type SessionClaims struct {
	Authenticated bool `json:"authenticated"`

	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// SessionService seals and opens PASETO v4.local session tokens. The token
// is the whole session: there is no server-side store.
type SessionService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
	now      func() time.Time
}

// NewSessionService creates a session service from a 32-byte key.
func NewSessionService(keyBytes []byte, duration time.Duration) (*SessionService, error) {
	if len(keyBytes) != keyLength {
		return nil, fmt.Errorf("session key must be exactly %d bytes, got %d", keyLength, len(keyBytes))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	return &SessionService{
		key:      key,
		duration: duration,
		now:      time.Now,
	}, nil
}

// Duration returns the session lifetime.
func (s *SessionService) Duration() time.Duration {
	return s.duration
}

// Issue creates a token marking its holder as authenticated.
func (s *SessionService) Issue() (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.duration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)

	tokenID, err := id.Generate("sess")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate session ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on values that cannot be marshaled
	_ = token.Set(claimAuthenticated, true)

	return token.V4Encrypt(s.key, nil), expires, nil
}

// Verify decrypts a token and checks its claims.
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if !claims.Authenticated {
		return nil, ErrInvalidSession
	}

	return &claims, nil
}
