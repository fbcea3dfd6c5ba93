package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Memory      = 64 * 1024
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltLength  = 16
	argon2KeyLength   = 32

	// Longer submissions are rejected before any hashing.
	maxPasswordLength = 1024

	hashPrefix = "$argon2id$"
)

// CheckPassword reports whether entered matches the configured shared
// password. The configured value is either plain text, compared in constant
// time, or an argon2id hash produced by HashPassword.
//
// An empty configured password never matches, so an unconfigured instance
// stays locked.
func CheckPassword(configured, entered string) bool {
	if configured == "" || len(entered) > maxPasswordLength {
		return false
	}

	if IsPasswordHash(configured) {
		return verifyHash(configured, entered)
	}

	return subtle.ConstantTimeCompare([]byte(configured), []byte(entered)) == 1
}

// IsPasswordHash reports whether value looks like an encoded argon2id hash.
func IsPasswordHash(value string) bool {
	return strings.HasPrefix(value, hashPrefix)
}

// HashPassword encodes password as an argon2id hash suitable for
// APP_PASSWORD.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix,
		argon2.Version,
		argon2Memory,
		argon2Iterations,
		argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

type hashParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func verifyHash(encoded, entered string) bool {
	p, err := parseHash(encoded)
	if err != nil {
		return false
	}

	//nolint:gosec // key length comes from a decoded 32-byte hash
	got := argon2.IDKey([]byte(entered), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(p.key, got) == 1
}

// parseHash splits "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func parseHash(encoded string) (*hashParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, errors.New("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("incompatible version: %d", version)
	}

	p := &hashParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(p.key) == 0 {
		return nil, errors.New("empty hash")
	}

	return p, nil
}
