package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DeriveKey("test-secret")
	require.NoError(t, err)
	return key
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)

	tests := []struct {
		name       string
		configured string
		entered    string
		want       bool
	}{
		{"plain match", "hunter2", "hunter2", true},
		{"plain mismatch", "hunter2", "hunter3", false},
		{"prefix is not a match", "hunter2", "hunter", false},
		{"empty configured never matches", "", "", false},
		{"empty configured with input", "", "anything", false},
		{"empty input", "hunter2", "", false},
		{"hash match", hashed, "hunter2", true},
		{"hash mismatch", hashed, "hunter3", false},
		{"hash string itself is not the password", hashed, hashed, false},
		{"malformed hash", "$argon2id$garbage", "hunter2", false},
		{"overlong input", "hunter2", strings.Repeat("x", maxPasswordLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.configured, tt.entered))
		})
	}
}

func TestHashPassword(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		hashed, err := HashPassword("secret")
		require.NoError(t, err)
		assert.True(t, IsPasswordHash(hashed))
		assert.Len(t, strings.Split(hashed, "$"), 6)
	})

	t.Run("salted", func(t *testing.T) {
		a, err := HashPassword("secret")
		require.NoError(t, err)
		b, err := HashPassword("secret")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects empty and overlong", func(t *testing.T) {
		_, err := HashPassword("")
		assert.Error(t, err)
		_, err = HashPassword(strings.Repeat("x", maxPasswordLength+1))
		assert.Error(t, err)
	})
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey("one")
	require.NoError(t, err)
	assert.Len(t, a, keyLength)

	again, err := DeriveKey("one")
	require.NoError(t, err)
	assert.Equal(t, a, again)

	b, err := DeriveKey("two")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = DeriveKey("")
	assert.Error(t, err)
}

func TestLoadOrGenerateKey(t *testing.T) {
	t.Run("generates then reloads", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), "nested", KeyFileName)

		first, err := LoadOrGenerateKey(keyPath)
		require.NoError(t, err)
		assert.Len(t, first, keyLength)

		info, err := os.Stat(keyPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		second, err := LoadOrGenerateKey(keyPath)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("rejects bad length", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), KeyFileName)
		require.NoError(t, os.WriteFile(keyPath, []byte("abcd"), 0o600))

		_, err := LoadOrGenerateKey(keyPath)
		assert.Error(t, err)
	})

	t.Run("rejects non-hex", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), KeyFileName)
		require.NoError(t, os.WriteFile(keyPath, []byte(strings.Repeat("zz", keyLength)), 0o600))

		_, err := LoadOrGenerateKey(keyPath)
		assert.Error(t, err)
	})

	t.Run("accepts trailing newline", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), KeyFileName)
		want := make([]byte, keyLength)
		want[0] = 0xab
		require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString(want)+"\n"), 0o600))

		got, err := LoadOrGenerateKey(keyPath)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestResolveKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), KeyFileName)

	fromSecret, err := ResolveKey("configured", keyPath)
	require.NoError(t, err)
	assert.NoFileExists(t, keyPath)

	derived, err := DeriveKey("configured")
	require.NoError(t, err)
	assert.Equal(t, derived, fromSecret)

	_, err = ResolveKey("", keyPath)
	require.NoError(t, err)
	assert.FileExists(t, keyPath)
}

func TestSessionService(t *testing.T) {
	t.Run("issue and verify", func(t *testing.T) {
		svc, err := NewSessionService(testKey(t), time.Hour)
		require.NoError(t, err)

		token, expires, err := svc.Issue()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "v4.local."))
		assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.True(t, claims.Authenticated)
		assert.Equal(t, tokenIssuer, claims.Issuer)
		assert.True(t, strings.HasPrefix(claims.TokenID, "sess-"))
	})

	t.Run("default duration", func(t *testing.T) {
		svc, err := NewSessionService(testKey(t), 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultSessionDuration, svc.Duration())
	})

	t.Run("rejects short key", func(t *testing.T) {
		_, err := NewSessionService([]byte("short"), time.Hour)
		assert.Error(t, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		svc, err := NewSessionService(testKey(t), time.Hour)
		require.NoError(t, err)

		token, _, err := svc.Issue()
		require.NoError(t, err)

		pos := len("v4.local.") + 8
		replacement := byte('A')
		if token[pos] == 'A' {
			replacement = 'B'
		}
		tampered := token[:pos] + string(replacement) + token[pos+1:]

		_, err = svc.Verify(tampered)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("token from another key", func(t *testing.T) {
		issuer, err := NewSessionService(testKey(t), time.Hour)
		require.NoError(t, err)
		otherKey, err := DeriveKey("other-secret")
		require.NoError(t, err)
		verifier, err := NewSessionService(otherKey, time.Hour)
		require.NoError(t, err)

		token, _, err := issuer.Issue()
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, err := NewSessionService(testKey(t), time.Hour)
		require.NoError(t, err)
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, _, err := svc.Issue()
		require.NoError(t, err)

		svc.now = time.Now
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("empty and garbage tokens", func(t *testing.T) {
		svc, err := NewSessionService(testKey(t), time.Hour)
		require.NoError(t, err)

		for _, tok := range []string{"", "garbage", "v4.local.AAAA"} {
			_, err := svc.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidSession, "token %q", tok)
		}
	})
}
