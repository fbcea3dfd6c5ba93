// Package id generates identifiers for sessions and stored assets.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "sess-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Hex returns 32 random lowercase hex characters (a v4 UUID without dashes).
// Used to keep uploaded asset names unique and unguessable.
func Hex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
