// Package images manages the upload directory that holds prompt images.
package images

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
	"github.com/promptbox/promptbox/internal/domain"
	"github.com/promptbox/promptbox/internal/id"
)

// AllowedExtensions lists the accepted image extensions (lowercase, no dot).
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
	"svg":  true,
}

// Matches characters that are not safe in a stored file name.
var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Storage manages image filesystem operations.
// Thread-safe for concurrent operations.
type Storage struct {
	dir string
	mu  sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at dir, creating it if needed.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Storage{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Storage) Dir() string {
	return s.dir
}

// IsAllowed reports whether filename has an allowed image extension.
// The check is case-insensitive and looks at the text after the last dot.
func IsAllowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return AllowedExtensions[strings.ToLower(filename[idx+1:])]
}

// SanitizeFilename reduces an uploaded file name to a safe ASCII form:
// unicode is decomposed and non-ASCII dropped, path separators become
// spaces, whitespace runs become underscores, anything outside
// [A-Za-z0-9_.-] is removed, and leading/trailing dots and underscores are
// trimmed. The result may be empty.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, name)

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameRe.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// Save stores an uploaded image as "<slug>-<hex><ext>" and returns its
// reference ("uploads/<stored name>"). The original name must carry an
// allowed extension.
func (s *Storage) Save(slug, originalName string, r io.Reader) (string, error) {
	if !IsAllowed(originalName) {
		return "", domainerrors.InvalidImagef("image type not allowed: %q", originalName)
	}

	ext := strings.ToLower(filepath.Ext(SanitizeFilename(originalName)))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(originalName))
	}

	stored := slug + "-" + id.Hex() + ext

	s.mu.Lock()
	defer s.mu.Unlock()

	dst := filepath.Join(s.dir, stored)
	//#nosec G304 -- stored name is built from a slug and random hex
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return domain.ImagePrefix + stored, nil
}

// Delete removes the image a reference points at.
// References that are empty or not rooted under "uploads/" are ignored, so a
// crafted reference can never reach outside the upload directory. An image
// that is already gone is not an error.
func (s *Storage) Delete(ref string) error {
	p, ok := s.Path(ref)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Exists checks if the image behind a reference is present.
func (s *Storage) Exists(ref string) bool {
	p, ok := s.Path(ref)
	if !ok {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(p)
	return err == nil
}

// Path resolves a reference to a file inside the upload directory.
// Only the base name of the reference is used.
func (s *Storage) Path(ref string) (string, bool) {
	if !strings.HasPrefix(ref, domain.ImagePrefix) {
		return "", false
	}

	base := path.Base(ref)
	if base == "." || base == "/" || base == ".." || base == "uploads" {
		return "", false
	}

	return filepath.Join(s.dir, base), true
}
