// Package store persists prompts as individual Markdown files in a directory.
//
// Nothing is cached: every read re-parses the file from disk. The directory
// is the only shared state and the store takes no locks around it, so two
// concurrent writers racing for the same slug resolve on a best-effort basis.
package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/markdown"
)

// FileExt is the extension every prompt file carries.
const FileExt = ".md"

// Upload is an image attached to a create or update.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// PromptInput holds the user-editable fields of a prompt.
// Tags is the raw comma-separated value as entered.
type PromptInput struct {
	Title       string
	Description string
	Body        string
	Tags        string
	Image       *Upload
}

// HasImage reports whether an image with a file name was attached.
func (in PromptInput) HasImage() bool {
	return in.Image != nil && in.Image.Filename != ""
}

// Store manages the prompt directory.
type Store struct {
	dir      string
	images   *images.Storage
	renderer *markdown.Renderer
	logger   *slog.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, imgs *images.Storage, renderer *markdown.Renderer, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("prompt directory cannot be empty")
	}
	if imgs == nil {
		return nil, fmt.Errorf("image storage is required")
	}
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create prompt directory: %w", err)
	}

	logger.Info("prompt store ready", "dir", dir, "uploads", imgs.Dir())

	return &Store{
		dir:      dir,
		images:   imgs,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Dir returns the prompt directory.
func (s *Store) Dir() string {
	return s.dir
}

// Images returns the image storage used for attachments.
func (s *Store) Images() *images.Storage {
	return s.images
}

// Ping checks that the prompt directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat prompt directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("prompt path is not a directory: %s", s.dir)
	}
	return nil
}

// ValidFilename reports whether name is a plain base name ending in ".md".
func ValidFilename(name string) bool {
	if name == "" || !strings.HasSuffix(name, FileExt) || name == FileExt {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}

func (s *Store) path(filename string) string {
	return filepath.Join(s.dir, filename)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
