// Package service contains the application logic that sits between the HTTP
// layer and the prompt store.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/promptbox/promptbox/internal/domain"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/validation"
)

// PromptStore is the persistence the prompt service depends on.
type PromptStore interface {
	List(ctx context.Context) ([]*domain.Prompt, error)
	Get(ctx context.Context, filename string) (*domain.Prompt, error)
	Create(ctx context.Context, in store.PromptInput) (*domain.Prompt, error)
	Update(ctx context.Context, filename string, in store.PromptInput, removeImage bool) (*domain.Prompt, error)
	Delete(ctx context.Context, filename string) error
}

// PromptForm is the create/update form as submitted by the browser.
type PromptForm struct {
	Title       string        `form:"title" validate:"required,max=200"`
	Description string        `form:"description"`
	Body        string        `form:"prompt" validate:"required"`
	Tags        string        `form:"tags"`
	Image       *store.Upload `form:"-"`
}

// Listing is what the index view shows.
type Listing struct {
	Prompts []*domain.Prompt `json:"prompts"`
	// Tags across every stored prompt, not only the filtered ones.
	Tags []string `json:"tags"`
	// Tag is the active filter, empty for none.
	Tag string `json:"tag,omitempty"`
}

// PromptService orchestrates prompt operations.
type PromptService struct {
	store     PromptStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPromptService creates a new prompt service.
func NewPromptService(store PromptStore, validator *validation.Validator, logger *slog.Logger) *PromptService {
	if validator == nil {
		validator = validation.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// List returns the stored prompts, narrowed to those carrying tag when it is
// non-empty, plus the full tag set.
func (s *PromptService) List(ctx context.Context, tag string) (*Listing, error) {
	prompts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		Prompts: prompts,
		Tags:    domain.CollectTags(prompts),
		Tag:     strings.TrimSpace(tag),
	}

	if listing.Tag != "" {
		filtered := make([]*domain.Prompt, 0, len(prompts))
		for _, p := range prompts {
			if p.HasTag(listing.Tag) {
				filtered = append(filtered, p)
			}
		}
		listing.Prompts = filtered
	}

	return listing, nil
}

// Get returns a single prompt.
func (s *PromptService) Get(ctx context.Context, filename string) (*domain.Prompt, error) {
	return s.store.Get(ctx, strings.TrimSpace(filename))
}

// Tags returns the sorted set of tags across all listed prompts.
func (s *PromptService) Tags(ctx context.Context) ([]string, error) {
	prompts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CollectTags(prompts), nil
}

// Create validates the form and stores a new prompt.
func (s *PromptService) Create(ctx context.Context, form PromptForm) (*domain.Prompt, error) {
	form = form.trimmed()
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, form.input())
	if err != nil {
		s.logger.Warn("prompt create failed", "title", form.Title, "error", err)
		return nil, err
	}

	s.logger.Info("prompt created",
		"filename", p.Filename,
		"tags", len(p.Tags),
		"image", p.Image != "",
	)
	return p, nil
}

// Update validates the form and rewrites the prompt stored as filename.
func (s *PromptService) Update(ctx context.Context, filename string, form PromptForm, removeImage bool) (*domain.Prompt, error) {
	filename = strings.TrimSpace(filename)
	form = form.trimmed()
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}

	p, err := s.store.Update(ctx, filename, form.input(), removeImage)
	if err != nil {
		s.logger.Warn("prompt update failed", "filename", filename, "error", err)
		return nil, err
	}

	s.logger.Info("prompt updated",
		"filename", p.Filename,
		"renamed", p.Filename != filename,
		"image_removed", removeImage,
	)
	return p, nil
}

// Delete removes a prompt and its image.
func (s *PromptService) Delete(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	if err := s.store.Delete(ctx, filename); err != nil {
		s.logger.Warn("prompt delete failed", "filename", filename, "error", err)
		return err
	}

	s.logger.Info("prompt deleted", "filename", filename)
	return nil
}

func (f PromptForm) trimmed() PromptForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Body = strings.TrimSpace(f.Body)
	f.Tags = strings.TrimSpace(f.Tags)
	return f
}

func (f PromptForm) input() store.PromptInput {
	return store.PromptInput{
		Title:       f.Title,
		Description: f.Description,
		Body:        f.Body,
		Tags:        f.Tags,
		Image:       f.Image,
	}
}
