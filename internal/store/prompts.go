package store

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
	"github.com/promptbox/promptbox/internal/domain"
	"github.com/promptbox/promptbox/internal/frontmatter"
	"github.com/promptbox/promptbox/internal/markdown"
	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/util"
)

type promptFile struct {
	name    string
	modTime time.Time
}

// List returns every non-empty prompt, most recently modified first.
func (s *Store) List(ctx context.Context) ([]*domain.Prompt, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read prompt directory: %w", err)
	}

	files := make([]promptFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat prompt %s: %w", entry.Name(), err)
		}
		files = append(files, promptFile{name: entry.Name(), modTime: info.ModTime()})
	}

	slices.SortStableFunc(files, func(a, b promptFile) int {
		if c := b.modTime.Compare(a.modTime); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	prompts := make([]*domain.Prompt, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := s.load(f.name)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		if p.IsEmpty() {
			continue
		}
		prompts = append(prompts, p)
	}

	return prompts, nil
}

// Get loads a single prompt by file name.
func (s *Store) Get(ctx context.Context, filename string) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidFilename(filename) {
		return nil, domainerrors.NotFoundf("prompt %q not found", filename)
	}

	p, err := s.load(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.NotFoundf("prompt %q not found", filename)
		}
		return nil, err
	}
	return p, nil
}

// Create writes a new prompt file named after the title's slug.
func (s *Store) Create(ctx context.Context, in PromptInput) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	slug := util.Slugify(in.Title)
	target := s.resolveTarget(slug, "")

	var imageRef string
	if in.HasImage() {
		ref, err := s.images.Save(slug, in.Image.Filename, in.Image.Reader)
		if err != nil {
			return nil, err
		}
		imageRef = ref
	}

	if err := s.write(target, in, imageRef); err != nil {
		if imageRef != "" {
			_ = s.images.Delete(imageRef)
		}
		return nil, err
	}

	s.logger.Debug("prompt written", "filename", target, "image", imageRef)

	return s.load(target)
}

// Update rewrites an existing prompt, renaming it when the title's slug
// changes. The new file is written before the original is removed.
func (s *Store) Update(ctx context.Context, filename string, in PromptInput, removeImage bool) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidFilename(filename) || !exists(s.path(filename)) {
		return nil, domainerrors.NotFoundf("prompt %q not found", filename)
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	existing, err := s.load(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.NotFoundf("prompt %q not found", filename)
		}
		return nil, err
	}
	imageRef := existing.Image

	slug := util.Slugify(in.Title)
	target := s.resolveTarget(slug, filename)

	if removeImage && imageRef != "" {
		if err := s.images.Delete(imageRef); err != nil {
			return nil, err
		}
		imageRef = ""
	}

	if in.HasImage() {
		if imageRef != "" {
			if err := s.images.Delete(imageRef); err != nil {
				return nil, err
			}
		}
		ref, err := s.images.Save(slug, in.Image.Filename, in.Image.Reader)
		if err != nil {
			return nil, err
		}
		imageRef = ref
	}

	if err := s.write(target, in, imageRef); err != nil {
		return nil, err
	}

	if target != filename {
		if err := os.Remove(s.path(filename)); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove renamed prompt %s: %w", filename, err)
		}
		s.logger.Debug("prompt renamed", "from", filename, "to", target)
	}

	return s.load(target)
}

// Delete removes a prompt file and then its image.
func (s *Store) Delete(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidFilename(filename) || !exists(s.path(filename)) {
		return domainerrors.NotFoundf("prompt %q not found", filename)
	}

	p, err := s.load(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return domainerrors.NotFoundf("prompt %q not found", filename)
		}
		return err
	}

	if err := os.Remove(s.path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove prompt %s: %w", filename, err)
	}

	return s.images.Delete(p.Image)
}

// resolveTarget picks "<slug>.md", then "<slug>-1.md", "<slug>-2.md" and so
// on until a name is free. original, when set, counts as free.
func (s *Store) resolveTarget(slug, original string) string {
	name := slug + FileExt
	for counter := 1; exists(s.path(name)) && name != original; counter++ {
		name = slug + "-" + strconv.Itoa(counter) + FileExt
	}
	return name
}

func (s *Store) write(filename string, in PromptInput, imageRef string) error {
	fields := []frontmatter.Field{
		{Key: frontmatter.KeyTitle, Value: in.Title},
		{Key: frontmatter.KeyDescription, Value: in.Description},
		{Key: frontmatter.KeyTags, Value: in.Tags},
		{Key: frontmatter.KeyImage, Value: imageRef},
	}

	content := frontmatter.Write(fields, in.Body)
	//#nosec G306 -- prompt files are plain documents
	if err := os.WriteFile(s.path(filename), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write prompt %s: %w", filename, err)
	}
	return nil
}

func (s *Store) load(filename string) (*domain.Prompt, error) {
	p := s.path(filename)

	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	//#nosec G304 -- filename is validated or comes from ReadDir
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	return ParsePrompt(s.renderer, filename, string(data), info.ModTime())
}

// ParsePrompt builds a Prompt from raw file text, filling in the title and
// description defaults and rendering the body.
func ParsePrompt(renderer *markdown.Renderer, filename, text string, modTime time.Time) (*domain.Prompt, error) {
	meta, body := frontmatter.Parse(text)

	title, ok := meta[frontmatter.KeyTitle]
	if !ok {
		title = frontmatter.TitleFromFilename(filename)
	}

	description := meta[frontmatter.KeyDescription]
	if description == "" {
		description = markdown.Summarize(body, "")
	}

	html, err := renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render prompt %s: %w", filename, err)
	}

	tagsValue := meta[frontmatter.KeyTags]

	return &domain.Prompt{
		Filename:    filename,
		Title:       title,
		Description: description,
		Image:       meta[frontmatter.KeyImage],
		Tags:        frontmatter.SplitTags(tagsValue),
		TagsString:  tagsValue,
		Content:     body,
		HTML:        html,
		ModifiedAt:  modTime,
	}, nil
}

func checkInput(in PromptInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return domainerrors.Missing("title and prompt are required")
	}
	if in.HasImage() && !images.IsAllowed(in.Image.Filename) {
		return domainerrors.InvalidImagef("image type not allowed: %q", in.Image.Filename)
	}
	return nil
}
