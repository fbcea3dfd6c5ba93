package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
	"github.com/promptbox/promptbox/internal/domain"
	"github.com/promptbox/promptbox/internal/markdown"
	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/validation"
)

func setupTestService(t *testing.T) (*PromptService, *store.Store) {
	t.Helper()

	base := t.TempDir()
	imgs, err := images.NewStorage(filepath.Join(base, "static", "uploads"))
	require.NoError(t, err)

	s, err := store.New(filepath.Join(base, "prompts"), imgs, markdown.NewRenderer(), nil)
	require.NoError(t, err)

	return NewPromptService(s, validation.New(), nil), s
}

// touch pushes a prompt's mtime so listing order is deterministic.
func touch(t *testing.T, s *store.Store, filename string, at time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), filename), at, at))
}

func TestPromptService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("trims input before storing", func(t *testing.T) {
		svc, _ := setupTestService(t)

		p, err := svc.Create(ctx, PromptForm{
			Title:       "  Summarize  ",
			Description: "  short  ",
			Body:        "\n\nSummarize this.\n\n",
			Tags:        "  writing  ",
		})
		require.NoError(t, err)

		assert.Equal(t, "summarize.md", p.Filename)
		assert.Equal(t, "Summarize", p.Title)
		assert.Equal(t, "short", p.Description)
		assert.Equal(t, "Summarize this.", p.Content)
		assert.Equal(t, []string{"writing"}, p.Tags)
	})

	t.Run("whitespace-only fields are missing", func(t *testing.T) {
		svc, _ := setupTestService(t)

		_, err := svc.Create(ctx, PromptForm{Title: "   ", Body: "body"})
		require.Error(t, err)
		assert.Equal(t, "missing", domainerrors.CodeOf(err).Flag())

		_, err = svc.Create(ctx, PromptForm{Title: "title", Body: "\n\t"})
		require.Error(t, err)
		assert.Equal(t, "missing", domainerrors.CodeOf(err).Flag())
	})

	t.Run("overlong title is rejected", func(t *testing.T) {
		svc, _ := setupTestService(t)

		_, err := svc.Create(ctx, PromptForm{Title: strings.Repeat("a", 201), Body: "body"})
		assert.True(t, domainerrors.Is(err, domainerrors.ErrMissing))
	})

	t.Run("bad image maps to image flag", func(t *testing.T) {
		svc, _ := setupTestService(t)

		_, err := svc.Create(ctx, PromptForm{
			Title: "Evil",
			Body:  "body",
			Image: &store.Upload{Filename: "evil.exe", Reader: strings.NewReader("MZ")},
		})
		require.Error(t, err)
		assert.Equal(t, "image", domainerrors.CodeOf(err).Flag())
	})
}

func TestPromptService_List(t *testing.T) {
	ctx := context.Background()
	svc, s := setupTestService(t)

	now := time.Now()
	for i, f := range []PromptForm{
		{Title: "Alpha", Body: "a", Tags: "writing, code"},
		{Title: "Beta", Body: "b", Tags: "code"},
		{Title: "Gamma", Body: "c"},
	} {
		p, err := svc.Create(ctx, f)
		require.NoError(t, err)
		touch(t, s, p.Filename, now.Add(time.Duration(i)*time.Minute))
	}

	t.Run("all prompts with tag set", func(t *testing.T) {
		listing, err := svc.List(ctx, "")
		require.NoError(t, err)

		require.Len(t, listing.Prompts, 3)
		assert.Equal(t, "gamma.md", listing.Prompts[0].Filename)
		assert.Equal(t, []string{"code", "writing"}, listing.Tags)
		assert.Empty(t, listing.Tag)
	})

	t.Run("filtered by tag keeps full tag set", func(t *testing.T) {
		listing, err := svc.List(ctx, " code ")
		require.NoError(t, err)

		require.Len(t, listing.Prompts, 2)
		assert.Equal(t, "beta.md", listing.Prompts[0].Filename)
		assert.Equal(t, "alpha.md", listing.Prompts[1].Filename)
		assert.Equal(t, []string{"code", "writing"}, listing.Tags)
		assert.Equal(t, "code", listing.Tag)
	})

	t.Run("unknown tag yields empty list", func(t *testing.T) {
		listing, err := svc.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, listing.Prompts)
	})

	t.Run("tags", func(t *testing.T) {
		tags, err := svc.Tags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"code", "writing"}, tags)
	})
}

func TestPromptService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestService(t)

	p, err := svc.Create(ctx, PromptForm{Title: "Draft", Body: "v1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "  "+p.Filename+"  ", PromptForm{Title: "Final", Body: "v2"}, false)
	require.NoError(t, err)
	assert.Equal(t, "final.md", updated.Filename)

	_, err = svc.Get(ctx, p.Filename)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, updated.Filename))

	err = svc.Delete(ctx, updated.Filename)
	assert.Equal(t, "missing", domainerrors.CodeOf(err).Flag())
}

type failingStore struct {
	err error
}

func (f failingStore) List(context.Context) ([]*domain.Prompt, error) { return nil, f.err }

func (f failingStore) Get(context.Context, string) (*domain.Prompt, error) { return nil, f.err }

func (f failingStore) Create(context.Context, store.PromptInput) (*domain.Prompt, error) {
	return nil, f.err
}

func (f failingStore) Update(context.Context, string, store.PromptInput, bool) (*domain.Prompt, error) {
	return nil, f.err
}

func (f failingStore) Delete(context.Context, string) error { return f.err }

func TestPromptService_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	svc := NewPromptService(failingStore{err: boom}, nil, nil)

	_, err := svc.List(ctx, "")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Create(ctx, PromptForm{Title: "t", Body: "b"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, domainerrors.IsDomain(err))

	_, err = svc.Update(ctx, "t.md", PromptForm{Title: "t", Body: "b"}, false)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, svc.Delete(ctx, "t.md"), boom)
}
