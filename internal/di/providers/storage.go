package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/markdown"
	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/store"
)

// ProvideImageStorage provides the upload directory storage.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Storage.UploadsPath)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", storage.Dir())
	return storage, nil
}

// ProvideRenderer provides the Markdown renderer.
func ProvideRenderer(i do.Injector) (*markdown.Renderer, error) {
	return markdown.NewRenderer(), nil
}

// ProvideStore provides the prompt store.
func ProvideStore(i do.Injector) (*store.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storage := do.MustInvoke[*images.Storage](i)
	renderer := do.MustInvoke[*markdown.Renderer](i)

	return store.New(cfg.Storage.PromptsPath, storage, renderer, log.Component("store"))
}
