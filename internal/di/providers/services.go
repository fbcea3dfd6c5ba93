package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/service"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/validation"
)

// ProvideValidator provides the form validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvidePromptService provides the prompt service.
func ProvidePromptService(i do.Injector) (*service.PromptService, error) {
	st := do.MustInvoke[*store.Store](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPromptService(st, validator, log.Component("prompts")), nil
}
