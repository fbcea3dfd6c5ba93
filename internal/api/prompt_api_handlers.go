package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptbox/promptbox/internal/domain"
	"github.com/promptbox/promptbox/internal/service"
)

var sessionSecurity = []map[string][]string{{"session": {}}}

func (s *Server) registerPromptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPrompts",
		Method:      http.MethodGet,
		Path:        "/prompts",
		Summary:     "List prompts",
		Description: "Returns all prompts, newest first, optionally filtered by tag",
		Tags:        []string{"Prompts"},
		Security:    sessionSecurity,
	}, s.handleListPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPrompt",
		Method:      http.MethodGet,
		Path:        "/prompts/{filename}",
		Summary:     "Get prompt",
		Description: "Returns a single prompt by file name",
		Tags:        []string{"Prompts"},
		Security:    sessionSecurity,
	}, s.handleGetPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
		Description: "Returns the sorted set of tags used by any prompt",
		Tags:        []string{"Tags"},
		Security:    sessionSecurity,
	}, s.handleListTags)
}

// ListPromptsInput contains parameters for listing prompts.
type ListPromptsInput struct {
	Tag string `query:"tag" doc:"Only return prompts carrying this tag"`
}

// ListPromptsOutput wraps the listing for Huma.
type ListPromptsOutput struct {
	Body *service.Listing
}

// GetPromptInput contains parameters for fetching a prompt.
type GetPromptInput struct {
	Filename string `path:"filename" doc:"Prompt file name, e.g. code-review.md"`
}

// PromptOutput wraps a prompt for Huma.
type PromptOutput struct {
	Body *domain.Prompt
}

// TagsResponse contains the tag set in API responses.
type TagsResponse struct {
	Tags []string `json:"tags" doc:"Sorted, de-duplicated tags"`
}

// TagsOutput wraps the tag set for Huma.
type TagsOutput struct {
	Body TagsResponse
}

func (s *Server) handleListPrompts(ctx context.Context, input *ListPromptsInput) (*ListPromptsOutput, error) {
	listing, err := s.services.Prompts.List(ctx, input.Tag)
	if err != nil {
		return nil, apiError(err)
	}
	return &ListPromptsOutput{Body: listing}, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, input *GetPromptInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.Get(ctx, input.Filename)
	if err != nil {
		return nil, apiError(err)
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagsOutput, error) {
	tags, err := s.services.Prompts.Tags(ctx)
	if err != nil {
		return nil, apiError(err)
	}
	return &TagsOutput{Body: TagsResponse{Tags: tags}}, nil
}
