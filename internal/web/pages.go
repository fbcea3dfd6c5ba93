package web

import (
	"html/template"

	"github.com/promptbox/promptbox/internal/domain"
)

// LoginPage is the data for the sign-in form.
type LoginPage struct {
	Error string
	Next  string
}

// LoginFailedMessage is shown for any rejected password, configured or not.
const LoginFailedMessage = "Incorrect password. Try again."

// RateLimitedMessage is shown when login attempts come too fast.
const RateLimitedMessage = "Too many attempts. Wait a minute and try again."

// IndexPage is the data for the prompt listing.
type IndexPage struct {
	Prompts    []PromptView
	Tags       []string
	ActiveTag  string
	PromptsDir string

	Created bool
	Updated bool
	Deleted bool
	Error   string
}

// ErrorMessage turns the error flag into a banner.
func (p IndexPage) ErrorMessage() string {
	switch p.Error {
	case "":
		return ""
	case "missing":
		return "A title and prompt are required, and the prompt must still exist."
	case "image":
		return "Images must be png, jpg, jpeg, gif, webp or svg files."
	default:
		return "Something went wrong. Try again."
	}
}

// PromptView is a prompt prepared for the template.
type PromptView struct {
	*domain.Prompt
	Body     template.HTML
	ImageURL string
}

// NewPromptViews wraps prompts for rendering. Prompt HTML comes from the
// Markdown renderer and is emitted as-is.
func NewPromptViews(prompts []*domain.Prompt) []PromptView {
	views := make([]PromptView, 0, len(prompts))
	for _, p := range prompts {
		v := PromptView{
			Prompt: p,
			//#nosec G203 -- rendered Markdown is trusted single-user content
			Body: template.HTML(p.HTML),
		}
		if p.HasImage() {
			v.ImageURL = "/static/" + p.Image
		}
		views = append(views, v)
	}
	return views
}
