package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptbox/promptbox/internal/domain"
)

func TestNewTemplateSet(t *testing.T) {
	ts, err := NewTemplateSet()
	require.NoError(t, err)
	assert.Len(t, ts.views, 2)
}

func TestNewTemplateSet_BrokenTemplate(t *testing.T) {
	layouts := fstest.MapFS{"layout.html": {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)}}
	views := fstest.MapFS{"views/bad.html": {Data: []byte(`{{define "content"}}{{.Broken}`)}}

	_, err := newTemplateSet(layouts, "layout.html", views, "views", ViewDef{Template: "bad.html"})
	assert.Error(t, err)
}

func TestRender_Login(t *testing.T) {
	ts, err := NewTemplateSet()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = ts.Render(w, http.StatusTooManyRequests, LoginView, ViewData{
		Data: LoginPage{Error: LoginFailedMessage, Next: "/?tag=a&b"},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "<title>Sign in · Promptbox</title>")
	assert.Contains(t, body, "Incorrect password. Try again.")
	assert.Contains(t, body, `name="next" value="/?tag=a&amp;b"`)
	assert.NotContains(t, body, "Sign out")
}

func TestRender_Index(t *testing.T) {
	ts, err := NewTemplateSet()
	require.NoError(t, err)

	prompts := []*domain.Prompt{
		{
			Filename:    "code-review.md",
			Title:       "Code <Review>",
			Description: "Review a diff",
			Tags:        []string{"code"},
			TagsString:  "code",
			Content:     "Review **this**",
			HTML:        "<p>Review <strong>this</strong></p>\n",
			Image:       "uploads/code-review-abc.png",
		},
	}

	w := httptest.NewRecorder()
	err = ts.Render(w, http.StatusOK, IndexView, ViewData{
		Authenticated: true,
		Data: IndexPage{
			Prompts:    NewPromptViews(prompts),
			Tags:       []string{"code", "writing"},
			ActiveTag:  "code",
			PromptsDir: "prompts",
			Created:    true,
			Error:      "image",
		},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Contains(t, body, "Sign out")
	assert.Contains(t, body, "Prompt saved.")
	assert.Contains(t, body, "Images must be png")
	assert.Contains(t, body, "Code &lt;Review&gt;")
	assert.Contains(t, body, "<strong>this</strong>")
	assert.Contains(t, body, `src="/static/uploads/code-review-abc.png"`)
	assert.Contains(t, body, `name="original_filename" value="code-review.md"`)
	assert.Contains(t, body, `name="remove_image" value="1"`)
	assert.Contains(t, body, `href="/?tag=writing"`)
	assert.Contains(t, body, "<code>prompts</code>")
}

func TestRender_EmptyIndex(t *testing.T) {
	ts, err := NewTemplateSet()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, ts.Render(w, http.StatusOK, IndexView, ViewData{Data: IndexPage{}}))
	assert.Contains(t, w.Body.String(), "No prompts yet.")
}

func TestRender_UnknownView(t *testing.T) {
	ts, err := NewTemplateSet()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = ts.Render(w, http.StatusOK, ViewDef{Template: "missing.html"}, ViewData{})
	assert.Error(t, err)
	assert.Empty(t, w.Body.String())
}

func TestIndexPage_ErrorMessage(t *testing.T) {
	assert.Empty(t, IndexPage{}.ErrorMessage())
	assert.Contains(t, IndexPage{Error: "missing"}.ErrorMessage(), "required")
	assert.Contains(t, IndexPage{Error: "image"}.ErrorMessage(), "png")
	assert.Contains(t, IndexPage{Error: "weird"}.ErrorMessage(), "went wrong")
}

func TestStaticHandler(t *testing.T) {
	w := httptest.NewRecorder()
	StaticHandler("/assets/").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "--accent")
}
