// Package web renders the HTML pages from templates embedded in the binary.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/layout.html
var layoutFS embed.FS

//go:embed templates/views/*.html
var viewFS embed.FS

//go:embed static
var staticFS embed.FS

// Layout is the outer template every view renders through.
const Layout = "layout"

// ViewDef names a page template and its title.
type ViewDef struct {
	Template string
	Title    string
}

// Pages.
var (
	LoginView = ViewDef{Template: "login.html", Title: "Sign in"}
	IndexView = ViewDef{Template: "index.html", Title: "Prompts"}
)

// ViewData is passed to every page template.
type ViewData struct {
	Title         string
	Authenticated bool
	Data          any
}

// TemplateSet holds pre-parsed templates, one clone of the layout per view.
type TemplateSet struct {
	views map[string]*template.Template
}

// NewTemplateSet parses the embedded layout and pages. Parsing happens once
// so a broken template fails at startup.
func NewTemplateSet() (*TemplateSet, error) {
	return newTemplateSet(layoutFS, "templates/layout.html", viewFS, "templates/views", LoginView, IndexView)
}

func newTemplateSet(layouts fs.FS, layoutGlob string, views fs.FS, viewDir string, defs ...ViewDef) (*TemplateSet, error) {
	base, err := template.ParseFS(layouts, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	viewSub, err := fs.Sub(views, viewDir)
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(defs))
	for _, v := range defs {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.Template, err)
		}
		set[v.Template] = t
	}

	return &TemplateSet{views: set}, nil
}

// Render executes view through the layout. Output is buffered so a template
// error never leaves a half-written page.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, view ViewDef, data ViewData) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}
	if data.Title == "" {
		data.Title = view.Title
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, Layout, data); err != nil {
		return fmt.Errorf("execute %s: %w", view.Template, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded stylesheet and other assets with
// urlPrefix stripped.
func StaticHandler(urlPrefix string) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create static sub-filesystem: " + err.Error())
	}
	return http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub)))
}
