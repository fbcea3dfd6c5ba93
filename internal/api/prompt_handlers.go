package api

import (
	"errors"
	"net/http"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
	"github.com/promptbox/promptbox/internal/http/response"
	"github.com/promptbox/promptbox/internal/service"
	"github.com/promptbox/promptbox/internal/store"
	"github.com/promptbox/promptbox/internal/web"
)

// maxFormMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const maxFormMemory = 8 << 20

// handleIndex lists prompts, optionally filtered by tag.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tag := q.Get("tag")

	listing, err := s.services.Prompts.List(r.Context(), tag)
	if err != nil {
		s.logger.Error("Failed to list prompts", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := web.IndexPage{
		Prompts:    web.NewPromptViews(listing.Prompts),
		Tags:       listing.Tags,
		ActiveTag:  listing.Tag,
		PromptsDir: s.services.Store.Dir(),
		Created:    q.Get("created") == "1",
		Updated:    q.Get("updated") == "1",
		Deleted:    q.Get("deleted") == "1",
		Error:      q.Get("error"),
	}

	if err := s.services.Templates.Render(w, http.StatusOK, web.IndexView, web.ViewData{Authenticated: true, Data: page}); err != nil {
		s.logger.Error("Failed to render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// handleCreate stores a new prompt from the create form.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	form, cleanup, err := s.parsePromptForm(w, r)
	if err != nil {
		s.formError(w, r, err)
		return
	}
	defer cleanup()

	_, err = s.services.Prompts.Create(r.Context(), form)
	s.redirectResult(w, r, "created", err)
}

// handleUpdate rewrites the prompt named by original_filename.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	form, cleanup, err := s.parsePromptForm(w, r)
	if err != nil {
		s.formError(w, r, err)
		return
	}
	defer cleanup()

	filename := r.PostFormValue("original_filename")
	removeImage := r.PostFormValue("remove_image") == "1"

	_, err = s.services.Prompts.Update(r.Context(), filename, form, removeImage)
	s.redirectResult(w, r, "updated", err)
}

// handleDelete removes a prompt and its image.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	if err := r.ParseForm(); err != nil {
		s.formError(w, r, err)
		return
	}

	err := s.services.Prompts.Delete(r.Context(), r.PostFormValue("filename"))
	s.redirectResult(w, r, "deleted", err)
}

// parsePromptForm reads a multipart or urlencoded prompt form. The returned
// cleanup releases any temporary upload files.
func (s *Server) parsePromptForm(w http.ResponseWriter, r *http.Request) (service.PromptForm, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return service.PromptForm{}, noop, err
	}

	form := service.PromptForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Body:        r.PostFormValue("prompt"),
		Tags:        r.PostFormValue("tags"),
	}

	if r.MultipartForm == nil {
		return form, noop, nil
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return form, cleanup, nil
	case err != nil:
		cleanup()
		return service.PromptForm{}, noop, err
	}

	form.Image = &store.Upload{Filename: header.Filename, Reader: file}
	return form, func() {
		_ = file.Close()
		cleanup()
	}, nil
}

// redirectResult sends the browser back to the listing with a flag for the
// outcome. Unexpected errors are answered with 500.
func (s *Server) redirectResult(w http.ResponseWriter, r *http.Request, flag string, err error) {
	if err == nil {
		response.RedirectWithFlag(w, r, "/", flag, "1")
		return
	}

	if domainerrors.IsDomain(err) && domainerrors.CodeOf(err) != domainerrors.CodeInternal {
		response.RedirectError(w, r, "/", err)
		return
	}

	s.logger.Error("Prompt operation failed", "error", err, "path", r.URL.Path)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) formError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.logger.Warn("Request body too large", "limit", tooLarge.Limit, "path", r.URL.Path)
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	s.logger.Warn("Failed to parse form", "error", err, "path", r.URL.Path)
	http.Error(w, "bad request", http.StatusBadRequest)
}
