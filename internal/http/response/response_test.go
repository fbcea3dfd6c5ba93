package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"status": "ok"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, map[string]any{"status": "ok"}, env.Data)
	assert.Empty(t, env.Error)
}

func TestJSON_ErrorStatusIsNotSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusNotFound, nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()
	Unauthorized(w, "login required", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "login required", env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestRedirectWithFlag(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/create", nil)

	w := httptest.NewRecorder()
	RedirectWithFlag(w, r, "/", "created", "1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?created=1", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	RedirectWithFlag(w, r, "/login", "", "")
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRedirectError(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/update", nil)

	tests := []struct {
		err  error
		want string
	}{
		{domainerrors.Missing("x"), "/?error=missing"},
		{domainerrors.NotFoundf("prompt %q not found", "x.md"), "/?error=missing"},
		{domainerrors.InvalidImagef("image type not allowed: %q", "x.exe"), "/?error=image"},
		{errors.New("disk full"), "/?error=internal"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		RedirectError(w, r, "/", tt.err)
		assert.Equal(t, tt.want, w.Header().Get("Location"))
	}
}
