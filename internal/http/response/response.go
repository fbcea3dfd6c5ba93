// Package response writes JSON envelopes and flag-carrying redirects.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	domainerrors "github.com/promptbox/promptbox/internal/errors"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// JSON writes data wrapped in an envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{Success: status < 400, Data: data}, logger)
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	write(w, http.StatusUnauthorized, Envelope{Error: message, Code: string(domainerrors.CodeUnauthorized)}, logger)
}

// RedirectWithFlag redirects (303) to path with a single query flag, for
// example "/?created=1" or "/?error=missing".
func RedirectWithFlag(w http.ResponseWriter, r *http.Request, path, key, value string) {
	target := path
	if key != "" {
		target += "?" + url.Values{key: {value}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RedirectError redirects to path carrying the error flag for err's code.
func RedirectError(w http.ResponseWriter, r *http.Request, path string, err error) {
	RedirectWithFlag(w, r, path, "error", domainerrors.CodeOf(err).Flag())
}

func write(w http.ResponseWriter, status int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
