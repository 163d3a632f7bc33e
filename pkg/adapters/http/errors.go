package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/verdict/internal/sanitize"
	"github.com/aretw0/verdict/pkg/domain"
)

var errBadRequest = errors.New("bad request")

// statusFor maps an error to its response status and error code.
// No-op sentinels answer 4xx: nothing happened, the document is unchanged.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptySelection):
		return http.StatusUnprocessableEntity, "empty_selection"
	case errors.Is(err, domain.ErrNoFocusedInput):
		return http.StatusUnprocessableEntity, "no_focused_input"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "document_not_found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest, "invalid_state"
	case errors.Is(err, sanitize.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge, "input_too_large"
	case errors.Is(err, sanitize.ErrInvalidUTF8), errors.Is(err, sanitize.ErrControlCharacter):
		return http.StatusBadRequest, "invalid_text"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error("Request failed", "op", op, "path", r.URL.Path, "err", err)
		msg = "internal error"
	case domain.IsNoop(err):
		s.logger.Debug("Request was a no-op", "op", op, "path", r.URL.Path, "reason", code)
	default:
		s.logger.Warn("Request rejected", "op", op, "path", r.URL.Path, "err", err)
	}
	writeJSONError(w, status, code, msg)
}
