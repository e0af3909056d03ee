package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"weblocalizer/internal/domain"
)

var statusByCode = map[string]int{
	"missing_input":         http.StatusUnprocessableEntity,
	"no_languages":          http.StatusUnprocessableEntity,
	"base_language_missing": http.StatusUnprocessableEntity,
	"no_header_row":         http.StatusUnprocessableEntity,
	"no_images":             http.StatusUnprocessableEntity,
	"invalid_archive_path":  http.StatusUnprocessableEntity,
	"no_pages_produced":     http.StatusUnprocessableEntity,
	"destination_exists":    http.StatusConflict,
}

// errorBody is the JSON envelope of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	writeJSON(w, status, errorBody{
		Error:     code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeRunError maps a run failure to a status and a localized message.
func (s *Server) writeRunError(w http.ResponseWriter, r *http.Request, locale string, err error) {
	if errors.Is(err, errBadUpload) {
		s.writeError(w, r, "bad_request", s.t(locale, "http.run.bad_request", map[string]any{"Reason": err.Error()}), http.StatusBadRequest)
		return
	}
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		code, status = "internal", http.StatusInternalServerError
	}
	s.writeError(w, r, code, s.t(locale, "error."+code, nil), status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
