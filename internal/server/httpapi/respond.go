package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/akarpovs/contacthub/internal/common"
)

// envelope is the success response shape shared by all endpoints.
type envelope struct {
	Code   int    `json:"code"`
	Remark string `json:"remark"`
	Data   any    `json:"data,omitempty"`
}

// errorEnvelope is the failure response shape. Stack is null outside
// development mode.
type errorEnvelope struct {
	Remark string  `json:"remark"`
	Stack  *string `json:"stack"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForError maps the error taxonomy onto HTTP status codes:
// 400 for input/validation/ownership errors, 401 for authentication
// failures, 404 for missing records, 500 otherwise.
func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrorInvalidInput),
		errors.Is(err, common.ErrorDuplicateContact),
		errors.Is(err, common.ErrorDuplicateUser),
		errors.Is(err, common.ErrorNotOwner),
		errors.Is(err, common.ErrorNoResults),
		errors.Is(err, common.ErrorInvalidPage):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeErrorStatus(w, statusForError(err), err.Error())
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, remark string) {
	var stack *string
	if s.devMode {
		trace := string(debug.Stack())
		stack = &trace
	}
	s.writeJSON(w, status, errorEnvelope{Remark: remark, Stack: stack})
}
