package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/apperr"
)

const internalDescription = "Internal server error"

// envelope is the body of every API response.
type envelope struct {
	Status           int    `json:"status"`
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	Data             any    `json:"data,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *Handlers) ok(w http.ResponseWriter, status int, message string, data any) {
	h.writeJSON(w, status, envelope{
		Status:  status,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// fail maps err onto a status code. failMessage is shown for internal errors,
// whose details are only logged.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error, failMessage string) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		h.logger.Error(failMessage,
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		h.writeJSON(w, status, envelope{
			Status:           status,
			Message:          failMessage,
			ErrorDescription: internalDescription,
		})
		return
	}

	msg := err.Error()
	if e, ok := apperr.As(err); ok {
		msg = e.Message
	}
	h.writeJSON(w, status, envelope{
		Status:           status,
		Message:          msg,
		ErrorDescription: msg,
	})
}

func statusFor(err error) int {
	e, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case apperr.KindMissingField, apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		if e.Reference() {
			return http.StatusBadRequest
		}
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// requireID parses the {id} path parameter. It writes the 400 response itself
// and returns false when the id is not a positive integer.
func (h *Handlers) requireID(w http.ResponseWriter, r *http.Request, invalidMessage string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(w, r, apperr.Validation("id", invalidMessage), invalidMessage)
		return 0, false
	}
	return id, true
}

// decode reads a JSON body into dst. An empty body leaves dst untouched so the
// missing-field rules apply.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return apperr.Validation(field, fmt.Sprintf("Invalid value for %s: expected %s", field, typeErr.Type))
	}

	var parseErr *timeFieldError
	if errors.As(err, &parseErr) {
		return apperr.Validation(parseErr.field, parseErr.Error())
	}

	return apperr.Validation("body", "Malformed JSON body")
}
