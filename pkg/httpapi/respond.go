package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
)

// Error codes carried in the `code` field of error responses.
const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidID        = "INVALID_ID"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeRejected         = "REJECTED"
	CodeWrongStepType    = "WRONG_STEP_TYPE"
	CodeCancelled        = "CANCELLED"
	CodeNotFinal         = "NOT_FINAL"
	CodeAlreadyDelivered = "ALREADY_DELIVERED"
	CodeNoGenerator      = "NO_GENERATOR"
	CodeGeneration       = "GENERATION_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Warn("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeFailure maps domain errors to HTTP responses.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var invalid validator.ValidationErrors
	switch {
	case errors.Is(err, errInvalidJSON):
		s.writeError(w, http.StatusBadRequest, CodeInvalidJSON, err.Error())
	case errors.Is(err, errInvalidID):
		s.writeError(w, http.StatusBadRequest, CodeInvalidID, err.Error())
	case errors.Is(err, errSessionNotFound):
		s.writeError(w, http.StatusNotFound, CodeSessionNotFound, err.Error())
	case errors.As(err, &invalid):
		s.writeError(w, http.StatusBadRequest, CodeValidation, describeValidation(invalid))
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, orchestrator.ErrUnknownStep):
		s.writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, orchestrator.ErrWrongStepType):
		s.writeError(w, http.StatusBadRequest, CodeWrongStepType, err.Error())
	case errors.Is(err, orchestrator.ErrRejected):
		s.writeError(w, http.StatusConflict, CodeRejected, err.Error())
	case errors.Is(err, orchestrator.ErrCancelled):
		s.writeError(w, http.StatusGone, CodeCancelled, err.Error())
	case errors.Is(err, orchestrator.ErrNotFinal):
		s.writeError(w, http.StatusConflict, CodeNotFinal, err.Error())
	case errors.Is(err, orchestrator.ErrDelivered):
		s.writeError(w, http.StatusConflict, CodeAlreadyDelivered, err.Error())
	case errors.Is(err, orchestrator.ErrNoGenerator):
		s.writeError(w, http.StatusNotImplemented, CodeNoGenerator, err.Error())
	case errors.Is(err, errGeneration):
		s.writeError(w, http.StatusBadGateway, CodeGeneration, err.Error())
	default:
		s.logger.WithError(err).Error("internal error")
		s.writeError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

var errGeneration = errors.New("httpapi: document generation failed")

func describeValidation(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// decode reads a JSON body into v and validates it. An empty body decodes
// as the zero value.
func (s *Server) decode(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return s.validate.Struct(v)
}

var (
	errInvalidJSON     = errors.New("invalid JSON body")
	errInvalidID       = errors.New("invalid id")
	errSessionNotFound = errors.New("session not found")
)

func parseUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a UUID", errInvalidID, raw)
	}
	return id, nil
}
