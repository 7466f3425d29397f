package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteError(w, r, status, code, message)
}

// WriteError writes the error envelope. Exported for middleware that runs
// before a handler has a ResponseHandler.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound  *errs.NotFoundError
		exists    *errs.AlreadyExistsError
		conflict  *errs.ConflictError
		invalid   *errs.ValidationError
		unauth    *errs.UnauthorizedError
		forbidden *errs.ForbiddenError
		dbErr     *errs.DatabaseError
		extErr    *errs.ExternalServiceError
		encErr    *errs.EncryptionError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &exists):
		log.Warn("resource already exists", "error", exists.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", exists.Message)

	case errors.As(err, &conflict):
		log.Warn("state conflict", "error", conflict.Message)
		h.WriteError(w, r, http.StatusConflict, "conflict", conflict.Message)

	case errors.As(err, &invalid):
		log.Warn("validation failed", "error", invalid.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", invalid.Message)

	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		log.Warn("malformed request body", "error", err)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", "Malformed JSON body")

	case errors.As(err, &unauth):
		log.Warn("unauthorized", "error", unauth.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthorized", unauth.Message)

	case errors.As(err, &forbidden):
		log.Warn("forbidden", "error", forbidden.Message)
		h.WriteError(w, r, http.StatusForbidden, "forbidden", forbidden.Message)

	case errors.As(err, &dbErr):
		log.Error("database error",
			"operation", dbErr.Operation,
			"error", dbErr.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case errors.As(err, &extErr):
		level := slog.LevelError
		if extErr.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", extErr.Service,
			"transient", extErr.Transient,
			"error", extErr.Message)

		status := http.StatusBadGateway
		if extErr.Transient {
			status = http.StatusServiceUnavailable
		}
		h.WriteError(w, r, status, "service_unavailable",
			"Service temporarily unavailable")

	case errors.As(err, &encErr):
		log.Error("encryption error", "error", encErr.Message)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
