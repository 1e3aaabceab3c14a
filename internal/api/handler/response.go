package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"customer-api/internal/api/handler/dto"
	"customer-api/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("%w: request body is required", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"code":"INTERNAL","message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondStatus(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// respondError maps an error kind to a status code. 304 is written without
// a body.
func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, "INTERNAL", "An unexpected error occurred.", ""

	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotModified):
		respondStatus(w, http.StatusNotModified)
		return
	case errors.As(err, &validationError):
		status, code, message, field = http.StatusBadRequest, "VALIDATION_FAILED", validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Resource not found."
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, code, message = http.StatusConflict, "ALREADY_EXISTS", "Resource already exists."
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	if status != http.StatusInternalServerError && errors.As(err, &appErr) && appErr.Code != "" {
		code, message = appErr.Code, appErr.Message
	}

	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("customerID", fmt.Sprintf("must be a positive integer, got %q", idStr))
	}
	return id, nil
}
