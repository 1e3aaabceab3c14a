package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestAppErrorUnwrapsToKind(t *testing.T) {
	appErr := &AppError{Code: "CUSTOMER_NOT_FOUND", Message: "customer not found", Cause: ErrNotFound}
	wrapped := errors.Join(errors.New("context"), appErr)

	assert.ErrorIs(t, appErr, ErrNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, appErr, ErrAlreadyExists)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("email", "must be a valid email address")

	assert.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Field)
	assert.Equal(t, "validation failed: validation failed for field 'email': must be a valid email address", err.Error())
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause, "failed to list customers")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[DB_ERROR] failed to list customers", err.Error())
}
