package customer

import (
	"context"
	"customer-api/internal/pkg/apperrors"
)

var (
	ErrNotFound = &apperrors.AppError{Code: "CUSTOMER_NOT_FOUND", Message: "customer not found", Cause: apperrors.ErrNotFound}

	ErrDuplicateEmail = &apperrors.AppError{Code: "DUPLICATE_EMAIL", Message: "email already registered", Cause: apperrors.ErrAlreadyExists}

	ErrNotModified = &apperrors.AppError{Code: "NOT_MODIFIED", Message: "nothing to update", Cause: apperrors.ErrNotModified}
)

type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)

	// FindByID returns ErrNotFound when no row matches.
	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// Insert persists a new row and writes the generated ID back onto customer.
	Insert(ctx context.Context, customer *Customer) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ExistsByID(ctx context.Context, customerID int64) (bool, error)

	DeleteByID(ctx context.Context, customerID int64) error

	// Update overwrites every mutable column of the row matching customer.ID.
	Update(ctx context.Context, customer *Customer) error
}
