package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-api/internal/domain/customer"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	selectCustomerColumns = `SELECT id, name, email, age FROM customer`

	insertCustomerQuery = `
        INSERT INTO customer (name, email, age)
        VALUES ($1, $2, $3)
        RETURNING id`

	// Mutable columns are listed explicitly; id is never written.
	updateCustomerQuery = `
        UPDATE customer
        SET name = $1,
            email = $2,
            age = $3
        WHERE id = $4`

	existsByEmailQuery = `SELECT EXISTS (SELECT 1 FROM customer WHERE email = $1)`
	existsByIDQuery    = `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`
	deleteByIDQuery    = `DELETE FROM customer WHERE id = $1`
)

// customerRow mirrors the customer table; pgx maps columns by db tag and
// fails on any missing or mistyped column.
type customerRow struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	Age   int32  `db:"age"`
}

func (r *customerRow) toDomain() *customer.Customer {
	return &customer.Customer{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Age:   int(r.Age),
	}
}

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) FindAll(ctx context.Context) (customers []*customer.Customer, err error) {
	done := monitoring.ObserveQuery("find_all_customers")
	defer func() { done(err) }()

	r.logger.DebugContext(ctx, "Attempting to find all customers")

	rows, err := r.db.Query(ctx, selectCustomerColumns+" ORDER BY id ASC")
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[customerRow])
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to scan customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to scan customer rows: %w", apperrors.ErrDatabase, err)
	}

	customers = make([]*customer.Customer, 0, len(collected))
	for _, row := range collected {
		customers = append(customers, row.toDomain())
	}

	r.logger.DebugContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (cust *customer.Customer, err error) {
	done := monitoring.ObserveQuery("find_customer_by_id")
	defer func() { done(err) }()

	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Attempting to find customer by ID")

	rows, err := r.db.Query(ctx, selectCustomerColumns+" WHERE id = $1", customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[customerRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.DebugContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to scan customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}

	return row.toDomain(), nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if cust.IsPersisted() {
		return fmt.Errorf("%w: customer %d is already persisted", apperrors.ErrInvalidArgument, cust.ID)
	}

	done := monitoring.ObserveQuery("insert_customer")
	defer func() { done(err) }()

	r.logger.DebugContext(ctx, "Attempting to insert new customer", slog.String("email", cust.Email))

	err = r.db.QueryRow(ctx, insertCustomerQuery, cust.Name, cust.Email, cust.Age).Scan(&cust.ID)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.String("email", cust.Email))
			return fmt.Errorf("%w: %w", customer.ErrDuplicateEmail, translatedErr)
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	done := monitoring.ObserveQuery("exists_customer_by_email")
	defer func() { done(err) }()

	if err = r.db.QueryRow(ctx, existsByEmailQuery, email).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer email", slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check customer email: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (exists bool, err error) {
	done := monitoring.ObserveQuery("exists_customer_by_id")
	defer func() { done(err) }()

	if err = r.db.QueryRow(ctx, existsByIDQuery, customerID).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.Int64("customerID", customerID), slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check customer existence: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, customerID int64) (err error) {
	done := monitoring.ObserveQuery("delete_customer")
	defer func() { done(err) }()

	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Attempting to delete customer")

	cmdTag, err := r.db.Exec(ctx, deleteByIDQuery, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Delete affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	logCtx.InfoContext(ctx, "Customer deleted successfully")
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) (err error) {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	done := monitoring.ObserveQuery("update_customer")
	defer func() { done(err) }()

	logCtx := r.logger.With(slog.Int64("customerID", cust.ID))
	logCtx.DebugContext(ctx, "Attempting to update customer")

	cmdTag, err := r.db.Exec(ctx, updateCustomerQuery, cust.Name, cust.Email, cust.Age, cust.ID)
	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Failed to update customer due to unique constraint violation", slog.String("email", cust.Email))
			return fmt.Errorf("%w: %w", customer.ErrDuplicateEmail, translatedErr)
		}
		logCtx.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to update customer: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return customer.ErrNotFound
	}

	logCtx.InfoContext(ctx, "Customer updated successfully")
	return nil
}
