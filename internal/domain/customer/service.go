package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-api/internal/event"
)

const customerNotFound = "Customer not found by repository"

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	RegisterCustomer(ctx context.Context, reg Registration) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, upd Update) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.Publisher
	logger *slog.Logger
}

// NewCustomerService builds the service. A nil publisher disables lifecycle
// events.
func NewCustomerService(repo CustomerRepository, publisher event.Publisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if publisher == nil {
		publisher = event.NopPublisher{}
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		pub:    publisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository FindAll")
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully listed customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Calling repository FindByID")

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, fmt.Errorf("customer with id [%d]: %w", customerID, ErrNotFound)
		}
		logCtx.ErrorContext(ctx, "Repository error getting customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return customer, nil
}

func (s *customerService) RegisterCustomer(ctx context.Context, reg Registration) (*Customer, error) {
	customer := NewCustomer(reg.Name, reg.Email, reg.Age)
	logCtx := s.logger.With(slog.String("email", customer.Email))
	logCtx.InfoContext(ctx, "Attempting to register new customer")

	taken, err := s.repo.ExistsByEmail(ctx, customer.Email)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error checking email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check email for new customer: %w", err)
	}
	if taken {
		logCtx.WarnContext(ctx, "Email already registered")
		return nil, fmt.Errorf("email %s: %w", customer.Email, ErrDuplicateEmail)
	}

	if err := s.repo.Insert(ctx, customer); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logCtx.WarnContext(ctx, "Email registered concurrently, insert rejected")
			return nil, fmt.Errorf("email %s: %w", customer.Email, ErrDuplicateEmail)
		}
		logCtx.ErrorContext(ctx, "Repository failed to insert new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully registered new customer", slog.Int64("customerID", customer.ID))

	if pubErr := s.pub.PublishCustomerRegistered(ctx, eventPayload(customer)); pubErr != nil {
		logCtx.WarnContext(ctx, "Failed to publish customer registered event", slog.Any("error", pubErr))
	}
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, upd Update) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to update customer")

	current, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	merged := *current
	changes := upd.Apply(&merged)

	if changes.Email {
		taken, err := s.repo.ExistsByEmail(ctx, merged.Email)
		if err != nil {
			logCtx.ErrorContext(ctx, "Repository error checking email", slog.Any("error", err))
			return nil, fmt.Errorf("failed to check email for customer %d: %w", customerID, err)
		}
		if taken {
			logCtx.WarnContext(ctx, "Requested email already registered", slog.String("email", merged.Email))
			return nil, fmt.Errorf("email %s: %w", merged.Email, ErrDuplicateEmail)
		}
	}

	if !changes.Any() {
		logCtx.InfoContext(ctx, "Update request produced no changes")
		return nil, fmt.Errorf("customer with id [%d]: %w", customerID, ErrNotModified)
	}

	logCtx.DebugContext(ctx, "Calling repository Update",
		slog.Bool("nameChanged", changes.Name),
		slog.Bool("emailChanged", changes.Email),
		slog.Bool("ageChanged", changes.Age))
	if err := s.repo.Update(ctx, &merged); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			logCtx.WarnContext(ctx, "Email registered concurrently, update rejected")
			return nil, fmt.Errorf("email %s: %w", merged.Email, ErrDuplicateEmail)
		case errors.Is(err, ErrNotFound):
			logCtx.WarnContext(ctx, "Customer disappeared before update could complete")
			return nil, fmt.Errorf("customer with id [%d]: %w", customerID, ErrNotFound)
		}
		logCtx.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully updated customer")

	if pubErr := s.pub.PublishCustomerUpdated(ctx, eventPayload(&merged)); pubErr != nil {
		logCtx.WarnContext(ctx, "Failed to publish customer updated event", slog.Any("error", pubErr))
	}
	return &merged, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to delete customer")

	exists, err := s.repo.ExistsByID(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error checking customer existence", slog.Any("error", err))
		return fmt.Errorf("failed to check customer %d: %w", customerID, err)
	}
	if !exists {
		logCtx.WarnContext(ctx, customerNotFound)
		return fmt.Errorf("customer with id [%d]: %w", customerID, ErrNotFound)
	}

	if err := s.repo.DeleteByID(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer disappeared before delete could complete")
			return fmt.Errorf("customer with id [%d]: %w", customerID, ErrNotFound)
		}
		logCtx.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully deleted customer")

	if pubErr := s.pub.PublishCustomerDeleted(ctx, customerID); pubErr != nil {
		logCtx.WarnContext(ctx, "Failed to publish customer deleted event", slog.Any("error", pubErr))
	}
	return nil
}

func eventPayload(c *Customer) event.CustomerEventPayload {
	return event.CustomerEventPayload{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Age:        c.Age,
	}
}
