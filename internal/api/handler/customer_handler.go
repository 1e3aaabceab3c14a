package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"customer-api/internal/api/handler/dto"
	"customer-api/internal/domain/customer"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// logLevelFor keeps expected client outcomes out of error-level logs.
func logLevelFor(err error) slog.Level {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrNotModified),
		errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrValidation):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Returns every customer ordered by id. An empty store yields an empty array.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(customers))
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a single customer by id.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	domainCustomer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer",
			slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(domainCustomer))
}

// CreateCustomer handles POST /customers
// @Summary Register a new customer
// @Description Registers a customer. The email is stored lowercased and must not already be registered.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer registration request"
// @Success 200 {object} dto.CustomerResponse "Customer registered"
// @Failure 400 {object} dto.ErrorResponse "Malformed or invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.RegisterCustomer(r.Context(), req.ToRegistration())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to register customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	monitoring.RecordCustomerEvent(monitoring.EventRegistered)
	h.logger.InfoContext(r.Context(), "Customer registered successfully", slog.Int64("customerID", created.ID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(created))
}

// UpdateCustomer handles PUT /customers/{customerID}
// @Summary Partially update a customer
// @Description Applies the fields present in the body. Missing or null fields keep their stored value. Returns 304 with no body when nothing would change.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} dto.CustomerResponse "Customer updated"
// @Success 304 "No changes"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID or request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateCustomer(r.Context(), customerID, req.ToUpdate())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update customer",
			slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	monitoring.RecordCustomerEvent(monitoring.EventUpdated)
	h.logger.InfoContext(r.Context(), "Customer updated successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(updated))
}

// DeleteCustomer handles DELETE /customers/{customerID}
// @Summary Delete a customer
// @Description Removes a customer by id.
// @Tags Customers
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 "Customer deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to delete customer",
			slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	monitoring.RecordCustomerEvent(monitoring.EventDeleted)
	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", customerID))
	respondStatus(w, http.StatusOK)
}
