package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"customer-api/internal/api/handler/dto"
	"customer-api/internal/domain/customer"
	"customer-api/internal/infrastructure/monitoring"
	"customer-api/internal/pkg/apperrors"
	"customer-api/internal/pkg/optional"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	if customers, ok := args.Get(0).([]*customer.Customer); ok {
		return customers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) RegisterCustomer(ctx context.Context, reg customer.Registration) (*customer.Customer, error) {
	args := m.Called(ctx, reg)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID int64, upd customer.Update) (*customer.Customer, error) {
	args := m.Called(ctx, customerID, upd)
	if c, ok := args.Get(0).(*customer.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func setupHandler() (*MockCustomerService, *CustomerHandler) {
	mockService := new(MockCustomerService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return mockService, NewCustomerHandler(mockService, logger)
}

func withCustomerID(req *http.Request, id string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{Keys: []string{"customerID"}, Values: []string{id}},
	}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorDetail {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func alice() *customer.Customer {
	return &customer.Customer{ID: 1, Name: "Alice Smith", Email: "alice.smith@gmail.com", Age: 30}
}

func TestNewCustomerHandlerPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Panics(t, func() { NewCustomerHandler(nil, logger) })
	assert.Panics(t, func() { NewCustomerHandler(new(MockCustomerService), nil) })
}

func TestCustomerHandlerListCustomers(t *testing.T) {
	t.Run("returns all customers", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("ListCustomers", mock.Anything).Return([]*customer.Customer{
			alice(),
			{ID: 2, Name: "Bob Jones", Email: "bob.jones@gmail.com", Age: 41},
		}, nil)

		rec := httptest.NewRecorder()
		handler.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp []dto.CustomerResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, dto.CustomerResponse{ID: 1, Name: "Alice Smith", Email: "alice.smith@gmail.com", Age: 30}, resp[0])
		mockService.AssertExpectations(t)
	})

	t.Run("returns empty array not null", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("ListCustomers", mock.Anything).Return([]*customer.Customer{}, nil)

		rec := httptest.NewRecorder()
		handler.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("maps storage failure to 500", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("ListCustomers", mock.Anything).Return(nil, fmt.Errorf("failed to list customers: %w", apperrors.ErrDatabase))

		rec := httptest.NewRecorder()
		handler.ListCustomers(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL", decodeError(t, rec).Code)
	})
}

func TestCustomerHandlerGetCustomer(t *testing.T) {
	t.Run("returns customer", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("GetCustomer", mock.Anything, int64(1)).Return(alice(), nil)

		rec := httptest.NewRecorder()
		handler.GetCustomer(rec, withCustomerID(httptest.NewRequest(http.MethodGet, "/customers/1", nil), "1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"name":"Alice Smith","email":"alice.smith@gmail.com","age":30}`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("returns 404 for missing customer", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("GetCustomer", mock.Anything, int64(99)).
			Return(nil, fmt.Errorf("customer with id [99]: %w", customer.ErrNotFound))

		rec := httptest.NewRecorder()
		handler.GetCustomer(rec, withCustomerID(httptest.NewRequest(http.MethodGet, "/customers/99", nil), "99"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, "CUSTOMER_NOT_FOUND", detail.Code)
		assert.Equal(t, "customer not found", detail.Message)
	})

	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		t.Run("rejects id "+id, func(t *testing.T) {
			mockService, handler := setupHandler()

			rec := httptest.NewRecorder()
			handler.GetCustomer(rec, withCustomerID(httptest.NewRequest(http.MethodGet, "/customers/x", nil), id))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "customerID", decodeError(t, rec).Field)
			mockService.AssertNotCalled(t, "GetCustomer", mock.Anything, mock.Anything)
		})
	}
}

func TestCustomerHandlerCreateCustomer(t *testing.T) {
	t.Run("registers customer and returns record", func(t *testing.T) {
		mockService, handler := setupHandler()
		before := testutil.ToFloat64(monitoring.Business.CustomerEventsTotal.WithLabelValues(monitoring.EventRegistered))

		reg := customer.Registration{Name: "Alice Smith", Email: "Alice.Smith@gmail.com", Age: 30}
		mockService.On("RegisterCustomer", mock.Anything, reg).Return(alice(), nil)

		body := `{"name":"Alice Smith","email":"Alice.Smith@gmail.com","age":30}`
		rec := httptest.NewRecorder()
		handler.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"name":"Alice Smith","email":"alice.smith@gmail.com","age":30}`, rec.Body.String())
		assert.Equal(t, before+1, testutil.ToFloat64(monitoring.Business.CustomerEventsTotal.WithLabelValues(monitoring.EventRegistered)))
		mockService.AssertExpectations(t)
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("RegisterCustomer", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("email alice.smith@gmail.com: %w", customer.ErrDuplicateEmail))

		body := `{"name":"Alice Smith","email":"alice.smith@gmail.com","age":30}`
		rec := httptest.NewRecorder()
		handler.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "DUPLICATE_EMAIL", decodeError(t, rec).Code)
	})

	badBodies := map[string]struct {
		body  string
		field string
	}{
		"malformed json": {body: `{"name":`},
		"unknown field":  {body: `{"name":"A","email":"a@b.co","age":1,"nickname":"x"}`},
		"missing name":   {body: `{"email":"a@b.co","age":1}`, field: "name"},
		"invalid email":  {body: `{"name":"A","email":"not-an-email","age":1}`, field: "email"},
		"missing age":    {body: `{"name":"A","email":"a@b.co"}`, field: "age"},
		"negative age":   {body: `{"name":"A","email":"a@b.co","age":-1}`, field: "age"},
		"age wrong type": {body: `{"name":"A","email":"a@b.co","age":"ten"}`},
		"empty body":     {body: ``},
	}
	for name, tc := range badBodies {
		t.Run("returns 400 for "+name, func(t *testing.T) {
			mockService, handler := setupHandler()

			rec := httptest.NewRecorder()
			handler.CreateCustomer(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(tc.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tc.field, detail.Field)
			mockService.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything)
		})
	}
}

func TestCustomerHandlerUpdateCustomer(t *testing.T) {
	t.Run("applies present fields only", func(t *testing.T) {
		mockService, handler := setupHandler()
		upd := customer.Update{Email: optional.Of("bob@x.com")}
		updated := alice()
		updated.Email = "bob@x.com"
		mockService.On("UpdateCustomer", mock.Anything, int64(1), upd).Return(updated, nil)

		body := `{"email":"bob@x.com","name":null}`
		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1", strings.NewReader(body)), "1")
		rec := httptest.NewRecorder()
		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"name":"Alice Smith","email":"bob@x.com","age":30}`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("returns 304 without body when nothing changed", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("UpdateCustomer", mock.Anything, int64(1), mock.Anything).
			Return(nil, fmt.Errorf("customer with id [1]: %w", customer.ErrNotModified))

		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1", strings.NewReader(`{"age":30}`)), "1")
		rec := httptest.NewRecorder()
		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("returns 404 for missing customer", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("UpdateCustomer", mock.Anything, int64(7), mock.Anything).
			Return(nil, fmt.Errorf("customer with id [7]: %w", customer.ErrNotFound))

		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/7", strings.NewReader(`{"age":31}`)), "7")
		rec := httptest.NewRecorder()
		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 409 when email belongs to another customer", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("UpdateCustomer", mock.Anything, int64(1), mock.Anything).
			Return(nil, fmt.Errorf("email bob@x.com: %w", customer.ErrDuplicateEmail))

		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1", strings.NewReader(`{"email":"bob@x.com"}`)), "1")
		rec := httptest.NewRecorder()
		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "DUPLICATE_EMAIL", decodeError(t, rec).Code)
	})

	t.Run("returns 400 for invalid present field", func(t *testing.T) {
		mockService, handler := setupHandler()

		req := withCustomerID(httptest.NewRequest(http.MethodPut, "/customers/1", strings.NewReader(`{"email":"nope"}`)), "1")
		rec := httptest.NewRecorder()
		handler.UpdateCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "email", decodeError(t, rec).Field)
		mockService.AssertNotCalled(t, "UpdateCustomer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCustomerHandlerDeleteCustomer(t *testing.T) {
	t.Run("returns 200 with no body", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("DeleteCustomer", mock.Anything, int64(3)).Return(nil)

		rec := httptest.NewRecorder()
		handler.DeleteCustomer(rec, withCustomerID(httptest.NewRequest(http.MethodDelete, "/customers/3", nil), "3"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
		mockService.AssertExpectations(t)
	})

	t.Run("returns 404 for missing customer", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("DeleteCustomer", mock.Anything, int64(3)).
			Return(fmt.Errorf("customer with id [3]: %w", customer.ErrNotFound))

		rec := httptest.NewRecorder()
		handler.DeleteCustomer(rec, withCustomerID(httptest.NewRequest(http.MethodDelete, "/customers/3", nil), "3"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "CUSTOMER_NOT_FOUND", decodeError(t, rec).Code)
	})

	t.Run("returns 500 on unexpected failure", func(t *testing.T) {
		mockService, handler := setupHandler()
		mockService.On("DeleteCustomer", mock.Anything, int64(3)).Return(errors.New("boom"))

		rec := httptest.NewRecorder()
		handler.DeleteCustomer(rec, withCustomerID(httptest.NewRequest(http.MethodDelete, "/customers/3", nil), "3"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
