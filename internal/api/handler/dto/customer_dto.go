package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"customer-api/internal/domain/customer"
	"customer-api/internal/pkg/apperrors"
	"customer-api/internal/pkg/optional"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const (
	nameRules  = "required,max=255"
	emailRules = "required,email,max=320"
	ageRules   = "gte=0,lte=150"
)

type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255" example:"Alice Smith"`
	Email string `json:"email" validate:"required,email,max=320" example:"alice.smith@gmail.com"`
	Age   *int   `json:"age" validate:"required,gte=0,lte=150" example:"30"`
}

func (r *CreateCustomerRequest) Validate() error {
	return translateValidationError(validate.Struct(r))
}

func (r *CreateCustomerRequest) ToRegistration() customer.Registration {
	reg := customer.Registration{Name: r.Name, Email: r.Email}
	if r.Age != nil {
		reg.Age = *r.Age
	}
	return reg
}

// UpdateCustomerRequest fields are all optional; a missing key or null leaves
// the stored value untouched.
type UpdateCustomerRequest struct {
	Name  optional.Value[string] `json:"name" swaggertype:"string" example:"Alice Smith"`
	Email optional.Value[string] `json:"email" swaggertype:"string" example:"alice.smith@gmail.com"`
	Age   optional.Value[int]    `json:"age" swaggertype:"integer" example:"31"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if name, ok := r.Name.Get(); ok {
		if err := validateField("name", name, nameRules); err != nil {
			return err
		}
	}
	if email, ok := r.Email.Get(); ok {
		if err := validateField("email", email, emailRules); err != nil {
			return err
		}
	}
	if age, ok := r.Age.Get(); ok {
		if err := validateField("age", age, ageRules); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateCustomerRequest) ToUpdate() customer.Update {
	return customer.Update{
		Name:  r.Name,
		Email: r.Email,
		Age:   r.Age,
	}
}

func validateField(field string, value any, rules string) error {
	err := validate.Var(value, rules)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.NewValidationError(field, describe(verrs[0]))
	}
	return err
}

func translateValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.NewValidationError(verrs[0].Field(), describe(verrs[0]))
	}
	return fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}

type CustomerResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Alice Smith"`
	Email string `json:"email" example:"alice.smith@gmail.com"`
	Age   int    `json:"age" example:"30"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Age:   c.Age,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty" example:"CUSTOMER_NOT_FOUND"`
	Message string `json:"message" example:"customer not found"`
	Field   string `json:"field,omitempty" example:"email"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
