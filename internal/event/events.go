package event

import (
	"context"
	"time"
)

const (
	routingKeyCustomerRegistered = "customer.registered"
	routingKeyCustomerUpdated    = "customer.updated"
	routingKeyCustomerDeleted    = "customer.deleted"
)

type CustomerEventPayload struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Age        int    `json:"age,omitempty"`
}

type CustomerEvent struct {
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

// Publisher announces customer lifecycle changes after they are committed.
type Publisher interface {
	PublishCustomerRegistered(ctx context.Context, payload CustomerEventPayload) error
	PublishCustomerUpdated(ctx context.Context, payload CustomerEventPayload) error
	PublishCustomerDeleted(ctx context.Context, customerID int64) error
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCustomerRegistered(context.Context, CustomerEventPayload) error {
	return nil
}

func (NopPublisher) PublishCustomerUpdated(context.Context, CustomerEventPayload) error {
	return nil
}

func (NopPublisher) PublishCustomerDeleted(context.Context, int64) error {
	return nil
}

var _ Publisher = NopPublisher{}
