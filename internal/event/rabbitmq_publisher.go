package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publisherAppID = "customer-api"

// publishChannel is the subset of *amqp.Channel the publisher needs.
type publishChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type channelOpener func() (publishChannel, error)

type RabbitMQEventPublisher struct {
	openChannel  channelOpener
	exchangeName string
	now          func() time.Time
	logger       *slog.Logger
}

var _ Publisher = (*RabbitMQEventPublisher)(nil)

func NewRabbitMQEventPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	return newPublisher(func() (publishChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}, exchangeName, logger)
}

func newPublisher(open channelOpener, exchangeName string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	if err := tempCh.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQEventPublisher{
		openChannel:  open,
		exchangeName: exchangeName,
		now:          time.Now,
		logger:       logger.With("component", "RabbitMQEventPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQEventPublisher) PublishCustomerRegistered(ctx context.Context, payload CustomerEventPayload) error {
	return p.publish(ctx, routingKeyCustomerRegistered, payload)
}

func (p *RabbitMQEventPublisher) PublishCustomerUpdated(ctx context.Context, payload CustomerEventPayload) error {
	return p.publish(ctx, routingKeyCustomerUpdated, payload)
}

func (p *RabbitMQEventPublisher) PublishCustomerDeleted(ctx context.Context, customerID int64) error {
	return p.publish(ctx, routingKeyCustomerDeleted, CustomerEventPayload{CustomerID: customerID})
}

func (p *RabbitMQEventPublisher) publish(ctx context.Context, routingKey string, payload CustomerEventPayload) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey), slog.Int64("customerID", payload.CustomerID))

	channel, err := p.openChannel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	ts := p.now().UTC()
	body, err := json.Marshal(CustomerEvent{Type: routingKey, Timestamp: ts, Payload: payload})
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(body))

	err = channel.PublishWithContext(ctx, p.exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		Body:         body,
		AppId:        publisherAppID,
		Type:         routingKey,
	})
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}

// Connect dials the broker once and logs when the connection is blocked or
// closed by the server.
func Connect(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("Successfully connected to RabbitMQ")

	go func() {
		blockChan := conn.NotifyBlocked(make(chan amqp.Blocking, 1))
		closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

		for {
			select {
			case b := <-blockChan:
				logger.Warn("RabbitMQ connection blocked", "active", b.Active, "reason", b.Reason)
			case e, ok := <-closeChan:
				if ok && e != nil {
					logger.Error("RabbitMQ connection closed", slog.Any("error", e))
				}
				return
			}
		}
	}()

	return conn, nil
}
