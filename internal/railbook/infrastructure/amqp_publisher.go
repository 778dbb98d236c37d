package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

const BookingConfirmedQueue = "booking.confirmed"

// amqpChannel is the part of *amqp.Channel the forwarder uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(url string) (amqpChannel, error)

// BookingForwarder copies TicketBooked events to the durable
// booking.confirmed queue. It dials per event; bookings are rare and a
// console session may sit idle for hours.
type BookingForwarder struct {
	url    string
	dial   dialFunc
	logger pkgApp.AppLogger
}

func NewBookingForwarder(url string, logger pkgApp.AppLogger) *BookingForwarder {
	return &BookingForwarder{
		url:    url,
		dial:   dialChannel,
		logger: logger,
	}
}

func (f *BookingForwarder) Handle(ctx context.Context, event pkgDomain.Event[application.TicketEventData]) error {
	if event.EventName() != application.TicketBookedEvent {
		return nil
	}

	msg, err := BookingMessage(event)
	if err != nil {
		return err
	}

	ch, err := f.dial(f.url)
	if err != nil {
		pkgApp.LogError(ctx, f.logger, "rabbitmq dial failed", err, nil)
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		pkgApp.LogError(ctx, f.logger, "rabbitmq queue declare failed", err, nil)
		return fmt.Errorf("declare %s: %w", BookingConfirmedQueue, err)
	}

	if err := ch.PublishWithContext(ctx, "", BookingConfirmedQueue, false, false, msg); err != nil {
		pkgApp.LogError(ctx, f.logger, "rabbitmq publish failed", err, map[string]interface{}{
			"ticket_id": event.Payload().TicketID,
		})
		return fmt.Errorf("publish %s: %w", BookingConfirmedQueue, err)
	}

	pkgApp.LogDebug(ctx, f.logger, "booking forwarded", map[string]interface{}{
		"ticket_id": event.Payload().TicketID,
		"queue":     BookingConfirmedQueue,
	})
	return nil
}

// BookingMessage builds the persistent JSON message for a booked ticket.
func BookingMessage(event pkgDomain.Event[application.TicketEventData]) (amqp.Publishing, error) {
	body, err := json.Marshal(event.Payload())
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.Payload().TicketID,
		Type:         event.EventName(),
		Timestamp:    event.OccurredAt().UTC(),
		Body:         body,
	}, nil
}

type connChannel struct {
	*amqp.Channel
	conn *amqp.Connection
}

func (c connChannel) Close() error {
	_ = c.Channel.Close()
	return c.conn.Close()
}

func dialChannel(url string) (amqpChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return connChannel{Channel: ch, conn: conn}, nil
}
