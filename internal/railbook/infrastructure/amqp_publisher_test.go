package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	routingKey string
	publishErr error
	closed     bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.routingKey = key
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestForwarder(ch *fakeChannel, dialErr error) *BookingForwarder {
	f := NewBookingForwarder("amqp://test", pkgApp.NopLogger{})
	f.dial = func(string) (amqpChannel, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return ch, nil
	}
	return f
}

var bookedAt = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

func bookedTicket() domain.Ticket {
	return domain.Ticket{ID: "t-1", UserID: "u-1", TrainID: "101", Source: "delhi", Destination: "jaipur", DateOfTravel: "2024-03-09", SeatRow: 1, SeatCol: 0}
}

func TestBookingForwarder_ForwardsBookedTickets(t *testing.T) {
	ch := &fakeChannel{}
	f := newTestForwarder(ch, nil)

	err := f.Handle(context.Background(), application.NewTicketBookedEvent(bookedTicket(), bookedAt))
	require.NoError(t, err)

	assert.Equal(t, []string{BookingConfirmedQueue}, ch.declared)
	assert.Equal(t, BookingConfirmedQueue, ch.routingKey)
	assert.True(t, ch.closed)
	require.Len(t, ch.published, 1)

	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "t-1", msg.MessageId)
	assert.Equal(t, application.TicketBookedEvent, msg.Type)

	var payload application.TicketEventData
	require.NoError(t, json.Unmarshal(msg.Body, &payload))
	assert.Equal(t, "delhi", payload.Source)
	assert.Equal(t, 1, payload.SeatRow)
	assert.True(t, bookedAt.Equal(payload.OccurredAt))
}

func TestBookingForwarder_IgnoresCancellations(t *testing.T) {
	ch := &fakeChannel{}
	f := newTestForwarder(ch, errors.New("must not dial"))

	err := f.Handle(context.Background(), application.NewTicketCancelledEvent(bookedTicket(), bookedAt))
	assert.NoError(t, err)
	assert.Empty(t, ch.published)
}

func TestBookingForwarder_Errors(t *testing.T) {
	event := application.NewTicketBookedEvent(bookedTicket(), bookedAt)

	err := newTestForwarder(nil, errors.New("connection refused")).Handle(context.Background(), event)
	assert.ErrorContains(t, err, "connection refused")

	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	err = newTestForwarder(ch, nil).Handle(context.Background(), event)
	assert.ErrorContains(t, err, "channel closed")
	assert.True(t, ch.closed)
}
