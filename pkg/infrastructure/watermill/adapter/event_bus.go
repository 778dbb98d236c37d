package adapter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

const occurredAtKey = "occurred_at"

// WatermillEventBus publishes events as JSON messages on a topic named after
// the event and delivers them to handlers from a subscription. The same bus
// works over any watermill Publisher/Subscriber pair: gochannel, Redis
// Streams or Kafka.
type WatermillEventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	mu         sync.RWMutex
	logger     application.AppLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatermillEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillEventBus[E, D] {
	ctx, cancel := context.WithCancel(context.Background())
	return &WatermillEventBus[E, D]{
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string][]application.EventHandler[E, D]),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RegisterHandler subscribes to the event topic the first time a handler
// for it is registered. Later handlers join the same subscription.
func (bus *WatermillEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	_, subscribed := bus.handlers[eventName]
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	bus.mu.Unlock()

	if subscribed {
		return
	}

	messages, err := bus.subscriber.Subscribe(bus.ctx, eventName)
	if err != nil {
		application.LogError(bus.ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for msg := range messages {
			bus.handleMessage(eventName, msg)
		}
	}()
}

func (bus *WatermillEventBus[E, D]) handleMessage(eventName string, msg *message.Message) {
	ctx := bus.ctx
	payload, err := application.UnmarshalPayload[D](msg.Payload)
	if err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Ack()
		return
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get(occurredAtKey))
	if err != nil {
		occurredAt = time.Now()
	}

	typedEvent, ok := interface{}(&dynamicEvent[D]{eventName: eventName, occurredAt: occurredAt, payload: payload}).(E)
	if !ok {
		application.LogError(ctx, bus.logger, "error asserting event type", nil, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Ack()
		return
	}

	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	bus.mu.RUnlock()

	// Every handler runs once per message; failures are logged, never redelivered.
	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(ctx, typedEvent); err != nil {
			errs = append(errs, err)
		}
	}
	msg.Ack()

	if err := errors.Join(errs...); err != nil {
		application.LogError(ctx, bus.logger, "event handlers failed", err, map[string]interface{}{
			"event_name": eventName,
			"message_id": msg.UUID,
		})
		return
	}

	application.LogDebug(ctx, bus.logger, "event handled", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
}

func (bus *WatermillEventBus[E, D]) Publish(ctx context.Context, event E) error {
	eventName := event.EventName()

	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(occurredAtKey, event.OccurredAt().Format(time.RFC3339Nano))
	msg.SetContext(ctx)

	if err := bus.publisher.Publish(eventName, msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	application.LogDebug(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
	return nil
}

// Close stops the subscriptions and waits for in-flight handlers. The
// publisher and subscriber are owned by the caller.
func (bus *WatermillEventBus[E, D]) Close() error {
	bus.cancel()
	bus.wg.Wait()
	return nil
}

type dynamicEvent[D any] struct {
	eventName  string
	occurredAt time.Time
	payload    D
}

func (e *dynamicEvent[D]) EventName() string     { return e.eventName }
func (e *dynamicEvent[D]) OccurredAt() time.Time { return e.occurredAt }
func (e *dynamicEvent[D]) Payload() D            { return e.payload }

// NewGoChannelPubSub builds the in-process transport. Messages are not
// persisted and are lost when the process exits.
func NewGoChannelPubSub(logger application.AppLogger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, NewWatermillLoggerAdapter(logger))
}
