package application

import (
	"context"

	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type ticketEventLogHandler struct {
	logger pkgApp.AppLogger
}

func (h *ticketEventLogHandler) Handle(ctx context.Context, event pkgDomain.Event[TicketEventData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context canceled", ctx.Err(), nil)
		return ctx.Err()
	}

	pkgApp.LogInfo(ctx, h.logger, "event received", map[string]interface{}{
		"event":       event.EventName(),
		"occurred_at": event.OccurredAt(),
		"payload":     event.Payload(),
	})
	return nil
}

func NewTicketEventLogHandler(logger pkgApp.AppLogger) TicketEventHandler {
	return &ticketEventLogHandler{logger: logger}
}

// NewTicketMetricsHandler counts ticket events by name.
func NewTicketMetricsHandler(metrics *Metrics) TicketEventHandler {
	return pkgApp.EventHandlerFunc[pkgDomain.Event[TicketEventData], TicketEventData](
		func(_ context.Context, event pkgDomain.Event[TicketEventData]) error {
			switch event.EventName() {
			case TicketBookedEvent:
				metrics.TicketBooked()
			case TicketCancelledEvent:
				metrics.TicketCancelled()
			}
			return nil
		})
}
