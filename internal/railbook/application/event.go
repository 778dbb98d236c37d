package application

import (
	"time"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

const (
	TicketBookedEvent    = "TicketBooked"
	TicketCancelledEvent = "TicketCancelled"
)

// TicketEventData is the payload of both ticket events.
type TicketEventData struct {
	TicketID     string    `json:"ticket_id"`
	UserID       string    `json:"user_id"`
	TrainID      string    `json:"train_id"`
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	DateOfTravel string    `json:"date_of_travel"`
	SeatRow      int       `json:"seat_row"`
	SeatCol      int       `json:"seat_col"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type ticketEvent struct {
	name string
	data TicketEventData
}

func (e ticketEvent) EventName() string {
	return e.name
}

func (e ticketEvent) OccurredAt() time.Time {
	return e.data.OccurredAt
}

func (e ticketEvent) Payload() TicketEventData {
	return e.data
}

func newTicketEvent(name string, ticket domain.Ticket, at time.Time) pkgDomain.Event[TicketEventData] {
	return ticketEvent{
		name: name,
		data: TicketEventData{
			TicketID:     ticket.ID,
			UserID:       ticket.UserID,
			TrainID:      ticket.TrainID,
			Source:       ticket.Source,
			Destination:  ticket.Destination,
			DateOfTravel: ticket.DateOfTravel,
			SeatRow:      ticket.SeatRow,
			SeatCol:      ticket.SeatCol,
			OccurredAt:   at,
		},
	}
}

func NewTicketBookedEvent(ticket domain.Ticket, at time.Time) pkgDomain.Event[TicketEventData] {
	return newTicketEvent(TicketBookedEvent, ticket, at)
}

func NewTicketCancelledEvent(ticket domain.Ticket, at time.Time) pkgDomain.Event[TicketEventData] {
	return newTicketEvent(TicketCancelledEvent, ticket, at)
}
