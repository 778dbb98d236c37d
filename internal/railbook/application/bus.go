package application

import (
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type (
	SignUpBus       = pkgApp.CommandBus[pkgDomain.Command[SignUpData], SignUpData]
	LoginBus        = pkgApp.CommandBus[pkgDomain.Command[LoginData], LoginData]
	BookSeatBus     = pkgApp.CommandBus[pkgDomain.Command[BookSeatData], BookSeatData]
	CancelTicketBus = pkgApp.CommandBus[pkgDomain.Command[CancelTicketData], CancelTicketData]

	SearchTrainsBus = pkgApp.QueryBus[pkgDomain.Query[SearchTrainsData], SearchTrainsData, []domain.Train]
	SeatGridBus     = pkgApp.QueryBus[pkgDomain.Query[SeatGridData], SeatGridData, domain.SeatGrid]
	MyBookingsBus   = pkgApp.QueryBus[pkgDomain.Query[MyBookingsData], MyBookingsData, []domain.Ticket]

	TicketEventBus     = pkgApp.EventBus[pkgDomain.Event[TicketEventData], TicketEventData]
	TicketEventHandler = pkgApp.EventHandler[pkgDomain.Event[TicketEventData], TicketEventData]
)

// Buses groups every bus the console dispatches on.
type Buses struct {
	SignUp       SignUpBus
	Login        LoginBus
	BookSeat     BookSeatBus
	CancelTicket CancelTicketBus
	SearchTrains SearchTrainsBus
	SeatGrid     SeatGridBus
	MyBookings   MyBookingsBus
}
