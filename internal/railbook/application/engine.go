package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// Engine books and releases seats. It keeps a train's seat grid and the
// owning user's tickets in step, persisting both through the catalog and
// the directory.
type Engine struct {
	catalog     *Catalog
	directory   *Directory
	clock       pkgDomain.Clock
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

func NewEngine(
	catalog *Catalog,
	directory *Directory,
	clock pkgDomain.Clock,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
) *Engine {
	return &Engine{
		catalog:     catalog,
		directory:   directory,
		clock:       clock,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

// SeatGrid returns a copy of the live grid for train. A train the catalog
// does not know is answered from its own grid.
func (e *Engine) SeatGrid(train domain.Train) domain.SeatGrid {
	return e.liveTrain(train).Seats
}

// Book claims (row, col) on train for user and issues a ticket. train is
// refreshed with the live record on return.
//
// A failed save does not undo anything: the seat stays claimed and the
// ticket stays on the user so memory is consistent, and the error wraps
// domain.ErrPersistence.
func (e *Engine) Book(ctx context.Context, train *domain.Train, row, col int, user *domain.User) (domain.Ticket, error) {
	if user == nil {
		return domain.Ticket{}, domain.ErrNotAuthenticated
	}
	if train == nil {
		return domain.Ticket{}, fmt.Errorf("book: %w", domain.ErrTrainNotFound)
	}

	live := e.liveTrain(*train)
	if !live.Seats.InBounds(row, col) {
		return domain.Ticket{}, fmt.Errorf("book train %s seat (%d,%d): %w", live.ID, row, col, domain.ErrInvalidSeat)
	}
	if !live.Seats.IsFree(row, col) {
		return domain.Ticket{}, fmt.Errorf("book train %s seat (%d,%d): %w", live.ID, row, col, domain.ErrSeatUnavailable)
	}

	live.Seats[row][col] = domain.SeatBooked
	trainErr := e.catalog.Upsert(ctx, live)
	*train = live.Clone()

	source, destination := endpoints(live)
	arrival, _ := live.StationTimes.Lookup(destination)
	ticket := domain.Ticket{
		ID:           e.idGenerator(),
		UserID:       user.ID,
		Source:       source,
		Destination:  destination,
		DateOfTravel: e.clock().Format(domain.DateLayout),
		TrainID:      live.ID,
		Train:        live.Clone(),
		Info:         domain.TicketInfo(live.ID, source, destination, row, col, arrival),
		SeatRow:      row,
		SeatCol:      col,
	}

	user.Tickets = append(user.Tickets, ticket)
	e.directory.Update(*user)
	userErr := e.directory.Persist(ctx)

	if err := errors.Join(trainErr, userErr); err != nil {
		return ticket, err
	}

	pkgApp.LogInfo(ctx, e.logger, "seat booked", map[string]interface{}{
		"ticket_id": ticket.ID,
		"train_id":  ticket.TrainID,
		"seat_row":  row,
		"seat_col":  col,
	})
	return ticket, nil
}

// Cancel releases the seat of the ticket at index and removes the ticket
// from user. It returns the removed ticket.
func (e *Engine) Cancel(ctx context.Context, user *domain.User, index int) (domain.Ticket, error) {
	if user == nil {
		return domain.Ticket{}, domain.ErrNotAuthenticated
	}
	if len(user.Tickets) == 0 {
		return domain.Ticket{}, domain.ErrNoActiveBookings
	}
	if index < 0 || index >= len(user.Tickets) {
		return domain.Ticket{}, fmt.Errorf("cancel booking %d of %d: %w", index+1, len(user.Tickets), domain.ErrInvalidSelection)
	}

	ticket := user.Tickets[index]
	live := e.liveTrain(ticket.Train)
	if live.Seats.InBounds(ticket.SeatRow, ticket.SeatCol) {
		live.Seats[ticket.SeatRow][ticket.SeatCol] = domain.SeatFree
	}
	trainErr := e.catalog.Upsert(ctx, live)

	user.Tickets = append(user.Tickets[:index:index], user.Tickets[index+1:]...)
	e.directory.Update(*user)
	userErr := e.directory.Persist(ctx)

	if err := errors.Join(trainErr, userErr); err != nil {
		return ticket, err
	}

	pkgApp.LogInfo(ctx, e.logger, "booking cancelled", map[string]interface{}{
		"ticket_id": ticket.ID,
		"train_id":  ticket.TrainID,
	})
	return ticket, nil
}

func (e *Engine) BookingsOf(user *domain.User) []domain.Ticket {
	if user == nil {
		return nil
	}
	return append([]domain.Ticket(nil), user.Tickets...)
}

// liveTrain prefers the catalog's record so stale copies held by callers
// never overwrite newer seat state.
func (e *Engine) liveTrain(train domain.Train) domain.Train {
	if live, ok := e.catalog.Get(train.ID); ok {
		return live
	}
	return train.Clone()
}

func endpoints(train domain.Train) (string, string) {
	first, okFirst := train.StationTimes.First()
	last, okLast := train.StationTimes.Last()
	if okFirst && okLast {
		return first.Station, last.Station
	}
	if n := len(train.Stations); n > 0 {
		return train.Stations[0], train.Stations[n-1]
	}
	return "", ""
}
