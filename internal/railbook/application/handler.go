package application

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type signUpHandler struct {
	directory *Directory
	logger    pkgApp.AppLogger
}

func (h *signUpHandler) Handle(ctx context.Context, command pkgDomain.Command[SignUpData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context canceled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if _, err := h.directory.SignUp(ctx, data.Name, data.Password); err != nil {
		pkgApp.LogError(ctx, h.logger, "sign up failed", err, map[string]interface{}{"name": data.Name})
		return err
	}
	return nil
}

func NewSignUpHandler(directory *Directory, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[SignUpData], SignUpData] {
	return &signUpHandler{
		directory: directory,
		logger:    logger,
	}
}

type loginHandler struct {
	directory *Directory
	session   *Session
	metrics   *Metrics
	logger    pkgApp.AppLogger
}

// Handle replaces the session user on success and clears it on failure.
func (h *loginHandler) Handle(ctx context.Context, command pkgDomain.Command[LoginData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context canceled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	user, ok := h.directory.Login(data.Name, data.Password)
	if !ok {
		h.session.Clear()
		h.metrics.LoginFailed()
		pkgApp.LogInfo(ctx, h.logger, "login failed", map[string]interface{}{"name": data.Name})
		return domain.ErrInvalidCredentials
	}

	h.session.SetUser(user)
	pkgApp.LogInfo(ctx, h.logger, "user logged in", map[string]interface{}{"user_id": user.ID})
	return nil
}

func NewLoginHandler(directory *Directory, session *Session, metrics *Metrics, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[LoginData], LoginData] {
	return &loginHandler{
		directory: directory,
		session:   session,
		metrics:   metrics,
		logger:    logger,
	}
}

type bookSeatHandler struct {
	engine   *Engine
	session  *Session
	eventBus TicketEventBus
	clock    pkgDomain.Clock
	logger   pkgApp.AppLogger
}

func (h *bookSeatHandler) Handle(ctx context.Context, command pkgDomain.Command[BookSeatData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context canceled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	ticket, err := h.engine.Book(ctx, data.Train, data.Row, data.Col, h.session.User())
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "booking failed", err, map[string]interface{}{
			"seat_row": data.Row,
			"seat_col": data.Col,
		})
		return err
	}

	publishTicketEvent(ctx, h.eventBus, h.logger, NewTicketBookedEvent(ticket, h.clock()))
	return nil
}

func NewBookSeatHandler(engine *Engine, session *Session, eventBus TicketEventBus, clock pkgDomain.Clock, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[BookSeatData], BookSeatData] {
	return &bookSeatHandler{
		engine:   engine,
		session:  session,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

type cancelTicketHandler struct {
	engine   *Engine
	session  *Session
	eventBus TicketEventBus
	clock    pkgDomain.Clock
	logger   pkgApp.AppLogger
}

func (h *cancelTicketHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelTicketData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context canceled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	ticket, err := h.engine.Cancel(ctx, h.session.User(), data.Index)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "cancellation failed", err, map[string]interface{}{"index": data.Index})
		return err
	}

	publishTicketEvent(ctx, h.eventBus, h.logger, NewTicketCancelledEvent(ticket, h.clock()))
	return nil
}

func NewCancelTicketHandler(engine *Engine, session *Session, eventBus TicketEventBus, clock pkgDomain.Clock, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelTicketData], CancelTicketData] {
	return &cancelTicketHandler{
		engine:   engine,
		session:  session,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

// publishTicketEvent only logs a failed publish. The change it announces is
// already saved.
func publishTicketEvent(ctx context.Context, bus TicketEventBus, logger pkgApp.AppLogger, event pkgDomain.Event[TicketEventData]) {
	if err := bus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, logger, "failed to publish event", err, map[string]interface{}{
			"event":     event.EventName(),
			"ticket_id": event.Payload().TicketID,
		})
	}
}

type searchTrainsHandler struct {
	catalog *Catalog
	logger  pkgApp.AppLogger
}

func (h *searchTrainsHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchTrainsData]) ([]domain.Train, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	data := query.Payload()
	trains := h.catalog.Search(data.Source, data.Destination)
	pkgApp.LogDebug(ctx, h.logger, "trains searched", map[string]interface{}{
		"source":      data.Source,
		"destination": data.Destination,
		"count":       len(trains),
	})
	return trains, nil
}

func NewSearchTrainsHandler(catalog *Catalog, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchTrainsData], SearchTrainsData, []domain.Train] {
	return &searchTrainsHandler{
		catalog: catalog,
		logger:  logger,
	}
}

type seatGridHandler struct {
	engine *Engine
}

func (h *seatGridHandler) Handle(ctx context.Context, query pkgDomain.Query[SeatGridData]) (domain.SeatGrid, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return h.engine.SeatGrid(query.Payload().Train), nil
}

func NewSeatGridHandler(engine *Engine) pkgApp.QueryHandler[pkgDomain.Query[SeatGridData], SeatGridData, domain.SeatGrid] {
	return &seatGridHandler{engine: engine}
}

type myBookingsHandler struct {
	engine  *Engine
	session *Session
}

func (h *myBookingsHandler) Handle(ctx context.Context, _ pkgDomain.Query[MyBookingsData]) ([]domain.Ticket, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	user := h.session.User()
	if user == nil {
		return nil, fmt.Errorf("fetch bookings: %w", domain.ErrNotAuthenticated)
	}
	return h.engine.BookingsOf(user), nil
}

func NewMyBookingsHandler(engine *Engine, session *Session) pkgApp.QueryHandler[pkgDomain.Query[MyBookingsData], MyBookingsData, []domain.Ticket] {
	return &myBookingsHandler{
		engine:  engine,
		session: session,
	}
}
