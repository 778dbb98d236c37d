package railbook

import (
	"context"
	"io"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	"github.com/mateusmacedo/go-railbook/internal/railbook/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
)

type Dependencies struct {
	TrainStore  pkgDomain.RecordStore[domain.Train]
	UserStore   pkgDomain.RecordStore[domain.User]
	Verifier    domain.CredentialVerifier
	IDGenerator pkgDomain.IDGenerator[string]
	Clock       pkgDomain.Clock
	Logger      pkgApp.AppLogger
	// Registry receives the railbook counters and backs /metrics.
	Registry *prometheus.Registry
	// AMQPURL, when set, forwards booked tickets to RabbitMQ.
	AMQPURL string
}

type RailbookSlice struct {
	Catalog   *application.Catalog
	Directory *application.Directory
	Engine    *application.Engine
	Session   *application.Session
	Metrics   *application.Metrics

	buses       application.Buses
	logger      pkgApp.AppLogger
	httpHandler *infrastructure.TrainHTTPHandler
}

// NewSimpleBuses builds in-process buses for every command and query of the
// slice. Commands run on the caller's goroutine.
func NewSimpleBuses(logger pkgApp.AppLogger) application.Buses {
	return application.Buses{
		SignUp:       pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.SignUpData], application.SignUpData](logger),
		Login:        pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.LoginData], application.LoginData](logger),
		BookSeat:     pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookSeatData], application.BookSeatData](logger),
		CancelTicket: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelTicketData], application.CancelTicketData](logger),
		SearchTrains: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []domain.Train](logger),
		SeatGrid:     pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SeatGridData], application.SeatGridData, domain.SeatGrid](logger),
		MyBookings:   pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.MyBookingsData], application.MyBookingsData, []domain.Ticket](logger),
	}
}

func NewRailbookSlice(buses application.Buses, eventBus application.TicketEventBus, deps Dependencies) *RailbookSlice {
	logger := deps.Logger
	catalog := application.NewCatalog(deps.TrainStore, logger)
	directory := application.NewDirectory(deps.UserStore, deps.Verifier, deps.IDGenerator, logger)
	engine := application.NewEngine(catalog, directory, deps.Clock, deps.IDGenerator, logger)
	session := application.NewSession()

	var registerer prometheus.Registerer
	var gatherer prometheus.Gatherer = prometheus.NewRegistry()
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	metrics := application.NewMetrics(registerer)

	buses.SignUp.RegisterHandler(application.SignUpCommand, application.NewSignUpHandler(directory, logger))
	buses.Login.RegisterHandler(application.LoginCommand, application.NewLoginHandler(directory, session, metrics, logger))
	buses.BookSeat.RegisterHandler(application.BookSeatCommand, application.NewBookSeatHandler(engine, session, eventBus, deps.Clock, logger))
	buses.CancelTicket.RegisterHandler(application.CancelTicketCommand, application.NewCancelTicketHandler(engine, session, eventBus, deps.Clock, logger))
	buses.SearchTrains.RegisterHandler(application.SearchTrainsQuery, application.NewSearchTrainsHandler(catalog, logger))
	buses.SeatGrid.RegisterHandler(application.SeatGridQuery, application.NewSeatGridHandler(engine))
	buses.MyBookings.RegisterHandler(application.MyBookingsQuery, application.NewMyBookingsHandler(engine, session))

	for _, name := range []string{application.TicketBookedEvent, application.TicketCancelledEvent} {
		eventBus.RegisterHandler(name, application.NewTicketEventLogHandler(logger))
		eventBus.RegisterHandler(name, application.NewTicketMetricsHandler(metrics))
	}
	if deps.AMQPURL != "" {
		eventBus.RegisterHandler(application.TicketBookedEvent, infrastructure.NewBookingForwarder(deps.AMQPURL, logger))
	}

	return &RailbookSlice{
		Catalog:     catalog,
		Directory:   directory,
		Engine:      engine,
		Session:     session,
		Metrics:     metrics,
		buses:       buses,
		logger:      logger,
		httpHandler: infrastructure.NewTrainHTTPHandler(buses.SearchTrains, buses.SeatGrid, gatherer, logger),
	}
}

// Load reads both collections. It must succeed before the shell starts.
func (s *RailbookSlice) Load(ctx context.Context) error {
	if err := s.Catalog.Load(ctx); err != nil {
		return err
	}
	if err := s.Directory.Load(ctx); err != nil {
		return err
	}
	pkgApp.LogInfo(ctx, s.logger, "railbook data loaded", map[string]interface{}{
		"trains": len(s.Catalog.All()),
		"users":  s.Directory.Count(),
	})
	return nil
}

func (s *RailbookSlice) NewShell(in io.Reader, out io.Writer) *infrastructure.Shell {
	return infrastructure.NewShell(s.buses, s.Session, in, out, s.logger)
}

func (s *RailbookSlice) Router() *chi.Mux {
	return infrastructure.NewRouter(s.httpHandler)
}
