package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
)

// TrainHTTPHandler serves the catalog over HTTP. It never books or cancels.
type TrainHTTPHandler struct {
	searchBus application.SearchTrainsBus
	seatBus   application.SeatGridBus
	gatherer  prometheus.Gatherer
	logger    pkgApp.AppLogger
}

func NewTrainHTTPHandler(searchBus application.SearchTrainsBus, seatBus application.SeatGridBus, gatherer prometheus.Gatherer, logger pkgApp.AppLogger) *TrainHTTPHandler {
	return &TrainHTTPHandler{
		searchBus: searchBus,
		seatBus:   seatBus,
		gatherer:  gatherer,
		logger:    logger,
	}
}

type seatGridResponse struct {
	TrainID string          `json:"train_id"`
	Seats   domain.SeatGrid `json:"seats"`
	Free    int             `json:"free"`
}

func (h *TrainHTTPHandler) HandleSearchTrains(w http.ResponseWriter, r *http.Request) {
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	destination := strings.TrimSpace(r.URL.Query().Get("destination"))
	if source == "" || destination == "" {
		handleError(w, "source and destination are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	trains, err := h.searchBus.Dispatch(ctx, application.NewSearchTrainsQuery(application.SearchTrainsData{
		Source:      source,
		Destination: destination,
	}))
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "search trains request failed", err, map[string]interface{}{
			"source":      source,
			"destination": destination,
		})
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	pkgApp.LogDebug(ctx, h.logger, "search trains request served", map[string]interface{}{
		"source":      source,
		"destination": destination,
		"matches":     len(trains),
	})
	writeJSON(w, http.StatusOK, trains)
}

// HandleSeatGrid answers with the live grid of a catalog train. Unknown ids
// get 404 rather than the grid of an empty train.
func (h *TrainHTTPHandler) HandleSeatGrid(w http.ResponseWriter, r *http.Request) {
	trainID := chi.URLParam(r, "trainID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	grid, err := h.seatBus.Dispatch(ctx, application.NewSeatGridQuery(application.SeatGridData{
		Train: domain.Train{ID: trainID},
	}))
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "seat grid request failed", err, map[string]interface{}{
			"train_id": trainID,
		})
		handleError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if grid == nil {
		pkgApp.LogDebug(ctx, h.logger, "seat grid request for unknown train", map[string]interface{}{
			"train_id": trainID,
		})
		handleError(w, domain.ErrTrainNotFound.Error()+": "+trainID, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, seatGridResponse{TrainID: trainID, Seats: grid, Free: grid.FreeCount()})
}

func (h *TrainHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/trains", h.HandleSearchTrains)
	router.Get("/trains/{trainID}/seats", h.HandleSeatGrid)
	router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

func NewRouter(handler *TrainHTTPHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID, requestLogContext, middleware.Recoverer)
	handler.RegisterRoutes(router)
	return router
}

// requestLogContext hands chi's request id to the application logger.
func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := pkgApp.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func handleError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}
