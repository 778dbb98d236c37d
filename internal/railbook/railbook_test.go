package railbook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
	"github.com/mateusmacedo/go-railbook/pkg/infrastructure/store"
	zapAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/zaplogger/adapter"
)

type plainVerifier struct{}

func (plainVerifier) Hash(secret string) (string, error) { return "digest:" + secret, nil }
func (plainVerifier) Verify(secret, digest string) bool  { return digest == "digest:"+secret }

func newTestSlice(t *testing.T) (*RailbookSlice, *store.MemoryStore[domain.User], *prometheus.Registry) {
	t.Helper()
	return newTestSliceWithLogger(t, pkgApp.NopLogger{})
}

func newTestSliceWithLogger(t *testing.T, logger pkgApp.AppLogger) (*RailbookSlice, *store.MemoryStore[domain.User], *prometheus.Registry) {
	t.Helper()

	trains := store.NewMemoryStore(domain.Train{
		ID:       "101",
		Stations: []string{"delhi", "agra", "jaipur"},
		StationTimes: domain.StationTimes{
			{Station: "delhi", Time: "08:00"},
			{Station: "agra", Time: "10:30"},
			{Station: "jaipur", Time: "13:15"},
		},
		Seats: domain.NewSeatGrid(2, 2),
	})
	users := store.NewMemoryStore[domain.User]()

	n := 0
	ids := func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	registry := prometheus.NewRegistry()

	slice := NewRailbookSlice(
		NewSimpleBuses(logger),
		pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.TicketEventData], application.TicketEventData](logger),
		Dependencies{
			TrainStore:  trains,
			UserStore:   users,
			Verifier:    plainVerifier{},
			IDGenerator: ids,
			Clock:       func() time.Time { return time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC) },
			Logger:      logger,
			Registry:    registry,
		},
	)
	require.NoError(t, slice.Load(context.Background()))
	return slice, users, registry
}

func runShell(t *testing.T, slice *RailbookSlice, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, slice.NewShell(strings.NewReader(input), &out).Run(context.Background()))
	return out.String()
}

func TestShell_BookAndCancelSession(t *testing.T) {
	slice, users, _ := newTestSlice(t)

	input := strings.Join([]string{
		"1", "asha", "pw", // sign up
		"1", "asha", "pw", // duplicate
		"2", "asha", "nope", // wrong password
		"5", // book without a train
		"2", "asha", "pw",
		"4", "jaipur", "delhi", // reverse direction
		"4", "delhi", "jaipur", "1",
		"5", "0", "0",
		"5", "0", "0", // same seat again
		"5", "9", "9",
		"3",
		"6", "2", // out of range
		"6", "1",
		"6",
		"abc",
		"7",
	}, "\n")

	out := runShell(t, slice, input)

	assert.Contains(t, out, "Signup successful. Please login now.")
	assert.Contains(t, out, "Signup failed: username already taken.")
	assert.Contains(t, out, "Login failed! Incorrect credentials.")
	assert.Contains(t, out, "Please select a train first")
	assert.Contains(t, out, "Login successful!")
	assert.Contains(t, out, "No trains found.")
	assert.Contains(t, out, "=== Available Trains from DELHI to JAIPUR ===")
	assert.Contains(t, out, "| 1          | Delhi          | 08:00        |")
	assert.Contains(t, out, "Train 101 selected.")
	assert.Contains(t, out, "Row 0: 0 0 \nRow 1: 0 0 \n")
	assert.Contains(t, out, "Seat booked successfully!")
	assert.Contains(t, out, "Train: 101 | From: delhi To: jaipur | Seat: Row 0, Column 0 | Time: 13:15")
	assert.Contains(t, out, "Row 0: 1 0 \n")
	assert.Contains(t, out, "Seat booking failed: the seat is already booked.")
	assert.Contains(t, out, "Seat booking failed: no such seat.")
	assert.Contains(t, out, "| Travel Date          | 2024-03-09")
	assert.Contains(t, out, "Invalid choice.")
	assert.Contains(t, out, "Booking cancelled successfully.")
	assert.Contains(t, out, "You have no bookings to cancel.")
	assert.Contains(t, out, "Invalid input. Please enter a number between 1 and 7.")
	assert.Contains(t, out, "Thank you for using the system, asha!")

	grid := slice.Engine.SeatGrid(domain.Train{ID: "101"})
	assert.Equal(t, domain.SeatGrid{{0, 0}, {0, 0}}, grid)
	saved := users.Snapshot()
	require.Len(t, saved, 1)
	assert.Empty(t, saved[0].Tickets)
	collectors := slice.Metrics.Collectors()
	assert.Equal(t, 1.0, testutil.ToFloat64(collectors[0]), "booked")
	assert.Equal(t, 1.0, testutil.ToFloat64(collectors[1]), "cancelled")
	assert.Equal(t, 1.0, testutil.ToFloat64(collectors[2]), "failed logins")
}

func TestShell_EndOfInputSaysGoodbyeToGuest(t *testing.T) {
	slice, _, _ := newTestSlice(t)

	out := runShell(t, slice, "1 ravi")

	assert.Contains(t, out, "Thank you for using the system, Guest!")
}

func TestShell_CanceledContext(t *testing.T) {
	slice, _, _ := newTestSlice(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := slice.NewShell(strings.NewReader("7"), &bytes.Buffer{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTP_ReadOnlyRoutes(t *testing.T) {
	slice, _, _ := newTestSlice(t)
	router := slice.Router()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "health",
			target:     "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:       "search",
			target:     "/trains?source=Delhi&destination=agra",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var trains []domain.Train
				require.NoError(t, json.Unmarshal(body, &trains))
				require.Len(t, trains, 1)
				assert.Equal(t, "101", trains[0].ID)
				assert.Equal(t, "delhi", trains[0].StationTimes[0].Station)
			},
		},
		{
			name:       "search reversed",
			target:     "/trains?source=jaipur&destination=delhi",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, "[]", string(body))
			},
		},
		{
			name:       "search missing destination",
			target:     "/trains?source=delhi",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "seats",
			target:     "/trains/101/seats",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"train_id":"101","seats":[[0,0],[0,0]],"free":4}`, string(body))
			},
		},
		{
			name:       "unknown train",
			target:     "/trains/999/seats",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "metrics",
			target:     "/metrics",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "railbook_tickets_booked_total 0")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.check != nil {
				tt.check(t, rec.Body.Bytes())
			}
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trains", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTP_LogsCarryRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	slice, _, _ := newTestSliceWithLogger(t, zapAdapter.NewFromZap(zap.New(core)))

	req := httptest.NewRequest(http.MethodGet, "/trains/999/seats", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	slice.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	entries := logs.FilterMessage("seat grid request for unknown train").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["requestID"])
	assert.Equal(t, "999", entries[0].ContextMap()["train_id"])

	loaded := logs.FilterMessage("railbook data loaded").All()
	require.Len(t, loaded, 1)
	assert.EqualValues(t, 1, loaded[0].ContextMap()["trains"])
	assert.EqualValues(t, 0, loaded[0].ContextMap()["users"])
}
