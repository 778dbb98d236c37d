package infrastructure

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoHandler is returned when a bus has nothing registered for a name.
var ErrNoHandler = errors.New("no handler registered")

func GenerateUUID() string {
	return uuid.New().String()
}

// SystemClock is the wall clock in local time; travel dates follow the
// user's calendar, not UTC.
func SystemClock() time.Time {
	return time.Now()
}
