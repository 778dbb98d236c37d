package domain

import (
	"fmt"
	"strings"
)

type Train struct {
	ID           string       `json:"train_id"`
	Stations     []string     `json:"stations"`
	StationTimes StationTimes `json:"station_times"`
	Seats        SeatGrid     `json:"seats"`
}

func fmtInvalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidTrain}, args...)...)
}

// Validate checks the record a catalog is allowed to hold: an id, a
// rectangular 0/1 seat grid, and a timetable whose stations follow the
// route in order.
func (t Train) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmtInvalid("missing train id")
	}
	if err := t.Seats.Validate(); err != nil {
		return fmt.Errorf("train %s: %w", t.ID, err)
	}

	next := 0
	for _, stop := range t.StationTimes {
		idx := indexOfStation(t.Stations[next:], stop.Station)
		if idx < 0 {
			return fmtInvalid("train %s: station %q is not on the route after position %d", t.ID, stop.Station, next)
		}
		next += idx + 1
	}
	return nil
}

// ServesInOrder reports whether the route visits source strictly before
// destination. Both names match case-insensitively.
func (t Train) ServesInOrder(source, destination string) bool {
	from := indexOfStation(t.Stations, source)
	to := indexOfStation(t.Stations, destination)
	return from >= 0 && to >= 0 && from < to
}

// Clone returns a deep copy, used for ticket snapshots and for handing
// catalog records to callers.
func (t Train) Clone() Train {
	return Train{
		ID:           t.ID,
		Stations:     append([]string(nil), t.Stations...),
		StationTimes: t.StationTimes.Clone(),
		Seats:        t.Seats.Clone(),
	}
}

func (t Train) SameID(id string) bool {
	return strings.EqualFold(t.ID, id)
}

func indexOfStation(stations []string, name string) int {
	name = strings.ToLower(name)
	for i, s := range stations {
		if strings.ToLower(s) == name {
			return i
		}
	}
	return -1
}
