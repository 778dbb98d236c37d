package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StationStop is one entry of a train's timetable.
type StationStop struct {
	Station string
	Time    string
}

// StationTimes is a timetable kept in route order. It encodes as a JSON
// object whose keys keep that order.
type StationTimes []StationStop

func (st StationTimes) First() (StationStop, bool) {
	if len(st) == 0 {
		return StationStop{}, false
	}
	return st[0], true
}

func (st StationTimes) Last() (StationStop, bool) {
	if len(st) == 0 {
		return StationStop{}, false
	}
	return st[len(st)-1], true
}

// Lookup finds the time for station, ignoring case.
func (st StationTimes) Lookup(station string) (string, bool) {
	for _, stop := range st {
		if strings.EqualFold(stop.Station, station) {
			return stop.Time, true
		}
	}
	return "", false
}

func (st StationTimes) Clone() StationTimes {
	if st == nil {
		return nil
	}
	return append(StationTimes(nil), st...)
}

func (st StationTimes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, stop := range st {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(stop.Station)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(stop.Time)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (st *StationTimes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*st = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("station times: expected object, got %v", tok)
	}

	stops := StationTimes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		station, ok := tok.(string)
		if !ok {
			return fmt.Errorf("station times: expected station name, got %v", tok)
		}
		var at string
		if err := dec.Decode(&at); err != nil {
			return fmt.Errorf("station times: time for %q: %w", station, err)
		}
		stops = append(stops, StationStop{Station: station, Time: at})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*st = stops
	return nil
}
