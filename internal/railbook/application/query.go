package application

import (
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

const (
	SearchTrainsQuery = "SearchTrains"
	SeatGridQuery     = "SeatGrid"
	MyBookingsQuery   = "MyBookings"
)

type SearchTrainsData struct {
	Source      string
	Destination string
}

type SeatGridData struct {
	Train domain.Train
}

type MyBookingsData struct{}

type query[T any] struct {
	name string
	data T
}

func (q query[T]) QueryName() string {
	return q.name
}

func (q query[T]) Payload() T {
	return q.data
}

func NewSearchTrainsQuery(data SearchTrainsData) pkgDomain.Query[SearchTrainsData] {
	return query[SearchTrainsData]{name: SearchTrainsQuery, data: data}
}

func NewSeatGridQuery(data SeatGridData) pkgDomain.Query[SeatGridData] {
	return query[SeatGridData]{name: SeatGridQuery, data: data}
}

func NewMyBookingsQuery() pkgDomain.Query[MyBookingsData] {
	return query[MyBookingsData]{name: MyBookingsQuery}
}
