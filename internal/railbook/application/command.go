package application

import (
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

const (
	SignUpCommand       = "SignUp"
	LoginCommand        = "Login"
	BookSeatCommand     = "BookSeat"
	CancelTicketCommand = "CancelTicket"
)

type SignUpData struct {
	Name     string
	Password string
}

type LoginData struct {
	Name     string
	Password string
}

// BookSeatData names the train picked by the caller. Train is refreshed
// with the live record once the command has run.
type BookSeatData struct {
	Train *domain.Train
	Row   int
	Col   int
}

// CancelTicketData selects a booking by its zero-based position in the
// user's ticket list.
type CancelTicketData struct {
	Index int
}

type command[T any] struct {
	name string
	data T
}

func (c command[T]) CommandName() string {
	return c.name
}

func (c command[T]) Payload() T {
	return c.data
}

func NewSignUpCommand(data SignUpData) pkgDomain.Command[SignUpData] {
	return command[SignUpData]{name: SignUpCommand, data: data}
}

func NewLoginCommand(data LoginData) pkgDomain.Command[LoginData] {
	return command[LoginData]{name: LoginCommand, data: data}
}

func NewBookSeatCommand(data BookSeatData) pkgDomain.Command[BookSeatData] {
	return command[BookSeatData]{name: BookSeatCommand, data: data}
}

func NewCancelTicketCommand(data CancelTicketData) pkgDomain.Command[CancelTicketData] {
	return command[CancelTicketData]{name: CancelTicketCommand, data: data}
}
