package domain

import "errors"

var (
	ErrDuplicateName      = errors.New("a user with this name already exists")
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrNotAuthenticated   = errors.New("no user is logged in")
	ErrInvalidSeat        = errors.New("seat is outside the grid")
	ErrSeatUnavailable    = errors.New("seat is already booked")
	ErrInvalidSelection   = errors.New("no booking at that position")
	ErrNoActiveBookings   = errors.New("user has no active bookings")
	ErrPersistence        = errors.New("could not persist changes")
	ErrInvalidTrain       = errors.New("invalid train record")
	ErrTrainNotFound      = errors.New("train not found")
)
