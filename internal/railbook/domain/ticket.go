package domain

import "fmt"

// DateLayout is the travel date format stored on tickets.
const DateLayout = "2006-01-02"

type Ticket struct {
	ID           string `json:"ticket_id"`
	UserID       string `json:"user_id"`
	Source       string `json:"source"`
	Destination  string `json:"destination"`
	DateOfTravel string `json:"date_of_travel"`
	TrainID      string `json:"train_id"`
	// Train is the train as it was when the seat was booked. Later seat
	// changes do not reach it.
	Train   Train  `json:"train"`
	Info    string `json:"ticket_info"`
	SeatRow int    `json:"seat_row"`
	SeatCol int    `json:"seat_col"`
}

func TicketInfo(trainID, source, destination string, row, col int, arrival string) string {
	return fmt.Sprintf("Train: %s | From: %s To: %s | Seat: Row %d, Column %d | Time: %s",
		trainID, source, destination, row, col, arrival)
}
