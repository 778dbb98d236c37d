package infrastructure

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mateusmacedo/go-railbook/internal/railbook/application"
	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
)

var errInvalidNumber = errors.New("not a number")

type loggedInUser interface {
	LoggedInUserName() (string, bool)
}

// Shell is the interactive menu. Input is read as whitespace separated
// tokens, so names and passwords cannot contain spaces.
type Shell struct {
	buses    application.Buses
	session  loggedInUser
	in       *bufio.Scanner
	out      io.Writer
	selected *domain.Train
	logger   pkgApp.AppLogger
}

func NewShell(buses application.Buses, session loggedInUser, in io.Reader, out io.Writer, logger pkgApp.AppLogger) *Shell {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Shell{
		buses:   buses,
		session: session,
		in:      scanner,
		out:     out,
		logger:  logger,
	}
}

// Run shows the menu until the user exits, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.println("Running Train Booking System")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		option, err := s.readInt("Your choice:")
		if errors.Is(err, io.EOF) {
			s.goodbye()
			return nil
		}
		if err != nil {
			s.println("Invalid input. Please enter a number between 1 and 7.")
			continue
		}

		var stepErr error
		switch option {
		case 1:
			stepErr = s.signUp(ctx)
		case 2:
			stepErr = s.login(ctx)
		case 3:
			stepErr = s.myBookings(ctx)
		case 4:
			stepErr = s.searchTrains(ctx)
		case 5:
			stepErr = s.bookSeat(ctx)
		case 6:
			stepErr = s.cancelBooking(ctx)
		case 7:
			s.goodbye()
			return nil
		default:
			s.println("Invalid option. Please choose 1-7.")
		}

		if errors.Is(stepErr, io.EOF) {
			s.goodbye()
			return nil
		}
		if stepErr != nil {
			s.println(describe(stepErr))
		}
	}
}

func (s *Shell) printMenu() {
	s.println("")
	s.println(strings.Repeat("=", 40))
	s.println("          TRAIN BOOKING SYSTEM         ")
	s.println(strings.Repeat("=", 40))
	s.println("Please choose an option:")
	s.println(" [1] Sign Up")
	s.println(" [2] Login")
	s.println(" [3] Fetch My Bookings")
	s.println(" [4] Search Available Trains")
	s.println(" [5] Book a Seat")
	s.println(" [6] Cancel a Booking")
	s.println(" [7] Exit the App")
	s.println(strings.Repeat("-", 40))
}

func (s *Shell) signUp(ctx context.Context) error {
	name, err := s.readToken("Enter username to sign up:")
	if err != nil {
		return err
	}
	password, err := s.readToken("Enter password to sign up:")
	if err != nil {
		return err
	}

	cmd := application.NewSignUpCommand(application.SignUpData{Name: name, Password: password})
	if err := s.buses.SignUp.Dispatch(ctx, cmd); err != nil {
		return err
	}
	s.println("Signup successful. Please login now.")
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	name, err := s.readToken("Enter username to login:")
	if err != nil {
		return err
	}
	password, err := s.readToken("Enter password to login:")
	if err != nil {
		return err
	}

	cmd := application.NewLoginCommand(application.LoginData{Name: name, Password: password})
	if err := s.buses.Login.Dispatch(ctx, cmd); err != nil {
		return err
	}
	s.println("Login successful!")
	return nil
}

func (s *Shell) myBookings(ctx context.Context) error {
	tickets, err := s.buses.MyBookings.Dispatch(ctx, application.NewMyBookingsQuery())
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		s.println("You have no bookings.")
		return nil
	}

	border := "+----------------------+----------------------------------------------------+"
	s.println("Your Bookings:")
	for _, ticket := range tickets {
		s.println(border)
		s.printf("| %-20s | %-50s |\n", "Ticket ID", ticket.ID)
		s.printf("| %-20s | %-50s |\n", "Train", ticket.TrainID)
		s.printf("| %-20s | %-50s |\n", "Source Station", capitalize(ticket.Source))
		s.printf("| %-20s | %-50s |\n", "Destination Station", capitalize(ticket.Destination))
		s.printf("| %-20s | %-50s |\n", "Travel Date", ticket.DateOfTravel)
		s.printf("| %-20s | %-50s |\n", "Seat", fmt.Sprintf("Row %d, Column %d", ticket.SeatRow, ticket.SeatCol))
		s.println(border)
	}
	return nil
}

func (s *Shell) searchTrains(ctx context.Context) error {
	source, err := s.readToken("Enter source station:")
	if err != nil {
		return err
	}
	destination, err := s.readToken("Enter destination station:")
	if err != nil {
		return err
	}

	trains, err := s.buses.SearchTrains.Dispatch(ctx, application.NewSearchTrainsQuery(application.SearchTrainsData{
		Source:      source,
		Destination: destination,
	}))
	if err != nil {
		return err
	}
	if len(trains) == 0 {
		s.println("No trains found.")
		return nil
	}

	border := "+------------+----------------+--------------+"
	s.printf("\n=== Available Trains from %s to %s ===\n", strings.ToUpper(source), strings.ToUpper(destination))
	s.println(border)
	s.printf("| %-10s | %-14s | %-12s |\n", "Train No.", "Station", "Departure")
	s.println(border)
	for i, train := range trains {
		for j, stop := range train.StationTimes {
			number := ""
			if j == 0 {
				number = strconv.Itoa(i + 1)
			}
			s.printf("| %-10s | %-14s | %-12s |\n", number, capitalize(stop.Station), stop.Time)
		}
		s.println(border)
	}

	choice, err := s.readInt("Select a train by number:")
	if err != nil {
		return err
	}
	if choice < 1 || choice > len(trains) {
		s.println("Invalid train selection.")
		return nil
	}

	selected := trains[choice-1]
	s.selected = &selected
	s.printf("Train %s selected.\n", selected.ID)
	return nil
}

func (s *Shell) bookSeat(ctx context.Context) error {
	if s.selected == nil {
		s.println("Please select a train first (Option 4: Search Trains).")
		return nil
	}

	grid, err := s.buses.SeatGrid.Dispatch(ctx, application.NewSeatGridQuery(application.SeatGridData{Train: *s.selected}))
	if err != nil {
		return err
	}
	s.println("\nAvailable Seats (0 = Empty, 1 = Booked):")
	s.print(renderGrid(grid))

	row, err := s.readInt("Enter row number:")
	if err != nil {
		return err
	}
	col, err := s.readInt("Enter column number:")
	if err != nil {
		return err
	}

	cmd := application.NewBookSeatCommand(application.BookSeatData{Train: s.selected, Row: row, Col: col})
	if err := s.buses.BookSeat.Dispatch(ctx, cmd); err != nil {
		return err
	}

	s.println("Seat booked successfully!")
	if tickets, err := s.buses.MyBookings.Dispatch(ctx, application.NewMyBookingsQuery()); err == nil && len(tickets) > 0 {
		s.println(tickets[len(tickets)-1].Info)
	}
	s.println(strings.Repeat("=", 40))
	return nil
}

func (s *Shell) cancelBooking(ctx context.Context) error {
	tickets, err := s.buses.MyBookings.Dispatch(ctx, application.NewMyBookingsQuery())
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		return domain.ErrNoActiveBookings
	}

	s.println("Your Bookings:")
	for i, ticket := range tickets {
		s.println(strings.Repeat("-", 40))
		s.printf("[%d] Ticket\n", i+1)
		s.printf("  Ticket ID   : %s\n", ticket.ID)
		s.printf("  From        : %s\n", capitalize(ticket.Source))
		s.printf("  To          : %s\n", capitalize(ticket.Destination))
		s.printf("  Travel Date : %s\n", ticket.DateOfTravel)
		s.printf("  Seat        : Row %d, Column %d\n", ticket.SeatRow, ticket.SeatCol)
	}
	s.println(strings.Repeat("-", 40))

	choice, err := s.readInt("Enter the number of the booking you want to cancel:")
	if err != nil {
		return err
	}

	cmd := application.NewCancelTicketCommand(application.CancelTicketData{Index: choice - 1})
	if err := s.buses.CancelTicket.Dispatch(ctx, cmd); err != nil {
		return err
	}
	s.println("Booking cancelled successfully.")
	return nil
}

func (s *Shell) goodbye() {
	name, ok := s.session.LoggedInUserName()
	if !ok {
		name = "Guest"
	}
	s.println("")
	s.println("Exiting Train Booking System...")
	s.printf("Thank you for using the system, %s!\n", name)
	s.println(strings.Repeat("=", 50))
}

func (s *Shell) readToken(prompt string) (string, error) {
	s.print(prompt + " ")
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func (s *Shell) readInt(prompt string) (int, error) {
	token, err := s.readToken(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", token, errInvalidNumber)
	}
	return n, nil
}

func (s *Shell) print(text string) {
	fmt.Fprint(s.out, text)
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func renderGrid(grid domain.SeatGrid) string {
	var b strings.Builder
	for i, row := range grid {
		fmt.Fprintf(&b, "Row %d: ", i)
		for _, cell := range row {
			fmt.Fprintf(&b, "%d ", cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// describe turns an error into the one line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, errInvalidNumber):
		return "Invalid input. Please enter a number."
	case errors.Is(err, domain.ErrDuplicateName):
		return "Signup failed: username already taken."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Login failed! Incorrect credentials."
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Please login first."
	case errors.Is(err, domain.ErrInvalidSeat):
		return "Seat booking failed: no such seat."
	case errors.Is(err, domain.ErrSeatUnavailable):
		return "Seat booking failed: the seat is already booked."
	case errors.Is(err, domain.ErrNoActiveBookings):
		return "You have no bookings to cancel."
	case errors.Is(err, domain.ErrInvalidSelection):
		return "Invalid choice."
	case errors.Is(err, domain.ErrPersistence):
		return "Your change was applied but could not be saved: " + err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}
