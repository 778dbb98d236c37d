package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONNeverCarriesPlaintext(t *testing.T) {
	user := User{ID: "u1", Name: "asha", Password: "secret", HashedPassword: "digest"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"hashed_password":"digest"`)
	assert.Contains(t, string(data), `"tickets_booked":null`)
}

func TestUser_CloneDetachesTickets(t *testing.T) {
	user := User{
		Name:    "asha",
		Tickets: []Ticket{{ID: "t1", Train: sampleTrain()}},
	}

	clone := user.Clone()
	clone.Tickets[0].Train.Seats[0][0] = SeatBooked
	clone.Tickets[0].ID = "other"

	assert.Equal(t, "t1", user.Tickets[0].ID)
	assert.Equal(t, SeatFree, user.Tickets[0].Train.Seats[0][0])
}

func TestTicketInfo(t *testing.T) {
	assert.Equal(t,
		"Train: 101 | From: delhi To: jaipur | Seat: Row 0, Column 1 | Time: 13:15",
		TicketInfo("101", "delhi", "jaipur", 0, 1, "13:15"))
}
