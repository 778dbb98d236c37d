package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatGrid_Bounds(t *testing.T) {
	grid := SeatGrid{{0, 1, 0}, {1, 0, 0}}

	tests := []struct {
		row, col int
		inBounds bool
		free     bool
	}{
		{row: 0, col: 0, inBounds: true, free: true},
		{row: 0, col: 1, inBounds: true, free: false},
		{row: 1, col: 2, inBounds: true, free: true},
		{row: -1, col: 0},
		{row: 2, col: 0},
		{row: 0, col: 3},
		{row: 0, col: -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.inBounds, grid.InBounds(tt.row, tt.col), "InBounds(%d,%d)", tt.row, tt.col)
		assert.Equal(t, tt.free, grid.IsFree(tt.row, tt.col), "IsFree(%d,%d)", tt.row, tt.col)
	}
	assert.Equal(t, 4, grid.FreeCount())
}

func TestSeatGrid_Clone(t *testing.T) {
	grid := NewSeatGrid(2, 3)
	clone := grid.Clone()
	clone[1][2] = SeatBooked

	assert.Equal(t, SeatFree, grid[1][2])
	assert.Nil(t, SeatGrid(nil).Clone())
}
