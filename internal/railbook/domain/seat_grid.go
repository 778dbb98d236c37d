package domain

const (
	SeatFree   = 0
	SeatBooked = 1
)

// SeatGrid is the rows x columns booking state of a train.
type SeatGrid [][]int

func NewSeatGrid(rows, cols int) SeatGrid {
	grid := make(SeatGrid, rows)
	for i := range grid {
		grid[i] = make([]int, cols)
	}
	return grid
}

func (g SeatGrid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g[row])
}

func (g SeatGrid) IsFree(row, col int) bool {
	return g.InBounds(row, col) && g[row][col] == SeatFree
}

func (g SeatGrid) Clone() SeatGrid {
	if g == nil {
		return nil
	}
	out := make(SeatGrid, len(g))
	for i, row := range g {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Validate checks the grid is rectangular and holds only free or booked
// cells.
func (g SeatGrid) Validate() error {
	for i, row := range g {
		if len(row) != len(g[0]) {
			return fmtInvalid("seat row %d has %d columns, want %d", i, len(row), len(g[0]))
		}
		for j, cell := range row {
			if cell != SeatFree && cell != SeatBooked {
				return fmtInvalid("seat (%d,%d) holds %d", i, j, cell)
			}
		}
	}
	return nil
}

func (g SeatGrid) FreeCount() int {
	free := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == SeatFree {
				free++
			}
		}
	}
	return free
}
