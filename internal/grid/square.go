package grid

import (
	"math"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
)

const (
	squareRows = 8
	squareCols = 8

	// Each row is tuned a perfect fourth above the previous one.
	squareRowInterval = 5
)

// SquareGrid models an 8x8 pad controller in fourths tuning.
type SquareGrid struct{}

// NewSquareGrid returns the square topology.
func NewSquareGrid() *SquareGrid { return &SquareGrid{} }

func (g *SquareGrid) Rows() int { return squareRows }

func (g *SquareGrid) RowLength(row int) int { return squareCols }

func (g *SquareGrid) PadIndex(row, col int) (int, error) {
	if err := checkPosition(g, row, col); err != nil {
		return 0, err
	}
	return row*squareCols + col, nil
}

func (g *SquareGrid) RowCol(padIndex int) (Position, error) {
	if padIndex < 0 || padIndex >= squareRows*squareCols {
		return Position{}, apperrors.NewRangeError("padIndex", padIndex, squareRows*squareCols)
	}
	return Position{Row: padIndex / squareCols, Col: padIndex % squareCols}, nil
}

func (g *SquareGrid) MIDINote(row, col, baseMIDI int) (int, error) {
	if err := checkPosition(g, row, col); err != nil {
		return 0, err
	}
	return baseMIDI + row*squareRowInterval + col, nil
}

// Distance is the Manhattan distance in pads.
func (g *SquareGrid) Distance(a, b Position) float64 {
	return math.Abs(float64(b.Row-a.Row)) + math.Abs(float64(b.Col-a.Col))
}

// Neighbors returns the valid N/S/E/W pads.
func (g *SquareGrid) Neighbors(row, col int) []Position {
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	var out []Position
	for _, o := range offsets {
		r, c := row+o[0], col+o[1]
		if r < 0 || r >= squareRows || c < 0 || c >= squareCols {
			continue
		}
		out = append(out, Position{Row: r, Col: c})
	}
	return out
}
