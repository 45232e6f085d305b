package grid

import (
	"math"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
)

const (
	hexRows = 11

	// Rendered pad geometry. Distance() measures in the same pixel space
	// the capture UI renders in, then normalizes by pad width; scoring
	// thresholds are calibrated against this approximation, not against
	// true hex hop count.
	hexPadWidth  = 60.0
	hexRowHeight = hexPadWidth * 0.866
)

// HexGrid models an 11-row hexagonal controller: even rows hold 6 pads,
// odd rows 5, with odd rows shifted right by half a pad.
type HexGrid struct {
	layout    Layout
	rowStarts [hexRows]int
}

// NewHexGrid builds the row-start table for the given layout.
func NewHexGrid(layout Layout) *HexGrid {
	g := &HexGrid{layout: layout}
	start := 0
	for r := 0; r < hexRows; r++ {
		g.rowStarts[r] = start
		switch layout {
		case LayoutIntervals:
			// Alternate major third / minor third between rows.
			if r%2 == 0 {
				start += 4
			} else {
				start += 3
			}
		default:
			start += g.RowLength(r)
		}
	}
	return g
}

// Layout returns the active layout mode.
func (g *HexGrid) Layout() Layout { return g.layout }

func (g *HexGrid) Rows() int { return hexRows }

func (g *HexGrid) RowLength(row int) int {
	if row%2 == 0 {
		return 6
	}
	return 5
}

func (g *HexGrid) PadIndex(row, col int) (int, error) {
	if err := checkPosition(g, row, col); err != nil {
		return 0, err
	}
	return g.rowStarts[row] + col, nil
}

// RowCol resolves a pad index by scanning rows from 0 upward and returning
// the first row whose column range contains the index. In chromatic layout
// this inverts PadIndex exactly. In intervals layout neighboring rows share
// index ranges, so the lowest matching row wins; the result is always
// self-consistent (PadIndex(RowCol(i)) == i) but need not recover the row
// the index was produced from.
func (g *HexGrid) RowCol(padIndex int) (Position, error) {
	for r := 0; r < hexRows; r++ {
		off := padIndex - g.rowStarts[r]
		if off >= 0 && off < g.RowLength(r) {
			return Position{Row: r, Col: off}, nil
		}
	}
	max := g.rowStarts[hexRows-1] + g.RowLength(hexRows-1)
	return Position{}, apperrors.NewRangeError("padIndex", padIndex, max)
}

// MIDINote is baseMIDI plus the pad index, so the musical spacing between
// rows follows the active layout.
func (g *HexGrid) MIDINote(row, col, baseMIDI int) (int, error) {
	idx, err := g.PadIndex(row, col)
	if err != nil {
		return 0, err
	}
	return baseMIDI + idx, nil
}

// center returns the rendered pixel center of a pad. Odd rows sit half a
// pad to the right of even rows.
func (g *HexGrid) center(p Position) (x, y float64) {
	x = float64(p.Col) * hexPadWidth
	if p.Row%2 == 1 {
		x += hexPadWidth / 2
	}
	y = float64(p.Row) * hexRowHeight
	return x, y
}

// Distance is the Euclidean pixel distance between pad centers divided by
// the nominal pad width.
func (g *HexGrid) Distance(a, b Position) float64 {
	ax, ay := g.center(a)
	bx, by := g.center(b)
	return math.Hypot(bx-ax, by-ay) / hexPadWidth
}

// Neighbors returns up to six adjacent pads. The diagonal offsets depend
// on row parity because odd rows are shifted right.
func (g *HexGrid) Neighbors(row, col int) []Position {
	var offsets [6][2]int
	if row%2 == 0 {
		offsets = [6][2]int{{0, -1}, {0, 1}, {-1, -1}, {-1, 0}, {1, -1}, {1, 0}}
	} else {
		offsets = [6][2]int{{0, -1}, {0, 1}, {-1, 0}, {-1, 1}, {1, 0}, {1, 1}}
	}

	var out []Position
	for _, o := range offsets {
		r, c := row+o[0], col+o[1]
		if r < 0 || r >= hexRows || c < 0 || c >= g.RowLength(r) {
			continue
		}
		out = append(out, Position{Row: r, Col: c})
	}
	return out
}
