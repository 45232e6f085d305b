package grid

import (
	"fmt"
	"strings"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
)

// Position is a grid-native coordinate. Row 0 is the bottom row of the
// device; columns count from the left.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Layout selects how pad indices advance between rows on a hex device.
type Layout string

const (
	// LayoutChromatic numbers pads sequentially row by row. Bijective with
	// grid positions.
	LayoutChromatic Layout = "chromatic"
	// LayoutIntervals advances row starts by alternating major/minor thirds
	// (+4/+3) instead of by physical row length, so index ranges of
	// neighboring rows overlap. Reverse lookup is ambiguous by design.
	LayoutIntervals Layout = "intervals"
)

// Device is the small contract shared by all grid topologies. All methods
// are pure: a Device carries only layout constants, never mutable state.
type Device interface {
	// Rows returns the number of pad rows.
	Rows() int
	// RowLength returns the number of pads in the given row.
	RowLength(row int) int
	// PadIndex maps a grid position to its linear pad index under the
	// device's layout.
	PadIndex(row, col int) (int, error)
	// RowCol maps a pad index back to a grid position. For hex devices in
	// intervals layout the mapping is ambiguous; the lowest matching row
	// wins (see HexGrid.RowCol).
	RowCol(padIndex int) (Position, error)
	// MIDINote returns the MIDI note sounded by the pad at (row, col)
	// given the device's base note.
	MIDINote(row, col, baseMIDI int) (int, error)
	// Distance returns the playing distance between two pads in pad-width
	// units. The metric differs per topology (see implementations).
	Distance(a, b Position) float64
	// Neighbors returns the valid adjacent positions of a pad.
	Neighbors(row, col int) []Position
}

// New constructs a Device by name. Layout is only meaningful for hex
// devices and is ignored by the square topology.
func New(name string, layout Layout) (Device, error) {
	switch strings.ToLower(name) {
	case "hex", "exquis":
		return NewHexGrid(layout), nil
	case "square", "launchpad":
		return NewSquareGrid(), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedDevice, name)
	}
}

// checkPosition validates (row, col) against a device's bounds.
func checkPosition(d Device, row, col int) error {
	if row < 0 || row >= d.Rows() {
		return apperrors.NewRangeError("row", row, d.Rows())
	}
	if col < 0 || col >= d.RowLength(row) {
		return apperrors.NewRangeError("col", col, d.RowLength(row))
	}
	return nil
}
