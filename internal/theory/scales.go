package theory

import (
	"fmt"
	"sort"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
)

// scaleIntervals maps a scale name to its semitone steps from the tonic.
var scaleIntervals = map[string][]int{
	"major":           {0, 2, 4, 5, 7, 9, 11},
	"naturalMinor":    {0, 2, 3, 5, 7, 8, 10},
	"harmonicMinor":   {0, 2, 3, 5, 7, 8, 11},
	"melodicMinor":    {0, 2, 3, 5, 7, 9, 11},
	"dorian":          {0, 2, 3, 5, 7, 9, 10},
	"phrygian":        {0, 1, 3, 5, 7, 8, 10},
	"lydian":          {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":      {0, 2, 4, 5, 7, 9, 10},
	"locrian":         {0, 1, 3, 5, 6, 8, 10},
	"majorPentatonic": {0, 2, 4, 7, 9},
	"minorPentatonic": {0, 3, 5, 7, 10},
	"blues":           {0, 3, 5, 6, 7, 10},
	"wholeTone":       {0, 2, 4, 6, 8, 10},
	"chromatic":       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// ScaleIntervals looks up a scale's interval table.
func ScaleIntervals(name string) ([]int, error) {
	ivs, ok := scaleIntervals[name]
	if !ok {
		return nil, fmt.Errorf("%w: scale %q", apperrors.ErrUnknownQuality, name)
	}
	return ivs, nil
}

// Scales returns all known scale names in sorted order.
func Scales() []string {
	names := make([]string, 0, len(scaleIntervals))
	for n := range scaleIntervals {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
