package fingering_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Enkerli/exquisite-fingerings/internal/fingering"
	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

// squarePrint builds a handprint on the fourths grid at base MIDI 36.
func squarePrint(t *testing.T, hand handprint.Hand, comfort float64, pads [][3]int) handprint.Handprint {
	t.Helper()
	g := grid.NewSquareGrid()

	h := handprint.Handprint{
		ID:            "sq",
		Hand:          hand,
		ComfortRating: comfort,
	}
	for _, pad := range pads {
		note, err := g.MIDINote(pad[0], pad[1], 36)
		require.NoError(t, err)
		h.Positions = append(h.Positions, handprint.FingerPosition{
			Row: pad[0], Col: pad[1], MIDINote: note, Finger: pad[2],
		})
	}
	return h
}

func TestSuggestRequiresALibrary(t *testing.T) {
	s := fingering.NewSynthesizer(grid.NewSquareGrid(), fingering.DefaultConfig())
	target := theory.NewSet(0, 4, 7)

	require.Empty(t, s.Suggest(target, nil, handprint.HandRight))
	require.Empty(t, s.Suggest(target, &handprint.Library{}, handprint.HandRight))
}

func TestSuggestRejectsUnplayableTargets(t *testing.T) {
	lib := &handprint.Library{}
	lib.Add(squarePrint(t, handprint.HandRight, 80, [][3]int{{0, 0, 1}, {0, 1, 2}, {0, 2, 3}}))
	s := fingering.NewSynthesizer(grid.NewSquareGrid(), fingering.DefaultConfig())

	require.Empty(t, s.Suggest(theory.NewSet(), lib, handprint.HandRight))
	// Six distinct pitch classes exceed one hand.
	require.Empty(t, s.Suggest(theory.NewSet(0, 1, 2, 3, 4, 5), lib, handprint.HandRight))
}

func TestSuggestCandidatesCoverTheTarget(t *testing.T) {
	lib := &handprint.Library{}
	lib.Add(squarePrint(t, handprint.HandRight, 80, [][3]int{{0, 0, 1}, {0, 1, 2}, {0, 2, 3}}))

	s := fingering.NewSynthesizer(grid.NewHexGrid(grid.LayoutChromatic), fingering.DefaultConfig())
	target := theory.NewSet(0, 4, 7)
	got := s.Suggest(target, lib, handprint.HandRight)
	require.NotEmpty(t, got)

	for _, c := range got {
		require.Equal(t, fingering.SourceSynthesis, c.Source)
		require.Len(t, c.Positions, 3)

		set := theory.NewSet()
		fingers := map[int]bool{}
		for _, p := range c.Positions {
			set.Add(p.PitchClass)
			require.False(t, fingers[p.Finger], "finger %d assigned twice", p.Finger)
			fingers[p.Finger] = true
		}
		require.True(t, set.Equal(target))

		for _, v := range []int{c.Score, c.ComfortScore, c.GeometricScore, c.ErgonomicScore} {
			require.GreaterOrEqual(t, v, 0)
			require.LessOrEqual(t, v, 100)
		}
	}

	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestSuggestHonorsMaxSuggestions(t *testing.T) {
	lib := &handprint.Library{}
	lib.Add(squarePrint(t, handprint.HandRight, 80, [][3]int{{0, 0, 1}, {0, 1, 2}, {0, 2, 3}}))

	cfg := fingering.DefaultConfig()
	cfg.MaxSuggestions = 4
	s := fingering.NewSynthesizer(grid.NewHexGrid(grid.LayoutChromatic), cfg)

	got := s.Suggest(theory.NewSet(0, 4, 7), lib, handprint.HandRight)
	require.NotEmpty(t, got)
	require.LessOrEqual(t, len(got), 4)
}

func TestSuggestFingerOrderByHand(t *testing.T) {
	// One pad per class pins the search to a single combination: pads
	// (0,0) (0,1) (0,2) on the fourths grid, pitch classes 0 1 2.
	cfg := fingering.DefaultConfig()
	cfg.PadsPerPitchClass = 1
	cfg.BaseMIDI = 36
	s := fingering.NewSynthesizer(grid.NewSquareGrid(), cfg)
	target := theory.NewSet(0, 1, 2)

	t.Run("right hand ascends", func(t *testing.T) {
		// The opposite-hand capture keeps the library non-empty while
		// leaving no pattern statistics for this hand.
		lib := &handprint.Library{}
		lib.Add(squarePrint(t, handprint.HandLeft, 80, [][3]int{{4, 0, 1}, {4, 1, 2}, {4, 2, 3}}))

		got := s.Suggest(target, lib, handprint.HandRight)
		require.Len(t, got, 1)
		c := got[0]
		require.Equal(t, handprint.HandRight, c.Hand)
		for i, p := range c.Positions {
			require.Equal(t, i, p.Col)
			require.Equal(t, i+1, p.Finger)
		}
	})

	t.Run("left hand descends", func(t *testing.T) {
		lib := &handprint.Library{}
		lib.Add(squarePrint(t, handprint.HandRight, 80, [][3]int{{4, 0, 1}, {4, 1, 2}, {4, 2, 3}}))

		got := s.Suggest(target, lib, handprint.HandLeft)
		require.Len(t, got, 1)
		c := got[0]
		for i, p := range c.Positions {
			require.Equal(t, 2-i, p.Col)
			require.Equal(t, i+1, p.Finger)
		}
	})
}

func TestSuggestAppliesLearnedFingerings(t *testing.T) {
	// A capture of the exact pads with fingers 2/3/4 should carry those
	// assignments, and its comfort, into the synthesized candidate.
	lib := &handprint.Library{}
	lib.Add(squarePrint(t, handprint.HandRight, 90, [][3]int{{0, 0, 2}, {0, 1, 3}, {0, 2, 4}}))

	cfg := fingering.DefaultConfig()
	cfg.PadsPerPitchClass = 1
	cfg.BaseMIDI = 36
	s := fingering.NewSynthesizer(grid.NewSquareGrid(), cfg)

	got := s.Suggest(theory.NewSet(0, 1, 2), lib, handprint.HandRight)
	require.Len(t, got, 1)
	c := got[0]

	byCol := map[int]int{}
	for _, p := range c.Positions {
		byCol[p.Col] = p.Finger
	}
	require.Equal(t, map[int]int{0: 2, 1: 3, 2: 4}, byCol)

	// Identical relative geometry means full similarity with the captured
	// shape, so the comfort channel reproduces the capture's rating.
	require.Equal(t, 90, c.ComfortScore)
}
