package handprint_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
)

// triad builds a right-hand three-finger handprint on the given pads.
func triad(comfort float64, pads [3][2]int, fingers [3]int) handprint.Handprint {
	h := handprint.Handprint{
		ID:            "test",
		Hand:          handprint.HandRight,
		ComfortRating: comfort,
	}
	for i := range pads {
		h.Positions = append(h.Positions, handprint.FingerPosition{
			Row:    pads[i][0],
			Col:    pads[i][1],
			Finger: fingers[i],
		})
	}
	return h
}

func TestExtractEmptyLibraryReturnsNil(t *testing.T) {
	lib := &handprint.Library{}
	require.Nil(t, handprint.Extract(lib, handprint.HandRight))
}

func TestExtractHandFilter(t *testing.T) {
	lib := &handprint.Library{}
	h := triad(70, [3][2]int{{0, 0}, {0, 2}, {1, 3}}, [3]int{1, 2, 3})
	h.Hand = handprint.HandLeft
	lib.Add(h)

	require.Nil(t, handprint.Extract(lib, handprint.HandRight))

	p := handprint.Extract(lib, handprint.HandLeft)
	require.NotNil(t, p)
	require.Equal(t, 1, p.HandprintCount)

	// Empty hand matches everything.
	p = handprint.Extract(lib, "")
	require.NotNil(t, p)
	require.Equal(t, 1, p.HandprintCount)
}

func TestCachedMeasurementsArePreferred(t *testing.T) {
	h := triad(60, [3][2]int{{0, 0}, {0, 1}, {0, 2}}, [3]int{1, 2, 3})
	// Deliberately different from what the positions would yield.
	h.Measurements = map[string]float64{
		"1-2": 9, "1-3": 9, "2-3": 9,
	}
	lib := &handprint.Library{}
	lib.Add(h)

	p := handprint.Extract(lib, handprint.HandRight)
	require.NotNil(t, p)
	require.Equal(t, 9.0, p.FingerDistances["1-2"].Avg)
	require.Equal(t, 1, p.FingerDistances["1-2"].SampleCount)
}

func TestDistancesRecomputedWhenMeasurementsAbsent(t *testing.T) {
	h := triad(60, [3][2]int{{0, 0}, {0, 3}, {3, 0}}, [3]int{1, 2, 3})
	lib := &handprint.Library{}
	lib.Add(h)

	p := handprint.Extract(lib, handprint.HandRight)
	require.NotNil(t, p)
	require.Equal(t, 3.0, p.FingerDistances["1-2"].Avg)
	require.Equal(t, 3.0, p.FingerDistances["1-3"].Avg)
	require.InDelta(t, math.Sqrt(18), p.FingerDistances["2-3"].Avg, 1e-9)
}

func TestSpanIsMaxPairwiseDistance(t *testing.T) {
	h := triad(60, [3][2]int{{0, 0}, {0, 3}, {1, 1}}, [3]int{1, 2, 3})
	require.Equal(t, 3.0, h.Span())

	lib := &handprint.Library{}
	lib.Add(h)
	p := handprint.Extract(lib, handprint.HandRight)
	require.Equal(t, 3.0, p.AvgSpan)
	require.Equal(t, 0.0, p.SpanStdDev)
}

func TestSpanStatsAcrossLibrary(t *testing.T) {
	lib := &handprint.Library{}
	lib.Add(triad(60, [3][2]int{{0, 0}, {0, 2}, {0, 1}}, [3]int{1, 2, 3})) // span 2
	lib.Add(triad(70, [3][2]int{{0, 0}, {0, 4}, {0, 1}}, [3]int{1, 2, 3})) // span 4

	p := handprint.Extract(lib, handprint.HandRight)
	require.Equal(t, 3.0, p.AvgSpan)
	// Population standard deviation of {2, 4}.
	require.InDelta(t, 1.0, p.SpanStdDev, 1e-9)
}

func TestChordShapeAnchorsAtLowestFinger(t *testing.T) {
	h := triad(85, [3][2]int{{1, 2}, {2, 3}, {3, 3}}, [3]int{2, 3, 5})
	lib := &handprint.Library{}
	lib.Add(h)

	p := handprint.Extract(lib, handprint.HandRight)
	require.Len(t, p.ChordShapes, 1)

	shape := p.ChordShapes[0]
	require.Equal(t, []int{2, 3, 5}, shape.Fingers)
	require.Equal(t, 85.0, shape.Comfort)
	require.Len(t, shape.Relative, 2)

	// Finger 2 at (1,2) is the anchor; offsets are relative to it.
	require.Equal(t, 3, shape.Relative[0].Finger)
	require.Equal(t, 1, shape.Relative[0].RowOffset)
	require.Equal(t, 1, shape.Relative[0].ColOffset)
	require.Equal(t, 5, shape.Relative[1].Finger)
	require.Equal(t, 2, shape.Relative[1].RowOffset)
	require.Equal(t, 1, shape.Relative[1].ColOffset)
}

func TestPreferredFinger(t *testing.T) {
	lib := &handprint.Library{}
	lib.Add(triad(60, [3][2]int{{0, 0}, {0, 2}, {1, 3}}, [3]int{1, 2, 3}))
	lib.Add(triad(60, [3][2]int{{0, 0}, {0, 2}, {1, 3}}, [3]int{1, 2, 4}))
	lib.Add(triad(60, [3][2]int{{0, 0}, {0, 2}, {1, 3}}, [3]int{2, 3, 4}))

	p := handprint.Extract(lib, handprint.HandRight)

	// Pad (1,3) was played twice with finger 4, once with finger 3.
	finger, ok := p.PreferredFinger(1, 3)
	require.True(t, ok)
	require.Equal(t, 4, finger)

	// Pad (0,0) is tied 2-1 for finger 1.
	finger, ok = p.PreferredFinger(0, 0)
	require.True(t, ok)
	require.Equal(t, 1, finger)

	_, ok = p.PreferredFinger(7, 7)
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Run("too few positions", func(t *testing.T) {
		h := handprint.Handprint{
			Hand:          handprint.HandRight,
			ComfortRating: 50,
			Positions: []handprint.FingerPosition{
				{Finger: 1}, {Finger: 2},
			},
		}
		require.Error(t, h.Validate())
	})

	t.Run("fingers must strictly increase", func(t *testing.T) {
		h := triad(50, [3][2]int{{0, 0}, {0, 1}, {0, 2}}, [3]int{1, 3, 3})
		require.Error(t, h.Validate())
	})

	t.Run("comfort bounds", func(t *testing.T) {
		h := triad(101, [3][2]int{{0, 0}, {0, 1}, {0, 2}}, [3]int{1, 2, 3})
		require.Error(t, h.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		h := triad(80, [3][2]int{{0, 0}, {0, 1}, {0, 2}}, [3]int{1, 2, 3})
		require.NoError(t, h.Validate())
	})
}

func TestCaptureComputesMeasurements(t *testing.T) {
	dev := grid.NewSquareGrid()
	positions := []handprint.FingerPosition{
		{Row: 0, Col: 0, Finger: 1},
		{Row: 0, Col: 2, Finger: 2},
		{Row: 1, Col: 3, Finger: 3},
	}

	h, err := handprint.Capture(dev, handprint.HandRight, positions, 75)
	require.NoError(t, err)
	require.NotEmpty(t, h.ID)
	require.Equal(t, 75.0, h.ComfortRating)

	// Square distance is Manhattan.
	require.Equal(t, 2.0, h.Measurements[handprint.PairKey(1, 2)])
	require.Equal(t, 4.0, h.Measurements[handprint.PairKey(1, 3)])
	require.Equal(t, 2.0, h.Measurements[handprint.PairKey(2, 3)])
}

func TestPairKeyIsUnordered(t *testing.T) {
	require.Equal(t, "1-3", handprint.PairKey(3, 1))
	require.Equal(t, "1-3", handprint.PairKey(1, 3))
}

func TestLibraryRemove(t *testing.T) {
	lib := &handprint.Library{}
	h := triad(50, [3][2]int{{0, 0}, {0, 1}, {0, 2}}, [3]int{1, 2, 3})
	h.ID = "a"
	lib.Add(h)

	require.False(t, lib.Remove("missing"))
	require.True(t, lib.Remove("a"))
	require.Error(t, lib.RequireNonEmpty())
}

func TestParseRejectsInvalidHandprints(t *testing.T) {
	_, err := handprint.Parse([]byte(`{"handprints":[{"hand":"right","comfortRating":50,"positions":[{"finger":1}]}]}`))
	require.Error(t, err)

	lib, err := handprint.Parse([]byte(`{"handprints":[]}`))
	require.NoError(t, err)
	require.Empty(t, lib.Handprints)
}
