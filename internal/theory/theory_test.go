package theory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

func TestPitchClassesMajorTriad(t *testing.T) {
	ivs, err := theory.Intervals("major")
	require.NoError(t, err)

	set := theory.PitchClasses(0, ivs)
	require.Equal(t, []int{0, 4, 7}, set.Values())
}

func TestPitchClassesWrapAroundOctave(t *testing.T) {
	ivs, err := theory.Intervals("maj9")
	require.NoError(t, err)

	// B maj9: extensions past the octave fold back mod 12.
	set := theory.PitchClasses(11, ivs)
	for _, pc := range set.Values() {
		require.GreaterOrEqual(t, pc, 0)
		require.Less(t, pc, 12)
	}
}

func TestIntervalsUnknownQuality(t *testing.T) {
	_, err := theory.Intervals("superlocrian13")
	require.True(t, errors.Is(err, apperrors.ErrUnknownQuality))
}

func TestScaleIntervals(t *testing.T) {
	ivs, err := theory.ScaleIntervals("dorian")
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 3, 5, 7, 9, 10}, ivs)

	_, err = theory.ScaleIntervals("klingon")
	require.True(t, errors.Is(err, apperrors.ErrUnknownQuality))
}

func TestParseChord(t *testing.T) {
	tests := []struct {
		in      string
		root    int
		quality string
	}{
		{"C", 0, "major"},
		{"Cmaj7", 0, "maj7"},
		{"Am", 9, "minor"},
		{"Am7", 9, "m7"},
		{"C#m7", 1, "m7"},
		{"Db7", 1, "7"},
		{"Ebm7b5", 3, "m7b5"},
		{"G7b5#9", 7, "7b5#9"},
		{"G7b9", 7, "7b9"},
		{"Bb13", 10, "13"},
		{"Fsus4", 5, "sus4"},
		{"F#dim7", 6, "dim7"},
		{"Caug", 0, "aug"},
		{"Cadd9", 0, "add9"},
		{"AmMaj7", 9, "mMaj7"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			sym := theory.ParseChord(tc.in)
			require.NotNil(t, sym)
			require.Equal(t, tc.root, sym.Root)
			require.Equal(t, tc.quality, sym.Quality)
		})
	}
}

func TestParseChordAlterationsBeforeSubsumingPatterns(t *testing.T) {
	// "7b5#9" must not be shortened to "7" or "7b5" by an early match.
	sym := theory.ParseChord("C7b5#9")
	require.NotNil(t, sym)
	require.Equal(t, "7b5#9", sym.Quality)

	// "maj7" must not be eaten by the bare "m" of minor.
	sym = theory.ParseChord("Cmaj7")
	require.NotNil(t, sym)
	require.Equal(t, "maj7", sym.Quality)
}

func TestParseChordNoMatchReturnsNil(t *testing.T) {
	require.Nil(t, theory.ParseChord(""))
	require.Nil(t, theory.ParseChord("H7"))
	require.Nil(t, theory.ParseChord("Cxyz"))
	// Unicode accidentals are not in the notation; nil, never a panic.
	require.Nil(t, theory.ParseChord("E♭13b9#11"))
}

func TestParsePitchClassList(t *testing.T) {
	t.Run("normalizes including negatives", func(t *testing.T) {
		set := theory.ParsePitchClassList("0, 16, -3, 7")
		require.Equal(t, []int{0, 4, 7, 9}, set.Values())
	})

	t.Run("drops malformed tokens silently", func(t *testing.T) {
		set := theory.ParsePitchClassList("0, banana, 4, , 7.5, 7")
		require.Equal(t, []int{0, 4, 7}, set.Values())
	})

	t.Run("all garbage yields the empty set", func(t *testing.T) {
		require.Equal(t, 0, theory.ParsePitchClassList("x,y,z").Len())
	})
}

func TestNormalize(t *testing.T) {
	require.Equal(t, 9, theory.Normalize(-3))
	require.Equal(t, 0, theory.Normalize(-12))
	require.Equal(t, 4, theory.Normalize(16))
	for n := -30; n < 30; n++ {
		pc := theory.Normalize(n)
		require.GreaterOrEqual(t, pc, 0)
		require.Less(t, pc, 12)
	}
}

func TestSetEqual(t *testing.T) {
	a := theory.NewSet(0, 4, 7)
	require.True(t, a.Equal(theory.NewSet(7, 0, 4)))
	require.False(t, a.Equal(theory.NewSet(0, 4)))         // proper subset
	require.False(t, a.Equal(theory.NewSet(0, 4, 7, 10))) // proper superset
	require.True(t, a.Equal(theory.NewSet(12, 16, 19)))   // normalized duplicates
}

func TestChordSymbolPitchClasses(t *testing.T) {
	sym := theory.ParseChord("Cmaj7")
	require.NotNil(t, sym)

	set, err := sym.PitchClasses()
	require.NoError(t, err)
	require.Equal(t, []int{0, 4, 7, 11}, set.Values())
	require.Equal(t, "Cmaj7", sym.Name())
}
