package theory

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
)

// chordQualities maps a quality key to its semitone intervals from the
// root. Intervals above 11 are extensions; PitchClasses folds them mod 12.
var chordQualities = map[string][]int{
	// Triads
	"major": {0, 4, 7},
	"minor": {0, 3, 7},
	"dim":   {0, 3, 6},
	"aug":   {0, 4, 8},
	"sus2":  {0, 2, 7},
	"sus4":  {0, 5, 7},
	"5":     {0, 7},

	// Sixths
	"6":  {0, 4, 7, 9},
	"m6": {0, 3, 7, 9},
	"69": {0, 4, 7, 9, 14},

	// Sevenths
	"maj7":  {0, 4, 7, 11},
	"7":     {0, 4, 7, 10},
	"m7":    {0, 3, 7, 10},
	"m7b5":  {0, 3, 6, 10},
	"dim7":  {0, 3, 6, 9},
	"mMaj7": {0, 3, 7, 11},
	"7sus4": {0, 5, 7, 10},

	// Ninths
	"maj9":  {0, 4, 7, 11, 14},
	"9":     {0, 4, 7, 10, 14},
	"m9":    {0, 3, 7, 10, 14},
	"add9":  {0, 4, 7, 14},
	"madd9": {0, 3, 7, 14},

	// Elevenths and thirteenths
	"11":    {0, 4, 7, 10, 14, 17},
	"m11":   {0, 3, 7, 10, 14, 17},
	"13":    {0, 4, 7, 10, 14, 21},
	"maj13": {0, 4, 7, 11, 14, 21},
	"m13":   {0, 3, 7, 10, 14, 21},

	// Altered dominants
	"7b5":   {0, 4, 6, 10},
	"7#5":   {0, 4, 8, 10},
	"7b9":   {0, 4, 7, 10, 13},
	"7#9":   {0, 4, 7, 10, 15},
	"7b5#9": {0, 4, 6, 10, 15},
	"7#11":  {0, 4, 7, 10, 18},
	"7b13":  {0, 4, 7, 10, 20},
	"13b9":  {0, 4, 7, 10, 13, 21},

	// Quartal / quintal stacks
	"quartal": {0, 5, 10},
	"quintal": {0, 7, 14},

	// Rootless jazz voicings (played shapes; the root is implied)
	"rootless9":    {4, 7, 10, 14},
	"rootlessMaj9": {4, 7, 11, 14},
	"rootlessm9":   {3, 7, 10, 14},
}

// Intervals looks up a chord quality's interval table.
func Intervals(quality string) ([]int, error) {
	ivs, ok := chordQualities[quality]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownQuality, quality)
	}
	return ivs, nil
}

// Qualities returns all known quality keys in sorted order.
func Qualities() []string {
	keys := make([]string, 0, len(chordQualities))
	for k := range chordQualities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChordSymbol is a parsed chord-notation token.
type ChordSymbol struct {
	Root    int    // pitch class of the root
	Quality string // key into chordQualities
}

// Name renders the symbol back to notation.
func (c ChordSymbol) Name() string {
	q := c.Quality
	if q == "major" {
		q = ""
	}
	return NoteName(c.Root) + q
}

// PitchClasses resolves the symbol to its pitch-class set.
func (c ChordSymbol) PitchClasses() (Set, error) {
	ivs, err := Intervals(c.Quality)
	if err != nil {
		return nil, err
	}
	return PitchClasses(c.Root, ivs), nil
}

// Two-character root spellings are checked before single letters so that
// "C#m7" consumes "C#", not "C".
var twoCharRoots = map[string]int{
	"C#": 1, "Db": 1,
	"D#": 3, "Eb": 3,
	"F#": 6, "Gb": 6,
	"G#": 8, "Ab": 8,
	"A#": 10, "Bb": 10,
}

var oneCharRoots = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// qualityPatterns maps a notation suffix to a quality key. Order matters:
// a pattern is accepted by prefix match, so longer and more specific
// alterations must come before the shorter patterns that subsume them
// ("7b5#9" before "7b5" before "7", everything "maj*"/"m7b5" before "m").
var qualityPatterns = []struct {
	suffix  string
	quality string
}{
	{"maj13", "maj13"},
	{"maj9", "maj9"},
	{"maj7", "maj7"},
	{"mMaj7", "mMaj7"},
	{"madd9", "madd9"},
	{"m13", "m13"},
	{"m11", "m11"},
	{"m9", "m9"},
	{"m7b5", "m7b5"},
	{"m7", "m7"},
	{"m6", "m6"},
	{"min7", "m7"},
	{"min", "minor"},
	{"m", "minor"},
	{"13b9", "13b9"},
	{"13", "13"},
	{"11", "11"},
	{"9", "9"},
	{"7b5#9", "7b5#9"},
	{"7b5", "7b5"},
	{"7#5", "7#5"},
	{"7b9", "7b9"},
	{"7#9", "7#9"},
	{"7#11", "7#11"},
	{"7b13", "7b13"},
	{"7sus4", "7sus4"},
	{"7", "7"},
	{"69", "69"},
	{"6", "6"},
	{"dim7", "dim7"},
	{"dim", "dim"},
	{"aug", "aug"},
	{"+", "aug"},
	{"sus2", "sus2"},
	{"sus4", "sus4"},
	{"add9", "add9"},
	{"5", "5"},
}

// ParseChord parses notation like "Cmaj7" or "Ebm7b5" into a root pitch
// class and a quality key. Malformed or unmatched text returns nil, never
// an error; the caller decides the fallback. An empty quality after a
// valid root is a major triad.
func ParseChord(text string) *ChordSymbol {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Normalize the root letter; accidentals keep their case.
	text = strings.ToUpper(text[:1]) + text[1:]

	var root int
	var rest string
	if len(text) >= 2 {
		if pc, ok := twoCharRoots[text[:2]]; ok {
			root, rest = pc, text[2:]
			return matchQuality(root, rest)
		}
	}
	pc, ok := oneCharRoots[text[:1]]
	if !ok {
		return nil
	}
	root, rest = pc, text[1:]
	return matchQuality(root, rest)
}

func matchQuality(root int, rest string) *ChordSymbol {
	if rest == "" {
		return &ChordSymbol{Root: root, Quality: "major"}
	}
	for _, p := range qualityPatterns {
		if strings.HasPrefix(rest, p.suffix) {
			return &ChordSymbol{Root: root, Quality: p.quality}
		}
	}
	return nil
}
