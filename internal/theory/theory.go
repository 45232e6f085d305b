package theory

import (
	"sort"
	"strconv"
	"strings"
)

// noteNames uses flat spellings for the black keys.
var noteNames = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Normalize folds any integer, including negatives, into a pitch class in [0,12).
func Normalize(n int) int {
	return ((n % 12) + 12) % 12
}

// NoteName returns the flat-spelled note name for a pitch class.
func NoteName(pc int) string {
	return noteNames[Normalize(pc)]
}

// Set is an unordered set of pitch classes in [0,12).
type Set map[int]struct{}

// NewSet builds a Set, normalizing every value mod 12.
func NewSet(pcs ...int) Set {
	s := make(Set, len(pcs))
	for _, pc := range pcs {
		s[Normalize(pc)] = struct{}{}
	}
	return s
}

// Add inserts a pitch class, normalized.
func (s Set) Add(pc int) {
	s[Normalize(pc)] = struct{}{}
}

// Contains reports whether the normalized pitch class is in the set.
func (s Set) Contains(pc int) bool {
	_, ok := s[Normalize(pc)]
	return ok
}

// Len returns the number of distinct pitch classes.
func (s Set) Len() int { return len(s) }

// Equal reports exact set equality: same size, same members.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for pc := range s {
		if _, ok := o[pc]; !ok {
			return false
		}
	}
	return true
}

// Values returns the pitch classes in ascending order.
func (s Set) Values() []int {
	out := make([]int, 0, len(s))
	for pc := range s {
		out = append(out, pc)
	}
	sort.Ints(out)
	return out
}

// Names returns the note names in ascending pitch-class order.
func (s Set) Names() []string {
	vals := s.Values()
	out := make([]string, len(vals))
	for i, pc := range vals {
		out[i] = NoteName(pc)
	}
	return out
}

func (s Set) String() string {
	return strings.Join(s.Names(), " ")
}

// PitchClasses builds the set {(root + i) mod 12} for an interval table.
func PitchClasses(root int, intervals []int) Set {
	s := make(Set, len(intervals))
	for _, iv := range intervals {
		s.Add(root + iv)
	}
	return s
}

// ParsePitchClassList parses comma-separated integers into a Set. Every
// value is normalized mod 12 (negatives included). Malformed tokens are
// dropped silently; garbage in user text is routine, not an error.
func ParsePitchClassList(text string) Set {
	s := make(Set)
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		s.Add(n)
	}
	return s
}
