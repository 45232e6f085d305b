package fingering

import (
	"math/bits"

	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

// Matcher finds exact matches: finger subsets of captured handprints
// whose pitch classes reproduce the target set precisely.
type Matcher struct {
	scorer *Scorer
}

// NewMatcher creates a matcher for the given device.
func NewMatcher(dev grid.Device) *Matcher {
	return &Matcher{scorer: NewScorer(dev)}
}

// Match enumerates every finger subset of size 3 to 5 of every handprint
// in the library and keeps those whose pitch-class set equals the target
// exactly. A proper superset or subset of the target is rejected, not
// scored lower. Zero matches is a valid outcome, returned as an empty
// slice.
func (m *Matcher) Match(lib *handprint.Library, target theory.Set) []Candidate {
	if lib == nil || target.Len() == 0 {
		return nil
	}

	targetPCs := target.Values()
	var out []Candidate

	for i := range lib.Handprints {
		h := &lib.Handprints[i]
		n := len(h.Positions)

		// At most C(5,3)+C(5,4)+C(5,5) = 16 subsets per handprint.
		for mask := 1; mask < 1<<n; mask++ {
			size := bits.OnesCount(uint(mask))
			if size < 3 || size > 5 {
				continue
			}

			pcs := make(theory.Set, size)
			for b := 0; b < n; b++ {
				if mask&(1<<b) != 0 {
					pcs.Add(h.Positions[b].MIDINote)
				}
			}
			if !pcs.Equal(target) {
				continue
			}

			c := Candidate{
				Hand:               h.Hand,
				TargetPitchClasses: targetPCs,
				Source:             SourceMatch,
				HandprintID:        h.ID,
			}
			for b := 0; b < n; b++ {
				if mask&(1<<b) != 0 {
					p := h.Positions[b]
					c.Positions = append(c.Positions, Position{
						Row:        p.Row,
						Col:        p.Col,
						Finger:     p.Finger,
						PitchClass: theory.Normalize(p.MIDINote),
					})
				}
			}
			m.scorer.Score(&c, h.ComfortRating)
			out = append(out, c)
		}
	}

	Rank(out)
	return out
}
