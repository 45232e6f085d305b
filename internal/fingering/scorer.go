package fingering

import (
	"math"
	"sort"

	"github.com/Enkerli/exquisite-fingerings/internal/grid"
)

// Scoring weights. The three sub-scores are computed independently in
// [0,100] and combined as a fixed weighted sum.
const (
	weightComfort    = 0.4
	weightGeometry   = 0.3
	weightErgonomics = 0.3

	// NeutralComfort is the comfort baseline for candidates that do not
	// trace back to a captured handprint.
	NeutralComfort = 50.0
)

// Scorer computes the shared multi-factor score used by both the matcher
// and the synthesizer.
type Scorer struct {
	dev grid.Device
}

// NewScorer creates a scorer for the given device; the device's distance
// metric drives span scoring.
func NewScorer(dev grid.Device) *Scorer {
	return &Scorer{dev: dev}
}

// Score fills in the candidate's sub-scores and total. comfort is the
// captured rating for exact matches or a pattern-similarity estimate for
// synthesized candidates; pass NeutralComfort when neither exists.
func (s *Scorer) Score(c *Candidate, comfort float64) {
	geo := s.geometryScore(c.Positions)
	ergo := ergonomicsScore(c.Fingers())

	c.ComfortScore = clampScore(comfort)
	c.GeometricScore = clampScore(geo)
	c.ErgonomicScore = clampScore(ergo)
	c.Score = clampScore(weightComfort*comfort + weightGeometry*geo + weightErgonomics*ergo)
}

// geometryScore averages a piecewise span score with a row-compactness
// term. Span is the maximum pairwise playing distance; the thresholds are
// calibrated against the device's distance metric (see grid.Device).
func (s *Scorer) geometryScore(positions []Position) float64 {
	span := 0.0
	minRow, maxRow := positions[0].Row, positions[0].Row
	for i := 0; i < len(positions); i++ {
		if positions[i].Row < minRow {
			minRow = positions[i].Row
		}
		if positions[i].Row > maxRow {
			maxRow = positions[i].Row
		}
		for j := i + 1; j < len(positions); j++ {
			a := grid.Position{Row: positions[i].Row, Col: positions[i].Col}
			b := grid.Position{Row: positions[j].Row, Col: positions[j].Col}
			if d := s.dev.Distance(a, b); d > span {
				span = d
			}
		}
	}

	var spanScore float64
	switch {
	case span <= 3:
		spanScore = 100
	case span <= 5:
		spanScore = 100 - (span-3)/2*15 // 100 at 3 down to 85 at 5
	case span <= 7:
		spanScore = 85 - (span-5)/2*45 // 85 at 5 down to 40 at 7
	default:
		spanScore = math.Max(0, 40-(span-7)*10)
	}

	rowSpan := float64(maxRow - minRow)
	compactness := math.Max(0, 100*(1-rowSpan/2))

	return (spanScore + compactness) / 2
}

// ergonomicsScore applies anatomical heuristics to the finger numbers
// used, starting from a neutral 50.
func ergonomicsScore(fingers []int) float64 {
	sorted := append([]int(nil), fingers...)
	sort.Ints(sorted)

	score := 50.0

	consecutive := true
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			consecutive = false
			break
		}
	}
	if consecutive && len(sorted) > 1 {
		score += 30
	}

	switch len(sorted) {
	case 3, 4:
		score += 20
	case 5:
		score += 10
	}

	// Thumb and pinky with nothing in between is anatomically awkward.
	onlyOuter := len(sorted) > 0
	for _, f := range sorted {
		if f != 1 && f != 5 {
			onlyOuter = false
			break
		}
	}
	if onlyOuter {
		score -= 30
	}
	if len(sorted) == 2 && sorted[0] == 1 && sorted[1] == 5 {
		score -= 20
	}

	return math.Max(0, math.Min(100, score))
}

// clampScore rounds to the nearest integer and clamps to [0,100].
func clampScore(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Rank stable-sorts candidates by descending total score. Ties keep their
// input order: the generators emit deterministically, so equal-scored
// candidates stay in generation order.
func Rank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}
