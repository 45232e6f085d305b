package handprint

import (
	"math"
	"sort"

	"github.com/Enkerli/exquisite-fingerings/internal/grid"
)

// DistanceStat aggregates one finger pair's distances across a library.
type DistanceStat struct {
	Avg         float64 `json:"avg"`
	StdDev      float64 `json:"stdDev"`
	SampleCount int     `json:"sampleCount"`
}

// RelativePosition is one finger of a chord shape expressed relative to
// the shape's anchor, making the template transposable across the grid.
type RelativePosition struct {
	Finger             int     `json:"finger"`
	RowOffset          int     `json:"rowOffset"`
	ColOffset          int     `json:"colOffset"`
	DistanceFromAnchor float64 `json:"distanceFromAnchor"`
}

// ChordShape is a position-independent template extracted from one
// handprint: the remaining fingers relative to the lowest-finger anchor.
type ChordShape struct {
	Fingers  []int              `json:"fingers"`
	Relative []RelativePosition `json:"relative"`
	Comfort  float64            `json:"comfort"`
}

// Patterns holds the statistics extracted from a library snapshot for one
// hand. Recomputed on demand, never mutated in place.
type Patterns struct {
	Hand              Hand
	HandprintCount    int
	FingerDistances   map[string]DistanceStat
	AvgSpan           float64
	SpanStdDev        float64
	ChordShapes       []ChordShape
	fingerAssignments map[grid.Position]map[int]int
}

// PreferredFinger returns the finger most frequently captured on the
// given pad, if any capture touched it.
func (p *Patterns) PreferredFinger(row, col int) (int, bool) {
	counts, ok := p.fingerAssignments[grid.Position{Row: row, Col: col}]
	if !ok {
		return 0, false
	}
	best, bestCount := 0, 0
	for finger, n := range counts {
		// Lower finger wins ties so the choice is deterministic.
		if n > bestCount || (n == bestCount && finger < best) {
			best, bestCount = finger, n
		}
	}
	return best, best != 0
}

// Extract aggregates a library snapshot, filtered by hand, into pattern
// statistics. Returns nil when the filtered set is empty: "no patterns"
// is a valid state and callers fall back to anatomical-only assignment.
func Extract(lib *Library, hand Hand) *Patterns {
	prints := lib.ForHand(hand)
	if len(prints) == 0 {
		return nil
	}

	p := &Patterns{
		Hand:              hand,
		HandprintCount:    len(prints),
		FingerDistances:   make(map[string]DistanceStat),
		fingerAssignments: make(map[grid.Position]map[int]int),
	}

	pairSamples := make(map[string][]float64)
	var spans []float64

	for i := range prints {
		h := &prints[i]
		accumulatePairs(h, pairSamples)
		spans = append(spans, h.Span())
		p.ChordShapes = append(p.ChordShapes, extractShape(h))

		for _, pos := range h.Positions {
			key := grid.Position{Row: pos.Row, Col: pos.Col}
			if p.fingerAssignments[key] == nil {
				p.fingerAssignments[key] = make(map[int]int)
			}
			p.fingerAssignments[key][pos.Finger]++
		}
	}

	for key, samples := range pairSamples {
		avg := mean(samples)
		p.FingerDistances[key] = DistanceStat{
			Avg:         avg,
			StdDev:      stdDev(samples, avg),
			SampleCount: len(samples),
		}
	}
	p.AvgSpan = mean(spans)
	p.SpanStdDev = stdDev(spans, p.AvgSpan)

	return p
}

// accumulatePairs collects the handprint's inter-finger distances. The
// measurements cached at capture time are authoritative; distances are
// only recomputed from positions when the cache is absent.
func accumulatePairs(h *Handprint, pairSamples map[string][]float64) {
	if len(h.Measurements) > 0 {
		for key, d := range h.Measurements {
			pairSamples[key] = append(pairSamples[key], d)
		}
		return
	}
	for i := 0; i < len(h.Positions); i++ {
		for j := i + 1; j < len(h.Positions); j++ {
			a, b := h.Positions[i], h.Positions[j]
			key := PairKey(a.Finger, b.Finger)
			pairSamples[key] = append(pairSamples[key], rawDistance(a, b))
		}
	}
}

// extractShape anchors the handprint at its lowest-finger position and
// expresses the remaining fingers relative to it.
func extractShape(h *Handprint) ChordShape {
	anchor := h.Positions[0]
	for _, pos := range h.Positions[1:] {
		if pos.Finger < anchor.Finger {
			anchor = pos
		}
	}

	shape := ChordShape{Comfort: h.ComfortRating}
	for _, pos := range h.Positions {
		shape.Fingers = append(shape.Fingers, pos.Finger)
		if pos.Finger == anchor.Finger {
			continue
		}
		shape.Relative = append(shape.Relative, RelativePosition{
			Finger:             pos.Finger,
			RowOffset:          pos.Row - anchor.Row,
			ColOffset:          pos.Col - anchor.Col,
			DistanceFromAnchor: rawDistance(pos, anchor),
		})
	}
	sort.Ints(shape.Fingers)
	return shape
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// stdDev is the population standard deviation.
func stdDev(samples []float64, avg float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		d := s - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(samples)))
}
