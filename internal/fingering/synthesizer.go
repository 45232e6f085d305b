package fingering

import (
	"math"
	"sort"

	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

// Config bounds the synthesizer's search.
type Config struct {
	// MaxRow is the highest row scanned for candidate pads (a comfortable
	// reach ceiling).
	MaxRow int
	// PadsPerPitchClass caps how many pads are kept per target pitch
	// class. The cap exists to contain combinatorial blowup; with k
	// target classes the combination count is at most PadsPerPitchClass^k.
	PadsPerPitchClass int
	// MaxSuggestions is how many ranked candidates to return.
	MaxSuggestions int
	// BaseMIDI is the note of pad (0,0).
	BaseMIDI int
}

// DefaultConfig returns the standard search bounds.
func DefaultConfig() Config {
	return Config{
		MaxRow:            5,
		PadsPerPitchClass: 3,
		MaxSuggestions:    8,
		BaseMIDI:          48,
	}
}

// Synthesizer produces approximate candidates for targets that may never
// have been captured verbatim, combining live grid search with learned
// pattern statistics.
type Synthesizer struct {
	dev    grid.Device
	cfg    Config
	scorer *Scorer
}

// NewSynthesizer creates a synthesizer for the given device and bounds.
func NewSynthesizer(dev grid.Device, cfg Config) *Synthesizer {
	if cfg.PadsPerPitchClass <= 0 {
		cfg.PadsPerPitchClass = DefaultConfig().PadsPerPitchClass
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	return &Synthesizer{dev: dev, cfg: cfg, scorer: NewScorer(dev)}
}

// Suggest generates, scores, and ranks candidate fingerings for the
// target pitch-class set. lib may be nil or empty; pattern statistics are
// then unavailable and assignment falls back to anatomy alone. An empty
// target or a target with no reachable pads yields an empty result, not
// an error.
func (s *Synthesizer) Suggest(target theory.Set, lib *handprint.Library, hand handprint.Hand) []Candidate {
	// One hand, five fingers.
	if target.Len() == 0 || target.Len() > 5 {
		return nil
	}
	// An empty store is a valid query with an empty answer; callers
	// distinguish it from "no algorithmic match" via the library itself.
	if lib == nil || len(lib.Handprints) == 0 {
		return nil
	}

	// Patterns may still be nil here when the hand filter excludes every
	// capture; assignment then falls back to anatomy alone.
	patterns := handprint.Extract(lib, hand)

	targetPCs := target.Values()
	padsPerClass := make([][]grid.Position, len(targetPCs))
	for i, pc := range targetPCs {
		padsPerClass[i] = s.padsForPitchClass(pc)
		if len(padsPerClass[i]) == 0 {
			return nil
		}
	}

	var out []Candidate
	combo := make([]grid.Position, len(targetPCs))
	s.combine(padsPerClass, 0, combo, func(pads []grid.Position) {
		c := s.buildCandidate(pads, targetPCs, hand, patterns)
		s.scorer.Score(&c, s.comfortEstimate(&c, patterns))
		out = append(out, c)
	})

	Rank(out)
	if len(out) > s.cfg.MaxSuggestions {
		out = out[:s.cfg.MaxSuggestions]
	}
	return out
}

// padsForPitchClass scans the reachable grid region for pads sounding the
// pitch class, capped at PadsPerPitchClass.
func (s *Synthesizer) padsForPitchClass(pc int) []grid.Position {
	maxRow := s.cfg.MaxRow
	if maxRow >= s.dev.Rows() {
		maxRow = s.dev.Rows() - 1
	}

	var pads []grid.Position
	for row := 0; row <= maxRow; row++ {
		for col := 0; col < s.dev.RowLength(row); col++ {
			note, err := s.dev.MIDINote(row, col, s.cfg.BaseMIDI)
			if err != nil {
				continue
			}
			if theory.Normalize(note) != pc {
				continue
			}
			pads = append(pads, grid.Position{Row: row, Col: col})
			if len(pads) >= s.cfg.PadsPerPitchClass {
				return pads
			}
		}
	}
	return pads
}

// combine backtracks through the Cartesian product, one pad per pitch
// class, skipping combinations that reuse a pad.
func (s *Synthesizer) combine(padsPerClass [][]grid.Position, depth int, combo []grid.Position, emit func([]grid.Position)) {
	if depth == len(padsPerClass) {
		emit(combo)
		return
	}
	for _, pad := range padsPerClass[depth] {
		taken := false
		for i := 0; i < depth; i++ {
			if combo[i] == pad {
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		combo[depth] = pad
		s.combine(padsPerClass, depth+1, combo, emit)
	}
}

// buildCandidate assigns fingers to the chosen pads. Pads are ordered by
// row ascending, then column ascending for the right hand and descending
// for the left (thumb low, pinky high). When pattern statistics know a
// preferred finger for a pad it is used, falling back to sequential order.
func (s *Synthesizer) buildCandidate(pads []grid.Position, targetPCs []int, hand handprint.Hand, patterns *handprint.Patterns) Candidate {
	type padPC struct {
		pad grid.Position
		pc  int
	}
	ordered := make([]padPC, len(pads))
	for i, pad := range pads {
		ordered[i] = padPC{pad: pad, pc: targetPCs[i]}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].pad.Row != ordered[j].pad.Row {
			return ordered[i].pad.Row < ordered[j].pad.Row
		}
		if hand == handprint.HandLeft {
			return ordered[i].pad.Col > ordered[j].pad.Col
		}
		return ordered[i].pad.Col < ordered[j].pad.Col
	})

	c := Candidate{
		Hand:               hand,
		TargetPitchClasses: targetPCs,
		Source:             SourceSynthesis,
	}

	used := make(map[int]bool)
	next := 1
	for _, p := range ordered {
		finger := 0
		if patterns != nil {
			if pref, ok := patterns.PreferredFinger(p.pad.Row, p.pad.Col); ok && !used[pref] {
				finger = pref
			}
		}
		if finger == 0 {
			for used[next] {
				next++
			}
			finger = next
		}
		used[finger] = true
		c.Positions = append(c.Positions, Position{
			Row:        p.pad.Row,
			Col:        p.pad.Col,
			Finger:     finger,
			PitchClass: p.pc,
		})
	}
	return c
}

// comfortEstimate derives the comfort channel for a synthesized candidate
// from the most similar captured chord shape, blending toward the neutral
// baseline as similarity drops. Without statistics the estimate is the
// neutral 50.
func (s *Synthesizer) comfortEstimate(c *Candidate, patterns *handprint.Patterns) float64 {
	if patterns == nil || len(patterns.ChordShapes) == 0 {
		return NeutralComfort
	}

	rel := relativeGeometry(c.Positions)
	bestSim, bestComfort := 0.0, NeutralComfort
	for _, shape := range patterns.ChordShapes {
		if len(shape.Relative) != len(rel) {
			continue
		}
		sim := shapeSimilarity(rel, shape.Relative)
		if sim > bestSim {
			bestSim, bestComfort = sim, shape.Comfort
		}
	}
	return bestSim*bestComfort + (1-bestSim)*NeutralComfort
}

// relativeGeometry anchors the candidate at its lowest-finger position,
// mirroring the extractor's chord-shape templates.
func relativeGeometry(positions []Position) []handprint.RelativePosition {
	anchor := positions[0]
	for _, p := range positions[1:] {
		if p.Finger < anchor.Finger {
			anchor = p
		}
	}
	var rel []handprint.RelativePosition
	for _, p := range positions {
		if p.Finger == anchor.Finger {
			continue
		}
		dr, dc := p.Row-anchor.Row, p.Col-anchor.Col
		rel = append(rel, handprint.RelativePosition{
			Finger:             p.Finger,
			RowOffset:          dr,
			ColOffset:          dc,
			DistanceFromAnchor: math.Hypot(float64(dr), float64(dc)),
		})
	}
	sort.Slice(rel, func(i, j int) bool { return rel[i].Finger < rel[j].Finger })
	return rel
}

// shapeSimilarity compares two relative geometries of equal size,
// decaying from 1 toward 0 with the mean per-finger offset error.
func shapeSimilarity(a, b []handprint.RelativePosition) float64 {
	total := 0.0
	for i := range a {
		dr := float64(a[i].RowOffset - b[i].RowOffset)
		dc := float64(a[i].ColOffset - b[i].ColOffset)
		total += math.Hypot(dr, dc)
	}
	avg := total / float64(len(a))
	return 1 / (1 + avg)
}
