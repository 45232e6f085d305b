package fingering

import (
	"fmt"
	"strings"

	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

// Source tags where a candidate came from.
type Source string

const (
	SourceMatch     Source = "match"     // exact subset of a captured handprint
	SourceSynthesis Source = "synthesis" // generated from grid search
)

// Position is one finger-to-pad assignment within a candidate.
type Position struct {
	Row        int `json:"row"`
	Col        int `json:"col"`
	Finger     int `json:"finger"`
	PitchClass int `json:"pitchClass"`
}

// Candidate is one scored fingering proposal. Candidates are ephemeral
// ranking output; persistence is the caller's concern.
type Candidate struct {
	Hand               handprint.Hand `json:"hand"`
	Positions          []Position     `json:"positions"`
	Score              int            `json:"score"`
	ComfortScore       int            `json:"comfortScore"`
	GeometricScore     int            `json:"geometricScore"`
	ErgonomicScore     int            `json:"ergonomicScore"`
	TargetPitchClasses []int          `json:"targetPitchClasses"`
	Source             Source         `json:"source"`
	HandprintID        string         `json:"handprintId,omitempty"`
}

// Fingers returns the finger numbers used, in position order.
func (c *Candidate) Fingers() []int {
	out := make([]int, len(c.Positions))
	for i, p := range c.Positions {
		out[i] = p.Finger
	}
	return out
}

// Summary renders a compact one-line description for CLI output.
func (c *Candidate) Summary() string {
	parts := make([]string, len(c.Positions))
	for i, p := range c.Positions {
		parts[i] = fmt.Sprintf("%d:(%d,%d)%s", p.Finger, p.Row, p.Col, theory.NoteName(p.PitchClass))
	}
	return fmt.Sprintf("score %d (comfort %d, geometry %d, ergonomics %d) %s",
		c.Score, c.ComfortScore, c.GeometricScore, c.ErgonomicScore, strings.Join(parts, " "))
}
