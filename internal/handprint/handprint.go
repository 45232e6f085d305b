package handprint

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Enkerli/exquisite-fingerings/internal/errors"
	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

// Hand identifies which hand a capture belongs to.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
)

// FingerPosition is one finger's pad within a capture. Finger 1 is the
// thumb, 5 the pinky.
type FingerPosition struct {
	Row      int `json:"row"`
	Col      int `json:"col"`
	PadIndex int `json:"padIndex"`
	MIDINote int `json:"midiNote"`
	Finger   int `json:"finger"`
}

// Handprint is one captured hand position: 3 to 5 finger placements plus
// a comfort rating. Created atomically at the end of a capture session and
// immutable afterward.
type Handprint struct {
	ID            string             `json:"id"`
	Hand          Hand               `json:"hand"`
	Positions     []FingerPosition   `json:"positions"`
	ComfortRating float64            `json:"comfortRating"`
	Measurements  map[string]float64 `json:"measurements,omitempty"`
	CapturedAt    time.Time          `json:"capturedAt"`
}

// PairKey builds the unordered finger-pair key used by Measurements,
// e.g. PairKey(3, 1) == "1-3".
func PairKey(a, b int) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

// rawDistance is the Euclidean distance in raw row/col space. Span and
// shape extraction use it so statistics stay comparable across devices,
// independent of any device's rendered-pixel distance metric.
func rawDistance(a, b FingerPosition) float64 {
	return math.Hypot(float64(b.Row-a.Row), float64(b.Col-a.Col))
}

// Validate checks the capture invariants: 3-5 positions, finger numbers
// in 1..5 strictly increasing, comfort in [0,100].
func (h *Handprint) Validate() error {
	if len(h.Positions) < 3 || len(h.Positions) > 5 {
		return fmt.Errorf("handprint has %d positions, want 3-5", len(h.Positions))
	}
	prev := 0
	for _, p := range h.Positions {
		if p.Finger < 1 || p.Finger > 5 {
			return fmt.Errorf("finger %d out of range 1-5", p.Finger)
		}
		if p.Finger <= prev {
			return fmt.Errorf("finger numbers must be strictly increasing, got %d after %d", p.Finger, prev)
		}
		prev = p.Finger
	}
	if h.ComfortRating < 0 || h.ComfortRating > 100 {
		return fmt.Errorf("comfort rating %.1f out of range [0,100]", h.ComfortRating)
	}
	return nil
}

// PitchClassSet returns the set of pitch classes sounded by the capture.
func (h *Handprint) PitchClassSet() theory.Set {
	s := make(theory.Set, len(h.Positions))
	for _, p := range h.Positions {
		s.Add(p.MIDINote)
	}
	return s
}

// Span is the maximum pairwise raw-grid distance among the capture's
// positions.
func (h *Handprint) Span() float64 {
	max := 0.0
	for i := 0; i < len(h.Positions); i++ {
		for j := i + 1; j < len(h.Positions); j++ {
			if d := rawDistance(h.Positions[i], h.Positions[j]); d > max {
				max = d
			}
		}
	}
	return max
}

// Capture assembles a new immutable handprint from a finished capture
// session. Inter-finger measurements are computed once here with the
// device's playing-distance metric and cached on the record.
func Capture(dev grid.Device, hand Hand, positions []FingerPosition, comfort float64) (*Handprint, error) {
	h := &Handprint{
		ID:            uuid.NewString(),
		Hand:          hand,
		Positions:     positions,
		ComfortRating: comfort,
		CapturedAt:    time.Now(),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	h.Measurements = make(map[string]float64)
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			a, b := positions[i], positions[j]
			d := dev.Distance(grid.Position{Row: a.Row, Col: a.Col}, grid.Position{Row: b.Row, Col: b.Col})
			h.Measurements[PairKey(a.Finger, b.Finger)] = d
		}
	}
	return h, nil
}

// Library is a caller-owned collection of handprints. The engine only
// reads snapshots of it.
type Library struct {
	Handprints []Handprint `json:"handprints"`
}

// Load reads a library from a JSON file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	return Parse(data)
}

// Parse decodes a library from JSON bytes.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse library: %w", err)
	}
	for i := range lib.Handprints {
		if err := lib.Handprints[i].Validate(); err != nil {
			return nil, fmt.Errorf("handprint %d: %w", i, err)
		}
	}
	return &lib, nil
}

// Save writes the library as indented JSON.
func (l *Library) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write library: %w", err)
	}
	return nil
}

// Add appends a handprint.
func (l *Library) Add(h Handprint) {
	l.Handprints = append(l.Handprints, h)
}

// Remove deletes the handprint with the given ID. Returns false when no
// such handprint exists.
func (l *Library) Remove(id string) bool {
	for i, h := range l.Handprints {
		if h.ID == id {
			l.Handprints = append(l.Handprints[:i], l.Handprints[i+1:]...)
			return true
		}
	}
	return false
}

// Clear deletes every handprint.
func (l *Library) Clear() {
	l.Handprints = nil
}

// ForHand returns the handprints matching the hand filter. An empty hand
// matches everything.
func (l *Library) ForHand(hand Hand) []Handprint {
	if hand == "" {
		return l.Handprints
	}
	var out []Handprint
	for _, h := range l.Handprints {
		if h.Hand == hand {
			out = append(out, h)
		}
	}
	return out
}

// RequireNonEmpty distinguishes "no input data" from "no algorithmic
// match" for callers that message the user differently for the two.
func (l *Library) RequireNonEmpty() error {
	if len(l.Handprints) == 0 {
		return apperrors.ErrEmptyLibrary
	}
	return nil
}
