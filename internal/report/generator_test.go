package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Enkerli/exquisite-fingerings/internal/fingering"
	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/report"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

func testData() *report.Data {
	return &report.Data{
		Target:     theory.NewSet(0, 4, 7),
		ChordName:  "C",
		DeviceName: "hex",
		Layout:     grid.LayoutChromatic,
		BaseMIDI:   48,
		CreatedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Candidates: []fingering.Candidate{{
			Hand: "right",
			Positions: []fingering.Position{
				{Row: 0, Col: 0, Finger: 1, PitchClass: 0},
				{Row: 0, Col: 4, Finger: 2, PitchClass: 4},
				{Row: 1, Col: 1, Finger: 3, PitchClass: 7},
			},
			Score:          83,
			ComfortScore:   80,
			GeometricScore: 71,
			ErgonomicScore: 100,
			Source:         fingering.SourceMatch,
		}},
	}
}

func TestRender(t *testing.T) {
	g := report.NewGenerator(grid.NewHexGrid(grid.LayoutChromatic))
	out := g.Render(testData())

	require.Contains(t, out, "# Fingerings for C\n")
	require.Contains(t, out, "| 1 | 83 | 80 | 71 | 100 | right | match |")
	require.Contains(t, out, "- finger 3 on (1,1) sounding G")

	// Top row (row 1, odd, indented) first, then row 0.
	require.Contains(t, out, "```\n . 3 . . . \n1 . . . 2 . \n```")
}

func TestRenderEmptyCandidates(t *testing.T) {
	g := report.NewGenerator(grid.NewHexGrid(grid.LayoutChromatic))
	data := testData()
	data.Candidates = nil

	out := g.Render(data)
	require.Contains(t, out, "No candidate fingerings found.")
	require.NotContains(t, out, "| # |")
}

func TestGenerateWritesFile(t *testing.T) {
	g := report.NewGenerator(grid.NewHexGrid(grid.LayoutChromatic))
	path := filepath.Join(t.TempDir(), "fingerings.md")

	require.NoError(t, g.Generate(testData(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "# Fingerings for C")
}