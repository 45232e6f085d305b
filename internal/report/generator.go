// Package report renders ranked fingering candidates as a Markdown
// document with a per-candidate grid diagram, for sharing or printing.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Enkerli/exquisite-fingerings/internal/fingering"
	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

// Data holds everything needed to generate a report.
type Data struct {
	Target     theory.Set
	ChordName  string // optional, when the target came from chord notation
	DeviceName string
	Layout     grid.Layout
	BaseMIDI   int
	Candidates []fingering.Candidate
	CreatedAt  time.Time
}

// Generator creates Markdown fingering reports.
type Generator struct {
	dev grid.Device
}

// NewGenerator creates a report generator for the given device.
func NewGenerator(dev grid.Device) *Generator {
	return &Generator{dev: dev}
}

// Generate renders the report and writes it to path.
func (g *Generator) Generate(data *Data, path string) error {
	content := g.Render(data)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Render builds the Markdown document.
func (g *Generator) Render(data *Data) string {
	var sb strings.Builder

	title := data.ChordName
	if title == "" {
		title = data.Target.String()
	}
	fmt.Fprintf(&sb, "# Fingerings for %s\n\n", title)
	fmt.Fprintf(&sb, "- Target pitch classes: %s\n", data.Target)
	fmt.Fprintf(&sb, "- Device: %s (%s layout, base MIDI %d)\n", data.DeviceName, data.Layout, data.BaseMIDI)
	fmt.Fprintf(&sb, "- Generated: %s\n\n", data.CreatedAt.Format(time.RFC3339))

	if len(data.Candidates) == 0 {
		sb.WriteString("No candidate fingerings found.\n")
		return sb.String()
	}

	sb.WriteString("| # | Score | Comfort | Geometry | Ergonomics | Hand | Source |\n")
	sb.WriteString("|---|-------|---------|----------|------------|------|--------|\n")
	for i, c := range data.Candidates {
		fmt.Fprintf(&sb, "| %d | %d | %d | %d | %d | %s | %s |\n",
			i+1, c.Score, c.ComfortScore, c.GeometricScore, c.ErgonomicScore, c.Hand, c.Source)
	}
	sb.WriteString("\n")

	for i, c := range data.Candidates {
		fmt.Fprintf(&sb, "## Candidate %d\n\n", i+1)
		for _, p := range c.Positions {
			fmt.Fprintf(&sb, "- finger %d on (%d,%d) sounding %s\n",
				p.Finger, p.Row, p.Col, theory.NoteName(p.PitchClass))
		}
		sb.WriteString("\n```\n")
		sb.WriteString(g.diagram(&c))
		sb.WriteString("```\n\n")
	}

	return sb.String()
}

// diagram draws the touched region of the grid, top row first, with
// finger numbers on the assigned pads and dots elsewhere. Odd hex rows
// are indented to suggest the stagger.
func (g *Generator) diagram(c *fingering.Candidate) string {
	byPad := make(map[grid.Position]int)
	maxRow := 0
	for _, p := range c.Positions {
		byPad[grid.Position{Row: p.Row, Col: p.Col}] = p.Finger
		if p.Row > maxRow {
			maxRow = p.Row
		}
	}

	var sb strings.Builder
	for row := maxRow; row >= 0; row-- {
		if row%2 == 1 && g.dev.RowLength(row) < g.dev.RowLength(0) {
			sb.WriteString(" ")
		}
		for col := 0; col < g.dev.RowLength(row); col++ {
			if finger, ok := byPad[grid.Position{Row: row, Col: col}]; ok {
				fmt.Fprintf(&sb, "%d ", finger)
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
