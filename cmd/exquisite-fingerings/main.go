package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Enkerli/exquisite-fingerings/internal/fingering"
	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
	"github.com/Enkerli/exquisite-fingerings/internal/midiout"
	"github.com/Enkerli/exquisite-fingerings/internal/progress"
	"github.com/Enkerli/exquisite-fingerings/internal/report"
	"github.com/Enkerli/exquisite-fingerings/internal/server"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "exquisite-fingerings",
	Short: "Synthesize and rank chord fingerings for isomorphic grid controllers",
	Long: `Exquisite Fingerings turns a target chord plus a library of captured
handprints into ordered, playable finger assignments for hexagonal
(thirds layout) and square (fourths layout) grid MIDI controllers.

Pipeline: target chord → grid search / handprint matching → scoring → ranked fingerings`,
	Version: version,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Synthesize ranked fingerings for a chord",
	Long: `Synthesize candidate fingerings for a target chord by searching the
grid directly, optionally informed by patterns extracted from a
handprint library.

Examples:
  exquisite-fingerings suggest --chord Cmaj7
  exquisite-fingerings suggest -c Ebm7 -l handprints.json --hand left
  exquisite-fingerings suggest --notes 0,4,7,11 --device square --max 5`,
	RunE: runSuggest,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find exact fingerings from captured handprints",
	Long: `Search a handprint library for finger subsets whose pitch classes
exactly reproduce the target chord.

Example:
  exquisite-fingerings match --chord Am7 --library handprints.json`,
	RunE: runMatch,
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show statistics extracted from a handprint library",
	RunE:  runPatterns,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the pad-to-note map for a device and layout",
	RunE:  runGrid,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Send the top suggested fingering to a MIDI output",
	Long: `Synthesize fingerings like suggest, then sound the top candidate on a
hardware MIDI output port.

Example:
  exquisite-fingerings play --chord Cmaj7 --port "Exquis" --hold 1s`,
	RunE: runPlay,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API for uploading handprint libraries and querying
fingerings.

Example:
  exquisite-fingerings serve --port 8080`,
	RunE: runServe,
}

// Shared target/device flags
var (
	flagChord    string
	flagNotes    string
	flagLibrary  string
	flagHand     string
	flagDevice   string
	flagLayout   string
	flagBaseMIDI int
	flagVerbose  bool
)

// suggest/play/serve flags
var (
	flagMax     int
	flagMaxRow  int
	flagPerPC   int
	flagReport  string
	flagPort    string
	flagHold    time.Duration
	flagVel     int
	flagHTTPort int
	flagTTL     time.Duration
)

func init() {
	for _, cmd := range []*cobra.Command{suggestCmd, matchCmd, playCmd} {
		cmd.Flags().StringVarP(&flagChord, "chord", "c", "", "chord notation, e.g. Cmaj7")
		cmd.Flags().StringVarP(&flagNotes, "notes", "n", "", "comma-separated pitch classes, e.g. 0,4,7")
		cmd.Flags().StringVarP(&flagLibrary, "library", "l", "", "handprint library JSON file")
		cmd.Flags().StringVar(&flagHand, "hand", "right", "hand: left or right")
		cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "show progress stages")
	}
	for _, cmd := range []*cobra.Command{suggestCmd, matchCmd, playCmd, gridCmd, patternsCmd} {
		cmd.Flags().StringVar(&flagDevice, "device", "hex", "device topology: hex or square")
		cmd.Flags().StringVar(&flagLayout, "layout", "intervals", "hex layout: intervals or chromatic")
		cmd.Flags().IntVar(&flagBaseMIDI, "base-midi", 48, "MIDI note of pad (0,0)")
	}
	patternsCmd.Flags().StringVarP(&flagLibrary, "library", "l", "", "handprint library JSON file")
	patternsCmd.Flags().StringVar(&flagHand, "hand", "", "hand filter: left, right, or empty for all")

	for _, cmd := range []*cobra.Command{suggestCmd, playCmd} {
		cmd.Flags().IntVar(&flagMax, "max", 8, "maximum suggestions to return")
		cmd.Flags().IntVar(&flagMaxRow, "max-row", 5, "highest row to search (reach ceiling)")
		cmd.Flags().IntVar(&flagPerPC, "pads-per-class", 3, "candidate pads kept per pitch class")
	}
	suggestCmd.Flags().StringVar(&flagReport, "report", "", "write a Markdown report to this path")

	playCmd.Flags().StringVar(&flagPort, "port", "", "MIDI output port name (substring match)")
	playCmd.Flags().DurationVar(&flagHold, "hold", 1500*time.Millisecond, "how long to hold the chord")
	playCmd.Flags().IntVar(&flagVel, "velocity", 96, "note velocity 1-127")

	serveCmd.Flags().IntVar(&flagHTTPort, "port", 8080, "HTTP port")
	serveCmd.Flags().DurationVar(&flagTTL, "ttl", time.Hour, "uploaded library time to live")

	rootCmd.AddCommand(suggestCmd, matchCmd, patternsCmd, gridCmd, playCmd, serveCmd)
}

// resolveDevice builds the grid device from the shared flags.
func resolveDevice() (grid.Device, error) {
	return grid.New(flagDevice, grid.Layout(flagLayout))
}

// resolveTarget parses --chord or --notes into a pitch-class set. The
// returned name is empty for raw pitch-class input.
func resolveTarget() (theory.Set, string, error) {
	if flagChord != "" {
		sym := theory.ParseChord(flagChord)
		if sym == nil {
			return nil, "", fmt.Errorf("unrecognized chord %q", flagChord)
		}
		set, err := sym.PitchClasses()
		if err != nil {
			return nil, "", err
		}
		return set, sym.Name(), nil
	}
	if flagNotes != "" {
		set := theory.ParsePitchClassList(flagNotes)
		if set.Len() == 0 {
			return nil, "", fmt.Errorf("no valid pitch classes in %q", flagNotes)
		}
		return set, "", nil
	}
	return nil, "", fmt.Errorf("provide a target with --chord or --notes")
}

// loadLibrary reads the library flag; a missing flag yields nil, which
// the synthesizer treats as "no patterns available".
func loadLibrary() (*handprint.Library, error) {
	if flagLibrary == "" {
		return nil, nil
	}
	return handprint.Load(flagLibrary)
}

func parseHand() handprint.Hand {
	if flagHand == string(handprint.HandLeft) {
		return handprint.HandLeft
	}
	return handprint.HandRight
}

func synthConfig() fingering.Config {
	cfg := fingering.DefaultConfig()
	cfg.BaseMIDI = flagBaseMIDI
	cfg.MaxSuggestions = flagMax
	cfg.MaxRow = flagMaxRow
	cfg.PadsPerPitchClass = flagPerPC
	return cfg
}

func runSuggest(cmd *cobra.Command, args []string) error {
	rep := progress.NewReporter(os.Stderr, flagVerbose)

	dev, err := resolveDevice()
	if err != nil {
		return err
	}
	target, name, err := resolveTarget()
	if err != nil {
		return err
	}

	rep.StartStage(progress.StageLoad)
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	if lib == nil || len(lib.Handprints) == 0 {
		rep.Warning("no handprint library; synthesis needs at least one capture (--library)")
	} else {
		rep.Update("%d handprint(s) loaded", len(lib.Handprints))
	}

	rep.StartStage(progress.StageExtract)
	rep.StartStage(progress.StageSearch)
	synth := fingering.NewSynthesizer(dev, synthConfig())
	candidates := synth.Suggest(target, lib, parseHand())
	rep.StartStage(progress.StageScore)
	rep.Done(len(candidates))

	printCandidates(cmd, target, name, candidates)

	if flagReport != "" && len(candidates) > 0 {
		gen := report.NewGenerator(dev)
		data := &report.Data{
			Target:     target,
			ChordName:  name,
			DeviceName: flagDevice,
			Layout:     grid.Layout(flagLayout),
			BaseMIDI:   flagBaseMIDI,
			Candidates: candidates,
			CreatedAt:  time.Now(),
		}
		if err := gen.Generate(data, flagReport); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", flagReport)
	}
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	dev, err := resolveDevice()
	if err != nil {
		return err
	}
	target, name, err := resolveTarget()
	if err != nil {
		return err
	}
	if flagLibrary == "" {
		return fmt.Errorf("matching requires --library")
	}
	lib, err := handprint.Load(flagLibrary)
	if err != nil {
		return err
	}
	if err := lib.RequireNonEmpty(); err != nil {
		return fmt.Errorf("%w; capture some handprints first", err)
	}

	matcher := fingering.NewMatcher(dev)
	candidates := matcher.Match(lib, target)
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exact matches; try `suggest` for synthesized fingerings.")
		return nil
	}
	printCandidates(cmd, target, name, candidates)
	return nil
}

func printCandidates(cmd *cobra.Command, target theory.Set, name string, candidates []fingering.Candidate) {
	out := cmd.OutOrStdout()
	label := name
	if label == "" {
		label = target.String()
	}
	fmt.Fprintf(out, "Target: %s (%s)\n", label, target)
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No candidate fingerings found.")
		return
	}
	for i := range candidates {
		fmt.Fprintf(out, "%2d. %s\n", i+1, candidates[i].Summary())
	}
}

func runPatterns(cmd *cobra.Command, args []string) error {
	if flagLibrary == "" {
		return fmt.Errorf("patterns requires --library")
	}
	lib, err := handprint.Load(flagLibrary)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	patterns := handprint.Extract(lib, handprint.Hand(flagHand))
	if patterns == nil {
		fmt.Fprintln(out, "No handprints for that hand; nothing to extract.")
		return nil
	}

	fmt.Fprintf(out, "Handprints: %d\n", patterns.HandprintCount)
	fmt.Fprintf(out, "Span: avg %.2f, stddev %.2f\n", patterns.AvgSpan, patterns.SpanStdDev)
	fmt.Fprintln(out, "Finger-pair distances:")
	pairs := make([]string, 0, len(patterns.FingerDistances))
	for pair := range patterns.FingerDistances {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	for _, pair := range pairs {
		st := patterns.FingerDistances[pair]
		fmt.Fprintf(out, "  %s: avg %.2f, stddev %.2f (n=%d)\n", pair, st.Avg, st.StdDev, st.SampleCount)
	}
	fmt.Fprintf(out, "Chord shapes: %d\n", len(patterns.ChordShapes))
	return nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	dev, err := resolveDevice()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for row := dev.Rows() - 1; row >= 0; row-- {
		if dev.RowLength(row) < dev.RowLength(0) {
			fmt.Fprint(out, "  ")
		}
		for col := 0; col < dev.RowLength(row); col++ {
			note, err := dev.MIDINote(row, col, flagBaseMIDI)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-4s", theory.NoteName(note))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	dev, err := resolveDevice()
	if err != nil {
		return err
	}
	target, name, err := resolveTarget()
	if err != nil {
		return err
	}
	lib, err := loadLibrary()
	if err != nil {
		return err
	}

	synth := fingering.NewSynthesizer(dev, synthConfig())
	candidates := synth.Suggest(target, lib, parseHand())
	if len(candidates) == 0 {
		return fmt.Errorf("no candidate fingerings for the target")
	}
	top := candidates[0]

	notes := make([]int, 0, len(top.Positions))
	for _, p := range top.Positions {
		note, err := dev.MIDINote(p.Row, p.Col, flagBaseMIDI)
		if err != nil {
			return err
		}
		notes = append(notes, note)
	}

	sender, err := midiout.Open(flagPort)
	if err != nil {
		return err
	}
	defer sender.Close()

	printCandidates(cmd, target, name, candidates[:1])
	fmt.Fprintf(cmd.OutOrStdout(), "Playing on %s\n", sender.Port())
	return sender.PlayChord(notes, uint8(flagVel), flagHold)
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := server.New(server.Config{
		Port:       flagHTTPort,
		LibraryTTL: flagTTL,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Fingering API running at http://localhost:%d\n", flagHTTPort)
	return srv.Run()
}
