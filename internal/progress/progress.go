package progress

import (
	"fmt"
	"io"
	"time"
)

// Stage represents a step of the suggestion flow
type Stage struct {
	Number      int
	Total       int
	Name        string
	Description string
}

// Predefined stages of the suggest/match flow
var (
	StageLoad    = Stage{1, 4, "load", "Loading handprint library..."}
	StageExtract = Stage{2, 4, "extract", "Extracting hand patterns..."}
	StageSearch  = Stage{3, 4, "search", "Searching candidate fingerings..."}
	StageScore   = Stage{4, 4, "score", "Scoring and ranking..."}
)

// Reporter handles CLI progress output
type Reporter struct {
	out       io.Writer
	startTime time.Time
	verbose   bool
}

// NewReporter creates a new progress reporter
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{
		out:       out,
		startTime: time.Now(),
		verbose:   verbose,
	}
}

// StartStage announces the beginning of a stage
func (r *Reporter) StartStage(stage Stage) {
	if r.verbose {
		fmt.Fprintf(r.out, "[%d/%d] %s\n", stage.Number, stage.Total, stage.Description)
	}
}

// Update shows a sub-progress message within a stage
func (r *Reporter) Update(format string, args ...any) {
	if r.verbose {
		fmt.Fprintf(r.out, "       %s\n", fmt.Sprintf(format, args...))
	}
}

// Done announces successful completion
func (r *Reporter) Done(candidates int) {
	if !r.verbose {
		return
	}
	elapsed := time.Since(r.startTime)
	fmt.Fprintf(r.out, "Found %d candidate fingering(s) in %.2f seconds\n", candidates, elapsed.Seconds())
}

// Warning announces a non-fatal warning
func (r *Reporter) Warning(format string, args ...any) {
	fmt.Fprintf(r.out, "Warning: %s\n", fmt.Sprintf(format, args...))
}
