package cmd

import (
	"fmt"
	"io"

	"github.com/anatolykoptev/go_transcript/internal/batch"
	"github.com/anatolykoptev/go_transcript/internal/discovery"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// consoleProgress prints batch progress for a human watching the terminal.
type consoleProgress struct {
	out io.Writer
}

var _ batch.Observer = consoleProgress{}

func (p consoleProgress) Discovered(query string, candidates []discovery.Candidate, err error) {
	if err != nil {
		fmt.Fprintf(p.out, "Video search failed: %v\n", err)
	}
	fmt.Fprintf(p.out, "Found %d videos for %q\n", len(candidates), query)
}

func (p consoleProgress) Started(i, total int, c discovery.Candidate) {
	fmt.Fprintf(p.out, "\n[%d/%d] %s  %s\n", i+1, total, c.ID, c.Title)
}

func (p consoleProgress) Finished(_, _ int, res transcript.Result, usable bool) {
	if !res.Success {
		fmt.Fprintf(p.out, "  ✗ %s\n", res.Describe())
		return
	}
	verdict := "too short"
	if usable {
		verdict = "usable"
	}
	fmt.Fprintf(p.out, "  ✓ %s, %d entries, %d chars (%s)\n",
		res.LanguageCode, res.EntryCount, res.TranscriptLength, verdict)
}

func printSummary(out io.Writer, sum batch.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Batch summary")
	fmt.Fprintln(out, "-------------")
	fmt.Fprintf(out, "Run:          %s\n", sum.RunID)
	fmt.Fprintf(out, "Videos:       %d\n", sum.VideoCount)
	fmt.Fprintf(out, "Succeeded:    %d\n", sum.SuccessCount)
	fmt.Fprintf(out, "Failed:       %d\n", sum.FailureCount)
	fmt.Fprintf(out, "Usable:       %d\n", sum.UsableCount)
	fmt.Fprintf(out, "Success rate: %.1f%%\n", sum.SuccessRate*100)
	fmt.Fprintf(out, "Recommendation: %s\n", sum.Recommendation())
}
