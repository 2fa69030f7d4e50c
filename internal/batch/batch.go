// Package batch drives the transcript fetcher over a discovered set of videos and
// measures how often a usable transcript comes back.
package batch

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/anatolykoptev/go_transcript/internal/artifact"
	"github.com/anatolykoptev/go_transcript/internal/discovery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/google/uuid"
)

const (
	// DefaultVideoLimit is the number of videos a batch discovers when none is given.
	DefaultVideoLimit = 5
	// DefaultPacing is the pause between consecutive fetches.
	DefaultPacing = time.Second
	// usableMinRunes is the transcript length above which a result is worth summarizing.
	usableMinRunes = 200
)

// Recommendations, by success rate.
const (
	Reliable   = "reliable"
	Partial    = "partial, needs fallback"
	Unreliable = "unreliable"
)

// Fetcher fetches one video's transcript; failures are reported in the Result.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string, preferred ...string) transcript.Result
}

// ArtifactWriter persists the finished summary.
type ArtifactWriter interface {
	Write(name string, v any) (string, error)
}

// Pacer blocks between consecutive fetches.
type Pacer interface {
	Pause()
}

// FixedPacer sleeps for a fixed interval. The pause ignores cancellation.
type FixedPacer time.Duration

func (p FixedPacer) Pause() { time.Sleep(time.Duration(p)) }

// Observer receives progress events. Embed NopObserver to implement a subset.
type Observer interface {
	Discovered(query string, candidates []discovery.Candidate, err error)
	Started(i, total int, c discovery.Candidate)
	Finished(i, total int, res transcript.Result, usable bool)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Discovered(string, []discovery.Candidate, error) {}
func (NopObserver) Started(int, int, discovery.Candidate)           {}
func (NopObserver) Finished(int, int, transcript.Result, bool)      {}

// Summary is the outcome of one batch run.
type Summary struct {
	RunID          string              `json:"run_id"`
	Query          string              `json:"query"`
	VideoCount     int                 `json:"video_count"`
	SuccessCount   int                 `json:"success_count"`
	FailureCount   int                 `json:"failure_count"`
	UsableCount    int                 `json:"usable_count"`
	SuccessRate    float64             `json:"success_rate"`
	DiscoveryError string              `json:"discovery_error,omitempty"`
	Results        []transcript.Result `json:"results"`
}

// Recommendation is the verdict for the run's success rate.
func (s Summary) Recommendation() string { return Recommend(s.SuccessRate) }

// Evaluator runs batches. Langs is passed to every fetch.
type Evaluator struct {
	Discovery discovery.Discoverer
	Fetcher   Fetcher
	Writer    ArtifactWriter
	Pacer     Pacer
	Observer  Observer
	Langs     []string
}

// Run discovers up to videoLimit videos for query, fetches each transcript with a
// pause between fetches, and writes the summary under artifact.BatchName(query).
// The returned Summary is always complete; the error is only ever an
// ArtifactWriteError.
func (e *Evaluator) Run(ctx context.Context, query string, videoLimit int) (Summary, error) {
	engine.IncrBatchRuns()
	if videoLimit <= 0 {
		videoLimit = DefaultVideoLimit
	}
	obs := e.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	pacer := e.Pacer
	if pacer == nil {
		pacer = FixedPacer(DefaultPacing)
	}

	sum := Summary{
		RunID:   uuid.NewString(),
		Query:   query,
		Results: []transcript.Result{},
	}

	candidates, err := e.Discovery.Discover(ctx, query, videoLimit)
	if err != nil {
		sum.DiscoveryError = err.Error()
		slog.Warn("batch: discovery failed, continuing with no videos",
			slog.String("run", sum.RunID), slog.Any("error", err))
	}
	obs.Discovered(query, candidates, err)

	total := len(candidates)
	for i, c := range candidates {
		if i > 0 {
			pacer.Pause()
		}
		obs.Started(i, total, c)

		res := e.Fetcher.Fetch(ctx, c.ID, e.Langs...)
		usable := Usable(res)
		if res.Success {
			sum.SuccessCount++
		} else {
			sum.FailureCount++
		}
		if usable {
			sum.UsableCount++
		}
		sum.Results = append(sum.Results, res)
		obs.Finished(i, total, res, usable)
	}

	sum.VideoCount = len(sum.Results)
	sum.SuccessRate = Rate(sum.SuccessCount, sum.VideoCount)
	slog.Info("batch: done",
		slog.String("run", sum.RunID), slog.String("query", query),
		slog.Int("videos", sum.VideoCount), slog.Int("succeeded", sum.SuccessCount),
		slog.Int("usable", sum.UsableCount), slog.Float64("rate", sum.SuccessRate))

	if e.Writer == nil {
		return sum, nil
	}
	if _, err := e.Writer.Write(artifact.BatchName(query), sum); err != nil {
		slog.Error("batch: writing summary failed", slog.String("run", sum.RunID), slog.Any("error", err))
		if engine.KindOf(err) != engine.KindArtifactWrite {
			err = engine.NewError(engine.KindArtifactWrite, err)
		}
		return sum, err
	}
	return sum, nil
}

// Usable reports whether res carries enough text to summarize.
func Usable(res transcript.Result) bool {
	return res.Success && utf8.RuneCountInString(res.FullText) > usableMinRunes
}

// Rate is succeeded/total, or 0 for an empty batch.
func Rate(succeeded, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(succeeded) / float64(total)
}

// Recommend maps a success rate onto a recommendation.
func Recommend(rate float64) string {
	switch {
	case rate >= 0.7:
		return Reliable
	case rate >= 0.3:
		return Partial
	default:
		return Unreliable
	}
}
