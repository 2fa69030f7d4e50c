package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	YouTubeSearchRequests     atomic.Int64
	YouTubeTranscriptRequests atomic.Int64
	YouTubeListRequests       atomic.Int64
	TimedTextRequests         atomic.Int64
	LegacyRequests            atomic.Int64
	TranscriptSuccesses       atomic.Int64
	TranscriptFailures        atomic.Int64
	BatchRuns                 atomic.Int64
}

var metricKeys = []string{
	"youtube_search_requests", "youtube_transcript_requests", "youtube_list_requests",
	"timedtext_requests", "legacy_requests",
	"transcript_successes", "transcript_failures",
	"batch_runs",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"youtube_search_requests":     metrics.YouTubeSearchRequests.Load(),
		"youtube_transcript_requests": metrics.YouTubeTranscriptRequests.Load(),
		"youtube_list_requests":       metrics.YouTubeListRequests.Load(),
		"timedtext_requests":          metrics.TimedTextRequests.Load(),
		"legacy_requests":             metrics.LegacyRequests.Load(),
		"transcript_successes":        metrics.TranscriptSuccesses.Load(),
		"transcript_failures":         metrics.TranscriptFailures.Load(),
		"batch_runs":                  metrics.BatchRuns.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for youtube/ and legacy/ sub-packages.
func IncrYouTubeSearch()     { metrics.YouTubeSearchRequests.Add(1) }
func IncrYouTubeTranscript() { metrics.YouTubeTranscriptRequests.Add(1) }
func IncrYouTubeList()       { metrics.YouTubeListRequests.Add(1) }
func IncrTimedText()         { metrics.TimedTextRequests.Add(1) }
func IncrLegacy()            { metrics.LegacyRequests.Add(1) }
func IncrBatchRuns()         { metrics.BatchRuns.Add(1) }

// IncrTranscriptOutcome counts one finished fetch.
func IncrTranscriptOutcome(success bool) {
	if success {
		metrics.TranscriptSuccesses.Add(1)
		return
	}
	metrics.TranscriptFailures.Add(1)
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 10*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
