package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/discovery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscovery struct {
	candidates []discovery.Candidate
	err        error
	calls      int
	limit      int
}

func (f *fakeDiscovery) Discover(_ context.Context, _ string, maxResults int) ([]discovery.Candidate, error) {
	f.calls++
	f.limit = maxResults
	return f.candidates, f.err
}

// fakeFetcher succeeds with text of the configured length, fails for the rest.
type fakeFetcher struct {
	lengths map[string]int
	calls   []string
	langs   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, id string, preferred ...string) transcript.Result {
	f.calls = append(f.calls, id)
	f.langs = preferred
	n, ok := f.lengths[id]
	if !ok {
		return transcript.Failed(id, engine.Errorf(engine.KindNoTranscripts, "none for %s", id))
	}
	entries := []transcript.Entry{{Start: 0, Duration: 1, Text: strings.Repeat("x", n)}}
	return transcript.Succeeded(id, transcript.TrackInfo{LanguageCode: "en"}, transcript.StrategyDirect, entries)
}

type countingPacer struct{ pauses int }

func (p *countingPacer) Pause() { p.pauses++ }

type memWriter struct {
	name string
	v    any
	err  error
}

func (w *memWriter) Write(name string, v any) (string, error) {
	w.name, w.v = name, v
	if w.err != nil {
		return "", w.err
	}
	return "/tmp/" + name, nil
}

type recordingObserver struct {
	NopObserver
	finished []bool
}

func (o *recordingObserver) Finished(_, _ int, _ transcript.Result, usable bool) {
	o.finished = append(o.finished, usable)
}

func candidates(ids ...string) []discovery.Candidate {
	out := make([]discovery.Candidate, len(ids))
	for i, id := range ids {
		out[i] = discovery.Candidate{ID: id, Title: "Sample Whisky Review " + id}
	}
	return out
}

func TestRunMixedOutcomes(t *testing.T) {
	disc := &fakeDiscovery{candidates: candidates("v1", "v2", "v3", "v4", "v5")}
	fetch := &fakeFetcher{lengths: map[string]int{"v1": 500, "v3": 150, "v5": 201}}
	pacer := &countingPacer{}
	w := &memWriter{}
	obs := &recordingObserver{}

	e := &Evaluator{Discovery: disc, Fetcher: fetch, Writer: w, Pacer: pacer, Observer: obs, Langs: []string{"en"}}
	sum, err := e.Run(context.Background(), "lagavulin", 5)
	require.NoError(t, err)

	assert.Equal(t, 1, disc.calls)
	assert.Equal(t, 5, disc.limit)
	assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5"}, fetch.calls)
	assert.Equal(t, []string{"en"}, fetch.langs)
	assert.Equal(t, 4, pacer.pauses)

	assert.Equal(t, 5, sum.VideoCount)
	assert.Equal(t, 3, sum.SuccessCount)
	assert.Equal(t, 2, sum.FailureCount)
	assert.Equal(t, 2, sum.UsableCount)
	assert.InDelta(t, 0.6, sum.SuccessRate, 1e-9)
	assert.Equal(t, Partial, sum.Recommendation())
	assert.Equal(t, []bool{true, false, false, false, true}, obs.finished)
	assert.Equal(t, "lagavulin", sum.Query)
	_, perr := uuid.Parse(sum.RunID)
	assert.NoError(t, perr)

	assert.Equal(t, "whisky_transcript_results_lagavulin.json", w.name)
	assert.Equal(t, sum, w.v)
}

func TestRunEmptyDiscovery(t *testing.T) {
	disc := &fakeDiscovery{err: engine.Errorf(engine.KindSearchProvider, "quotaExceeded")}
	fetch := &fakeFetcher{}
	pacer := &countingPacer{}
	w := &memWriter{}

	sum, err := (&Evaluator{Discovery: disc, Fetcher: fetch, Writer: w, Pacer: pacer}).
		Run(context.Background(), "talisker 10", 5)
	require.NoError(t, err)
	assert.Zero(t, sum.VideoCount)
	assert.Zero(t, sum.SuccessRate)
	assert.NotNil(t, sum.Results)
	assert.Empty(t, fetch.calls)
	assert.Zero(t, pacer.pauses)
	assert.Equal(t, "SearchProviderError: quotaExceeded", sum.DiscoveryError)
	assert.Equal(t, Unreliable, sum.Recommendation())
	assert.Equal(t, "whisky_transcript_results_talisker_10.json", w.name)
}

func TestRunSingleVideoNoPause(t *testing.T) {
	pacer := &countingPacer{}
	e := &Evaluator{
		Discovery: &fakeDiscovery{candidates: candidates("only")},
		Fetcher:   &fakeFetcher{lengths: map[string]int{"only": 300}},
		Pacer:     pacer,
	}
	sum, err := e.Run(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Zero(t, pacer.pauses)
	assert.Equal(t, 1.0, sum.SuccessRate)
	assert.Equal(t, Reliable, sum.Recommendation())
}

func TestRunArtifactFailureKeepsSummary(t *testing.T) {
	w := &memWriter{err: errors.New("disk full")}
	e := &Evaluator{
		Discovery: &fakeDiscovery{candidates: candidates("a", "b")},
		Fetcher:   &fakeFetcher{lengths: map[string]int{"a": 10}},
		Writer:    w,
		Pacer:     &countingPacer{},
	}
	sum, err := e.Run(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Equal(t, engine.KindArtifactWrite, engine.KindOf(err))
	assert.Equal(t, 2, sum.VideoCount)
	assert.Equal(t, 1, sum.SuccessCount)
	assert.Zero(t, sum.UsableCount)
	assert.Len(t, sum.Results, 2)
}

func TestRunDefaultLimit(t *testing.T) {
	disc := &fakeDiscovery{}
	_, err := (&Evaluator{Discovery: disc, Fetcher: &fakeFetcher{}, Pacer: &countingPacer{}}).
		Run(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultVideoLimit, disc.limit)
}

func TestUsable(t *testing.T) {
	ok := func(text string) transcript.Result {
		return transcript.Succeeded("id", transcript.TrackInfo{}, transcript.StrategyDirect,
			[]transcript.Entry{{Text: text}})
	}
	assert.False(t, Usable(ok(strings.Repeat("a", 200))))
	assert.True(t, Usable(ok(strings.Repeat("a", 201))))
	// runes, not bytes
	assert.False(t, Usable(ok(strings.Repeat("é", 150))))
	assert.False(t, Usable(transcript.Failed("id", errors.New("boom"))))
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, Reliable},
		{0.7, Reliable},
		{0.69, Partial},
		{0.3, Partial},
		{0.29, Unreliable},
		{0, Unreliable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommend(tt.rate), "rate %v", tt.rate)
	}
}

func TestRate(t *testing.T) {
	assert.Zero(t, Rate(0, 0))
	assert.InDelta(t, 0.6, Rate(3, 5), 1e-9)
}
