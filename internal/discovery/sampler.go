package discovery

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// admitProbability is the chance a non-matching sample video is still returned.
const admitProbability = 0.3

// SampleIDs are the videos the offline sampler draws from.
var SampleIDs = []string{
	"QtUSxUwCqlg",
	"gKR5MlWCDqE",
	"cP9SASwtHqQ",
	"wcXk4rGDfVQ",
	"eg-F_NNTbLE",
	"dQw4w9WgXcQ",
	"2_9PH_5dUn0",
	"QdCxuM8aSV0",
}

// Float64Source yields uniform draws in [0, 1).
type Float64Source interface {
	Float64() float64
}

// Sampler stands in for search when no API credential is configured. A sample video
// matches when its ID contains the query; non-matching videos are admitted at random.
type Sampler struct {
	ids  []string
	rand Float64Source
}

// NewSampler returns a Sampler over SampleIDs with a PCG source seeded by seed.
func NewSampler(seed int64) *Sampler {
	return NewSamplerWithSource(rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)))
}

// NewSamplerWithSource returns a Sampler drawing from src.
func NewSamplerWithSource(src Float64Source) *Sampler {
	return &Sampler{ids: SampleIDs, rand: src}
}

// Discover never fails.
func (s *Sampler) Discover(_ context.Context, query string, maxResults int) ([]Candidate, error) {
	q := strings.ToLower(query)
	out := make([]Candidate, 0, len(s.ids))
	for _, id := range s.ids {
		if len(out) >= maxResults {
			break
		}
		if !strings.Contains(strings.ToLower(id), q) && s.rand.Float64() >= admitProbability {
			continue
		}
		out = append(out, Candidate{ID: id, Title: "Sample Whisky Review " + id})
	}
	slog.Info("discovery: sampled videos",
		slog.String("query", query), slog.Int("found", len(out)))
	return out, nil
}
