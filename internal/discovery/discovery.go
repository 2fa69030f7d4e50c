// Package discovery finds candidate videos for a keyword query, either from the YouTube
// Data API or, without a credential, from a fixed sample set.
package discovery

import (
	"context"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
)

// DefaultQuerySuffix is appended to every Data API query.
const DefaultQuerySuffix = "whisky review"

// Candidate is one video found by discovery.
type Candidate struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Discoverer returns up to maxResults candidates for query. A non-nil error is
// informational: the candidate slice is empty and callers carry on.
type Discoverer interface {
	Discover(ctx context.Context, query string, maxResults int) ([]Candidate, error)
}

// New picks the Data API searcher when an API key is configured, the offline sampler
// otherwise.
func New(c *engine.Config) Discoverer {
	if c.YouTubeAPIKey != "" {
		return NewSearcher(youtube.NewClient(), c.YouTubeAPIKey, c.YouTubeQuerySuffix)
	}
	seed := c.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSampler(seed)
}
