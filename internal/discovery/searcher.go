package discovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
)

// VideoSearcher is the Data API call the Searcher depends on.
type VideoSearcher interface {
	Search(ctx context.Context, apiKey string, p youtube.SearchParams) ([]youtube.Video, error)
}

// Searcher discovers videos with one YouTube Data API search call per query.
type Searcher struct {
	api    VideoSearcher
	apiKey string
	suffix string
}

// NewSearcher returns a Searcher. An empty suffix means DefaultQuerySuffix.
func NewSearcher(api VideoSearcher, apiKey, suffix string) *Searcher {
	if suffix == "" {
		suffix = DefaultQuerySuffix
	}
	return &Searcher{api: api, apiKey: apiKey, suffix: suffix}
}

// Discover searches for medium-length English videos. Provider failures yield no
// candidates and a SearchProviderError.
func (s *Searcher) Discover(ctx context.Context, query string, maxResults int) ([]Candidate, error) {
	q := strings.TrimSpace(query + " " + s.suffix)
	var videos []youtube.Video
	err := engine.TrackOperation(ctx, "youtube_search", func(ctx context.Context) error {
		var err error
		videos, err = s.api.Search(ctx, s.apiKey, youtube.SearchParams{
			Query:      q,
			MaxResults: maxResults,
			Duration:   "medium",
			Language:   "en",
		})
		return err
	})
	if err != nil {
		slog.Error("discovery: search failed", slog.String("query", q), slog.Any("error", err))
		return []Candidate{}, engine.NewError(engine.KindSearchProvider, err)
	}

	out := make([]Candidate, 0, len(videos))
	for _, v := range videos {
		out = append(out, Candidate{
			ID:           v.ID,
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			PublishedAt:  v.PublishedAt,
			ThumbnailURL: v.ThumbnailURL,
		})
	}
	slog.Info("discovery: search done", slog.String("query", q), slog.Int("found", len(out)))
	return out, nil
}
