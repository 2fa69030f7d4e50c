package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format.
// Input that is not a YouTube URL is returned trimmed and unchanged.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := videoIDRE.FindStringSubmatch(raw); len(m) >= 2 {
		return m[1]
	}
	return raw
}

// Video is one Data API search hit.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// SearchParams constrains a Data API search.
type SearchParams struct {
	Query      string
	MaxResults int
	Duration   string // any, short, medium, long
	Language   string // relevanceLanguage
}

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items *[]ytDataItem `json:"items"`
	Error *ytDataError  `json:"error"`
}

type ytDataError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ytDataItem struct {
	ID      ytDataItemID      `json:"id"`
	Snippet ytDataItemSnippet `json:"snippet"`
}

type ytDataItemID struct {
	VideoID string `json:"videoId"`
}

type ytDataItemSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   map[string]struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

// Search runs one YouTube Data API v3 search call. Provider error envelopes and
// responses without an item list are returned as errors carrying the provider message.
func (c *Client) Search(ctx context.Context, apiKey string, p SearchParams) ([]Video, error) {
	engine.IncrYouTubeSearch()

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", p.Query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(p.MaxResults))
	params.Set("key", apiKey)
	if p.Duration != "" {
		params.Set("videoDuration", p.Duration)
	}
	if p.Language != "" && p.Language != "all" {
		params.Set("relevanceLanguage", p.Language)
	}

	apiURL := c.dataAPIURL + "/search?" + params.Encode()
	resp, err := engine.DoHTTP(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read youtube data API: %w", err)
	}

	var result ytDataSearchResp
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, engine.Truncate(string(body), 256))
		}
		return nil, fmt.Errorf("decode youtube data API: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, engine.Truncate(string(body), 256))
	}
	if result.Items == nil {
		return nil, fmt.Errorf("youtube data API: response has no items")
	}

	videos := make([]Video, 0, len(*result.Items))
	for _, item := range *result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			ThumbnailURL: item.Snippet.Thumbnails["medium"].URL,
		})
	}
	return videos, nil
}
