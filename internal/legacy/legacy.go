// Package legacy talks to the transcript-aggregation cloud function the probe is
// compared against.
package legacy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// DefaultURL is the deployed legacy endpoint.
const DefaultURL = "https://us-central1-youtube-product-reviews-420119.cloudfunctions.net/get_transcripts"

// None is the endpoint's marker for a missing transcript.
const None = "none"

// usableMinChars is the shortest legacy transcript worth keeping.
const usableMinChars = 50

// Client posts video IDs to the legacy endpoint.
type Client struct {
	url string
}

// NewClient returns a Client for url; "" means DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url}
}

type request struct {
	VideoIDs []string `json:"video_ids"`
}

// Fetch returns the transcript text for every id, None where the endpoint has none.
// On error every id maps to None and the error is returned alongside.
func (c *Client) Fetch(ctx context.Context, ids []string) (map[string]string, error) {
	engine.IncrLegacy()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = None
	}
	if len(ids) == 0 {
		return out, nil
	}

	body, err := json.Marshal(request{VideoIDs: ids})
	if err != nil {
		return out, err
	}
	resp, err := engine.DoHTTP(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return req, nil
	})
	if err != nil {
		slog.Warn("legacy: request failed", slog.Int("ids", len(ids)), slog.Any("error", err))
		return out, fmt.Errorf("legacy endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return out, fmt.Errorf("legacy endpoint: HTTP %d: %s", resp.StatusCode, snippet)
	}
	var texts map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&texts); err != nil {
		return out, fmt.Errorf("decode legacy response: %w", err)
	}
	for _, id := range ids {
		if text, ok := texts[id]; ok && text != "" {
			out[id] = text
		}
	}
	return out, nil
}

// Usable reports whether text is a real transcript of meaningful length.
func Usable(text string) bool {
	return text != None && utf8.RuneCountInString(text) >= usableMinChars
}
