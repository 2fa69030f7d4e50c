package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// YouTube transcript backend.
// Fetch: scrape watch page ytInitialPlayerResponse → caption XML (works from any IP)
// List:  ANDROID Innertube /player → captionTracks → json3 per track

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

const (
	watchPageLimit = 6 * 1024 * 1024
	timedTextLimit = 2 * 1024 * 1024
)

// Client is a transcript.Backend backed by YouTube's public endpoints.
type Client struct {
	watchURL   string
	playerURL  string
	dataAPIURL string
}

// NewClient returns a Client talking to youtube.com.
func NewClient() *Client {
	return &Client{watchURL: ytWatchURL, playerURL: ytInnertubeURL, dataAPIURL: ytDataAPIBase}
}

var _ transcript.Backend = (*Client)(nil)

// Fetch returns the best caption track for the configured languages, read from the
// watch page.
func (c *Client) Fetch(ctx context.Context, videoID string) (transcript.Fetched, error) {
	engine.IncrYouTubeTranscript()

	tracks, err := c.watchPageTracks(ctx, videoID)
	if err != nil {
		return transcript.Fetched{}, err
	}
	track, ok := pickBestTrack(tracks, engine.Langs())
	if !ok {
		return transcript.Fetched{}, errors.New("all caption tracks require PoToken")
	}
	lines, err := fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return transcript.Fetched{}, err
	}
	return transcript.Fetched{
		Info:    track.info(),
		Payload: transcript.ConvertibleObject(&fetchedTranscript{lines: lines}),
	}, nil
}

// List enumerates every caption track via the ANDROID player endpoint.
func (c *Client) List(ctx context.Context, videoID string) (transcript.TrackList, error) {
	engine.IncrYouTubeList()

	resp, err := postPlayer(ctx, c.playerURL, videoID)
	if err != nil {
		return nil, err
	}
	tracks, err := captionTracks(resp, "player response")
	if err != nil {
		return nil, err
	}
	list := make(transcript.TrackList, 0, len(tracks))
	for _, t := range tracks {
		list = append(list, &track{caption: t})
	}
	return list, nil
}

// watchPageTracks scrapes the watch page and returns its caption tracks.
func (c *Client) watchPageTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	watchURL := c.watchURL + "?v=" + url.QueryEscape(videoID)

	body, err := fetchWatchPage(ctx, watchURL)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}
	jsonData, err := playerResponseJSON(body)
	if err != nil {
		return nil, err
	}

	var resp playerResp
	if err := json.Unmarshal(jsonData, &resp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return captionTracks(resp, "watch page")
}

func fetchWatchPage(ctx context.Context, watchURL string) ([]byte, error) {
	if bc := engine.Cfg.BrowserClient; bc != nil {
		if err := engine.Wait(ctx); err != nil {
			return nil, err
		}
		headers := engine.ChromeHeaders()
		headers["accept-language"] = "en-US,en;q=0.9"
		data, _, status, err := bc.Do("GET", watchURL, headers, nil)
		if err != nil {
			return nil, err
		}
		if status != 200 {
			return nil, fmt.Errorf("HTTP %d", status)
		}
		return data, nil
	}
	return getBody(ctx, watchURL, watchPageLimit, map[string]string{
		"User-Agent":      engine.RandomUserAgent(),
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
}

// playerResponseJSON finds the <script> holding ytInitialPlayerResponse and cuts the
// JSON object out of it.
func playerResponseJSON(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}
	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, ytInitialPlayerResponseMarker) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	idx := strings.Index(script, ytInitialPlayerResponseMarker)
	jsonData := extractJSON([]byte(script[idx+len(ytInitialPlayerResponseMarker):]))
	if jsonData == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	return jsonData, nil
}

// captionTracks distinguishes "no captions" from an unplayable video.
func captionTracks(resp playerResp, where string) ([]captionTrack, error) {
	if resp.Captions == nil {
		if ps := resp.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
			return nil, fmt.Errorf("%s: video %s: %s", where, strings.ToLower(ps.Status), ps.Reason)
		}
		return nil, fmt.Errorf("%s: captions disabled: %w", where, transcript.ErrNoTranscripts)
	}
	tracks := resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%s: no caption tracks: %w", where, transcript.ErrNoTranscripts)
	}
	return tracks, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given language preferences.
// Skips tracks that require PoToken; those only work in a browser.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}
	// 1. Manual track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	// 2. Auto-generated track in preferred language
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	// 3. Any English track
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

func (t captionTrack) info() transcript.TrackInfo {
	name := t.Name.String()
	if name == "" {
		name = t.LanguageCode
	}
	return transcript.TrackInfo{
		Language:       name,
		LanguageCode:   t.LanguageCode,
		IsGenerated:    t.Kind == "asr",
		IsTranslatable: t.IsTranslatable,
	}
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func fetchTimedText(ctx context.Context, baseURL string) ([]ytLine, error) {
	engine.IncrTimedText()
	body, err := getBody(ctx, baseURL, timedTextLimit, map[string]string{"User-Agent": engine.UserAgentBot})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.New("empty timedtext response")
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	for i := range tt.Lines {
		tt.Lines[i].Text = engine.CleanCaption(tt.Lines[i].Text)
	}
	return tt.Lines, nil
}

// fetchedTranscript is the direct-fetch result; it flattens into start/duration/text records.
type fetchedTranscript struct {
	lines []ytLine
}

func (f *fetchedTranscript) RawData() ([]any, error) {
	out := make([]any, 0, len(f.lines))
	for _, l := range f.lines {
		out = append(out, map[string]any{
			"text":     l.Text,
			"start":    l.Start,
			"duration": l.Dur,
		})
	}
	return out, nil
}

// track is one enumerated caption track; its content is fetched as json3.
type track struct {
	caption captionTrack
}

func (t *track) Info() transcript.TrackInfo { return t.caption.info() }

func (t *track) Fetch(ctx context.Context) (transcript.Payload, error) {
	if needsPoToken(t.caption.BaseURL) {
		return transcript.Payload{}, errors.New("caption track requires PoToken")
	}
	engine.IncrTimedText()

	body, err := getBody(ctx, withFormat(t.caption.BaseURL, "json3"), timedTextLimit,
		map[string]string{"User-Agent": ytAndroidUA})
	if err != nil {
		return transcript.Payload{}, fmt.Errorf("fetch json3: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return transcript.Payload{}, errors.New("empty json3 response")
	}

	var doc ytJSON3
	if err := json.Unmarshal(body, &doc); err != nil {
		return transcript.Payload{}, fmt.Errorf("parse json3: %w", err)
	}
	records := make([]any, 0, len(doc.Events))
	for _, ev := range doc.Events {
		if len(ev.Segs) == 0 {
			continue // window/style events carry no text
		}
		var sb strings.Builder
		for _, s := range ev.Segs {
			sb.WriteString(s.UTF8)
		}
		text := engine.CleanCaption(sb.String())
		if text == "" {
			continue
		}
		records = append(records, map[string]any{
			"startSeconds":    float64(ev.TStartMs) / 1000,
			"durationSeconds": float64(ev.DDurationMs) / 1000,
			"text":            text,
		})
	}
	slog.Debug("youtube: json3 track fetched",
		slog.String("lang", t.caption.LanguageCode), slog.Int("records", len(records)))
	return transcript.RawSequence(records), nil
}

// withFormat sets the fmt query parameter on a timedtext URL.
func withFormat(rawURL, format string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL + "&fmt=" + format
	}
	q := u.Query()
	q.Set("fmt", format)
	u.RawQuery = q.Encode()
	return u.String()
}
