package transcript

import (
	"context"
	"fmt"
	"strings"
)

type fakeTrack struct {
	info    TrackInfo
	payload Payload
	err     error
}

func (t fakeTrack) Info() TrackInfo { return t.info }

func (t fakeTrack) Fetch(context.Context) (Payload, error) { return t.payload, t.err }

type fakeBackend struct {
	fetched    Fetched
	fetchErr   error
	tracks     TrackList
	listErr    error
	fetchCalls int
	listCalls  int
}

func (b *fakeBackend) Fetch(context.Context, string) (Fetched, error) {
	b.fetchCalls++
	return b.fetched, b.fetchErr
}

func (b *fakeBackend) List(context.Context, string) (TrackList, error) {
	b.listCalls++
	return b.tracks, b.listErr
}

type converter struct {
	records []any
	err     error
}

func (c converter) RawData() ([]any, error) { return c.records, c.err }

// records builds n flat records whose joined text is exactly totalLen bytes.
func records(n, totalLen int) []any {
	// n texts plus n-1 separators
	textBytes := totalLen - (n - 1)
	out := make([]any, n)
	for i := range n {
		size := textBytes / n
		if i < textBytes%n {
			size++
		}
		out[i] = map[string]any{
			"start":    float64(i) * 2.5,
			"duration": 2.5,
			"text":     strings.Repeat("w", size),
		}
	}
	return out
}

func enTrack(generated bool, payload Payload) fakeTrack {
	return fakeTrack{info: TrackInfo{Language: "English", LanguageCode: "en", IsGenerated: generated}, payload: payload}
}

func langTrack(code string) fakeTrack {
	return fakeTrack{
		info:    TrackInfo{Language: fmt.Sprintf("lang-%s", code), LanguageCode: code},
		payload: RawSequence([]any{map[string]any{"start": 0.0, "duration": 1.0, "text": code}}),
	}
}
