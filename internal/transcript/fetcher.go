package transcript

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// DefaultLangs is the language preference used when a caller passes none.
var DefaultLangs = []string{"en"}

// Fetcher runs the fallback chain for single videos.
type Fetcher struct {
	backend Backend
}

// NewFetcher returns a Fetcher over backend.
func NewFetcher(backend Backend) *Fetcher {
	return &Fetcher{backend: backend}
}

// Inspection is a single-video report: the fetch result plus every transcript the
// backend offers for the video.
type Inspection struct {
	Result               Result      `json:"result"`
	AvailableTranscripts []TrackInfo `json:"available_transcripts"`
}

// Fetch retrieves the transcript of videoID. It never returns an error: failures are
// reported inside the Result.
//
//  1. Direct fetch; any failure moves on to step 2.
//  2. List transcripts, pick the first preferred language (else the first listed) and
//     fetch its content.
//  3. Normalize the payload into entries.
func (f *Fetcher) Fetch(ctx context.Context, videoID string, preferred ...string) Result {
	res, _ := f.fetch(ctx, videoID, preferred)
	engine.IncrTranscriptOutcome(res.Success)
	return res
}

// Inspect is Fetch plus the list of available transcripts. When the direct path wins,
// the transcripts are enumerated separately; an enumeration failure there only leaves
// the list empty.
func (f *Fetcher) Inspect(ctx context.Context, videoID string, preferred ...string) Inspection {
	res, tracks := f.fetch(ctx, videoID, preferred)
	engine.IncrTranscriptOutcome(res.Success)

	if tracks == nil && res.Success {
		list, err := f.backend.List(ctx, videoID)
		if err != nil {
			slog.Warn("transcript: listing after direct fetch failed",
				slog.String("id", videoID), slog.Any("error", err))
		} else {
			tracks = list
		}
	}
	return Inspection{Result: res, AvailableTranscripts: tracks.Infos()}
}

func (f *Fetcher) fetch(ctx context.Context, videoID string, preferred []string) (Result, TrackList) {
	if videoID == "" {
		return Failed(videoID, engine.Errorf(engine.KindBackend, "empty video id")), nil
	}
	if len(preferred) == 0 {
		preferred = DefaultLangs
	}

	fetched, err := f.backend.Fetch(ctx, videoID)
	if err == nil {
		return normalized(videoID, fetched.Info, StrategyDirect, fetched.Payload), nil
	}
	slog.Warn("transcript: direct fetch failed, listing transcripts",
		slog.String("id", videoID), slog.Any("error", err))

	tracks, err := f.backend.List(ctx, videoID)
	if err != nil {
		return Failed(videoID, classify(err)), nil
	}
	if len(tracks) == 0 {
		return Failed(videoID, engine.Errorf(engine.KindNoTranscripts, "no transcripts listed for %s", videoID)), tracks
	}

	track, ok := tracks.Find(preferred[0])
	if !ok {
		track = tracks[0]
		slog.Debug("transcript: preferred language missing, using first listed",
			slog.String("id", videoID), slog.String("want", preferred[0]),
			slog.String("using", track.Info().LanguageCode))
	}

	payload, err := track.Fetch(ctx)
	if err != nil {
		return Failed(videoID, classify(err)), tracks
	}
	return normalized(videoID, track.Info(), StrategyEnumerate, payload), tracks
}

func normalized(videoID string, info TrackInfo, strategy Strategy, p Payload) Result {
	entries, err := Normalize(p)
	if err != nil {
		return Failed(videoID, err)
	}
	return Succeeded(videoID, info, strategy, entries)
}

// classify maps a backend error onto the failure taxonomy, keeping its message.
func classify(err error) error {
	var tagged *engine.Error
	if errors.As(err, &tagged) {
		return err
	}
	if errors.Is(err, ErrNoTranscripts) {
		return engine.NewError(engine.KindNoTranscripts, err)
	}
	return engine.NewError(engine.KindBackend, err)
}
