// Package transcript fetches one video's transcript through a Backend, falling back
// from a direct fetch to enumerate-then-select, and normalizes whatever payload
// shape the backend produced into a flat sequence of entries.
package transcript

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// ErrNoTranscripts is wrapped by backends when a video has captions disabled or none exist.
var ErrNoTranscripts = errors.New("no transcripts available")

// Entry is one spoken segment.
type Entry struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Strategy names the step of the fallback chain that produced a transcript.
type Strategy string

const (
	StrategyDirect    Strategy = "direct"
	StrategyEnumerate Strategy = "enumerate"
)

// Result is the outcome of fetching one video's transcript. Exactly one of the
// success or failure field groups is populated; build it with Succeeded or Failed.
type Result struct {
	VideoID string `json:"video_id"`
	Success bool   `json:"success"`

	Language         string   `json:"language,omitempty"`
	LanguageCode     string   `json:"language_code,omitempty"`
	IsGenerated      bool     `json:"is_generated,omitempty"`
	Strategy         Strategy `json:"strategy,omitempty"`
	TranscriptLength int      `json:"transcript_length,omitempty"`
	EntryCount       int      `json:"entry_count,omitempty"`
	FullText         string   `json:"full_text,omitempty"`
	Entries          []Entry  `json:"transcript_data,omitempty"`

	ErrorKind    engine.Kind `json:"error_kind,omitempty"`
	ErrorMessage string      `json:"error,omitempty"`
}

// Succeeded builds a successful Result; FullText, EntryCount and TranscriptLength
// are derived from entries.
func Succeeded(videoID string, info TrackInfo, strategy Strategy, entries []Entry) Result {
	if entries == nil {
		entries = []Entry{}
	}
	full := FullText(entries)
	return Result{
		VideoID:          videoID,
		Success:          true,
		Language:         info.Language,
		LanguageCode:     info.LanguageCode,
		IsGenerated:      info.IsGenerated,
		Strategy:         strategy,
		Entries:          entries,
		EntryCount:       len(entries),
		FullText:         full,
		TranscriptLength: utf8.RuneCountInString(full),
	}
}

// Failed builds a failed Result from err. Untagged errors are reported as BackendError.
func Failed(videoID string, err error) Result {
	msg := ""
	if err != nil {
		msg = err.Error()
		var e *engine.Error
		if errors.As(err, &e) {
			msg = e.Message
		}
	}
	return Result{
		VideoID:      videoID,
		ErrorKind:    engine.KindOf(err),
		ErrorMessage: msg,
	}
}

// Describe renders the failure as "<Kind>: <message>".
func (r Result) Describe() string {
	if r.Success {
		return ""
	}
	return string(r.ErrorKind) + ": " + r.ErrorMessage
}

// FullText joins the text of every entry, in order, with a single space.
func FullText(entries []Entry) string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return strings.Join(texts, " ")
}

// TrackInfo describes one transcript available for a video.
type TrackInfo struct {
	Language       string `json:"language"`
	LanguageCode   string `json:"language_code"`
	IsGenerated    bool   `json:"is_generated"`
	IsTranslatable bool   `json:"is_translatable"`
}

// Fetched is a transcript returned by a backend's direct fetch.
type Fetched struct {
	Info    TrackInfo
	Payload Payload
}

// Track is one enumerated transcript whose content can be fetched on demand.
type Track interface {
	Info() TrackInfo
	Fetch(ctx context.Context) (Payload, error)
}

// TrackList is the enumeration of a video's transcripts, in provider order.
type TrackList []Track

// Find returns the first track matching one of codes, trying codes in order.
// For a given code a manually created track wins over a generated one.
func (l TrackList) Find(codes ...string) (Track, bool) {
	for _, code := range codes {
		var generated Track
		for _, t := range l {
			info := t.Info()
			if info.LanguageCode != code {
				continue
			}
			if !info.IsGenerated {
				return t, true
			}
			if generated == nil {
				generated = t
			}
		}
		if generated != nil {
			return generated, true
		}
	}
	return nil, false
}

// Infos lists the descriptors of every track.
func (l TrackList) Infos() []TrackInfo {
	out := make([]TrackInfo, 0, len(l))
	for _, t := range l {
		out = append(out, t.Info())
	}
	return out
}

// Backend is the transcript retrieval collaborator.
type Backend interface {
	// Fetch returns the video's default transcript directly.
	Fetch(ctx context.Context, videoID string) (Fetched, error)
	// List enumerates every transcript available for the video.
	List(ctx context.Context, videoID string) (TrackList, error)
}
