package legacy

import (
	"unicode/utf8"

	"github.com/anatolykoptev/go_transcript/internal/batch"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
)

// Row compares the two transcript paths for one video.
type Row struct {
	VideoID       string            `json:"video_id"`
	PrimaryOK     bool              `json:"primary_success"`
	PrimaryLength int               `json:"primary_length"`
	PrimaryError  string            `json:"primary_error,omitempty"`
	PrimaryUsable bool              `json:"primary_usable"`
	LegacyText    string            `json:"legacy_text"`
	LegacyLength  int               `json:"legacy_length"`
	LegacyUsable  bool              `json:"legacy_usable"`
	Primary       transcript.Result `json:"-"`
}

// Comparison is the compare artifact.
type Comparison struct {
	Rows          []Row  `json:"rows"`
	PrimaryUsable int    `json:"primary_usable"`
	LegacyUsable  int    `json:"legacy_usable"`
	LegacyError   string `json:"legacy_error,omitempty"`
}

// Compare pairs every primary result with the legacy text for the same video.
func Compare(results []transcript.Result, texts map[string]string, legacyErr error) Comparison {
	cmp := Comparison{Rows: make([]Row, 0, len(results))}
	if legacyErr != nil {
		cmp.LegacyError = legacyErr.Error()
	}
	for _, res := range results {
		text, ok := texts[res.VideoID]
		if !ok || text == "" {
			text = None
		}
		row := Row{
			VideoID:       res.VideoID,
			PrimaryOK:     res.Success,
			PrimaryLength: res.TranscriptLength,
			PrimaryUsable: batch.Usable(res),
			LegacyText:    text,
			LegacyUsable:  Usable(text),
			Primary:       res,
		}
		if text != None {
			row.LegacyLength = utf8.RuneCountInString(text)
		}
		if !res.Success {
			row.PrimaryError = res.Describe()
		}
		if row.PrimaryUsable {
			cmp.PrimaryUsable++
		}
		if row.LegacyUsable {
			cmp.LegacyUsable++
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}
