package transcript

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

const previewRunes = 200

// RawDataConverter is a transcript object that can flatten itself into records.
type RawDataConverter interface {
	RawData() ([]any, error)
}

// PayloadKind tags the variant held by a Payload.
type PayloadKind int

const (
	PayloadUnknown PayloadKind = iota
	PayloadRawSequence
	PayloadConvertible
)

// Payload is transcript content as returned by a backend: either an already flat
// sequence of records or an object that converts itself into one.
type Payload struct {
	Kind    PayloadKind
	Records []any
	Object  RawDataConverter
}

// RawSequence wraps an already flat record sequence.
func RawSequence(records []any) Payload {
	return Payload{Kind: PayloadRawSequence, Records: records}
}

// ConvertibleObject wraps an object exposing RawData.
func ConvertibleObject(obj RawDataConverter) Payload {
	return Payload{Kind: PayloadConvertible, Object: obj}
}

// Normalize converts p into entries. A record without text is kept with empty text
// and logged; anything that is not a sequence of dict-like records fails with
// UnrecognizedPayloadShape.
func Normalize(p Payload) ([]Entry, error) {
	records, err := flatten(p)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			slog.Warn("transcript: unrecognized record",
				slog.Int("index", i), slog.String("preview", preview(records)))
			return nil, engine.Errorf(engine.KindUnrecognizedShape,
				"record %d is %T, want an object with start/duration/text", i, rec)
		}
		entries = append(entries, toEntry(i, m))
	}
	return entries, nil
}

func flatten(p Payload) ([]any, error) {
	switch p.Kind {
	case PayloadRawSequence:
		if p.Records == nil {
			return []any{}, nil
		}
		return p.Records, nil
	case PayloadConvertible:
		if p.Object == nil {
			return nil, engine.Errorf(engine.KindUnrecognizedShape, "convertible payload without object")
		}
		records, err := p.Object.RawData()
		if err != nil {
			return nil, &engine.Error{Kind: engine.KindUnrecognizedShape, Message: "raw data conversion: " + err.Error(), Err: err}
		}
		return records, nil
	}
	return nil, engine.Errorf(engine.KindUnrecognizedShape, "payload is neither a record sequence nor a convertible object")
}

func toEntry(i int, m map[string]any) Entry {
	e := Entry{
		Start:    seconds(i, "start", firstOf(m, "start", "startSeconds")),
		Duration: seconds(i, "duration", firstOf(m, "duration", "durationSeconds")),
	}
	switch text := m["text"].(type) {
	case string:
		e.Text = text
	case nil:
	default:
		e.Text = fmt.Sprint(text)
	}
	if e.Text == "" {
		slog.Warn("transcript: entry without text", slog.Int("index", i))
	}
	return e
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

// seconds reads a numeric field; unparseable or negative values become 0.
func seconds(i int, field string, v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			slog.Warn("transcript: bad number", slog.Int("index", i), slog.String("field", field), slog.String("value", n.String()))
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			slog.Warn("transcript: bad number", slog.Int("index", i), slog.String("field", field), slog.String("value", n))
			return 0
		}
		f = parsed
	default:
		slog.Warn("transcript: bad number", slog.Int("index", i), slog.String("field", field), slog.Any("value", v))
		return 0
	}
	if f < 0 {
		slog.Warn("transcript: negative timing clamped", slog.Int("index", i), slog.String("field", field), slog.Float64("value", f))
		return 0
	}
	return f
}

func preview(records []any) string {
	return engine.TruncateRunes(fmt.Sprintf("%v", records), previewRunes, "...")
}
