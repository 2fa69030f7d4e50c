// Package artifact persists run results as indented JSON files.
package artifact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Writer writes JSON documents into Dir, creating it on demand.
type Writer struct {
	Dir string
}

// NewWriter returns a Writer for dir; "" means the working directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{Dir: dir}
}

// Write encodes v into Dir/name and returns the written path. Every failure is an
// ArtifactWriteError.
func (w *Writer) Write(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", engine.NewError(engine.KindArtifactWrite, fmt.Errorf("encode %s: %w", name, err))
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", engine.NewError(engine.KindArtifactWrite, err)
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", engine.NewError(engine.KindArtifactWrite, err)
	}
	slog.Debug("artifact: written", slog.String("path", path), slog.Int("bytes", len(data)))
	return path, nil
}

var labelReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_", "..", "_")

func sanitize(label string) string {
	return labelReplacer.Replace(strings.TrimSpace(label))
}

// BatchName is the file name of a batch summary for label.
func BatchName(label string) string {
	return "whisky_transcript_results_" + sanitize(label) + ".json"
}

// VideoName is the file name of a single-video inspection.
func VideoName(videoID string) string {
	return "transcript_" + sanitize(videoID) + ".json"
}

// CompareName is the file name of a legacy comparison over ids.
func CompareName(ids []string) string {
	if len(ids) == 0 {
		return "transcript_compare.json"
	}
	name := "transcript_compare_" + sanitize(ids[0])
	if len(ids) > 1 {
		name += fmt.Sprintf("_+%d", len(ids)-1)
	}
	return name + ".json"
}
