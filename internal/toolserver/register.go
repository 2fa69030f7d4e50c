// Package toolserver exposes the transcript probe as MCP tools.
package toolserver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/batch"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const maxBatchLimit = 25

// Inspector fetches one video's transcript and lists the alternatives.
type Inspector interface {
	Inspect(ctx context.Context, videoID string, preferred ...string) transcript.Inspection
}

// BatchRunner runs one batch evaluation.
type BatchRunner interface {
	Run(ctx context.Context, query string, videoLimit int) (batch.Summary, error)
}

// Deps are the services behind the tools.
type Deps struct {
	Transcripts Inspector
	Batch       BatchRunner
	Langs       []string // used when a call names no languages
}

// TranscriptInput is the input for youtube_transcript.
type TranscriptInput struct {
	VideoID   string   `json:"video_id" validate:"required" jsonschema:"YouTube video ID or URL (watch, youtu.be, shorts, embed)"`
	Languages []string `json:"languages,omitempty" jsonschema:"Preferred language codes in order, e.g. en, de. Default: en"`
}

// BatchInput is the input for transcript_batch.
type BatchInput struct {
	Query string `json:"query" validate:"required" jsonschema:"Product or topic keywords, e.g. lagavulin 16"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=25" jsonschema:"Number of videos to evaluate (1-25, default 5)"`
}

// BatchOutput is the result of transcript_batch.
type BatchOutput struct {
	Summary        batch.Summary `json:"summary"`
	Recommendation string        `json:"recommendation"`
	ArtifactError  string        `json:"artifact_error,omitempty"`
}

// RegisterTools registers youtube_transcript and transcript_batch on server.
func RegisterTools(server *mcp.Server, deps Deps) {
	registerTranscript(server, deps)
	registerBatch(server, deps)
}

func registerTranscript(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the transcript of a YouTube video. Tries a direct fetch first, then enumerates the available caption tracks and picks the preferred language. Returns time-coded entries, full text, the language used, and every transcript the video offers. Failures are reported in the result with a kind: NoTranscriptsAvailable, BackendError, UnrecognizedPayloadShape.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, transcript.Inspection, error) {
		out, err := handleTranscript(ctx, deps, input)
		return nil, out, err
	})
}

func registerBatch(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_batch",
		Description: "Evaluate transcript availability over YouTube review videos found for a query. Fetches each video's transcript one at a time with a pause in between, then reports success/usable counts, the success rate, and a recommendation: reliable, partial (needs fallback), or unreliable.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input BatchInput) (*mcp.CallToolResult, BatchOutput, error) {
		out, err := handleBatch(ctx, deps, input)
		return nil, out, err
	})
}

func handleTranscript(ctx context.Context, deps Deps, input TranscriptInput) (transcript.Inspection, error) {
	if err := toolutil.Validate(input); err != nil {
		return transcript.Inspection{}, err
	}
	langs := deps.Langs
	if len(input.Languages) > 0 {
		langs = toolutil.NormLangs(input.Languages)
	}
	return deps.Transcripts.Inspect(ctx, toolutil.NormVideoID(input.VideoID), langs...), nil
}

func handleBatch(ctx context.Context, deps Deps, input BatchInput) (BatchOutput, error) {
	if err := toolutil.Validate(input); err != nil {
		return BatchOutput{}, err
	}
	limit := toolutil.ClampLimit(input.Limit, batch.DefaultVideoLimit, maxBatchLimit)
	sum, err := deps.Batch.Run(ctx, input.Query, limit)
	out := BatchOutput{Summary: sum, Recommendation: sum.Recommendation()}
	if err != nil {
		slog.Warn("transcript_batch: summary not persisted", slog.Any("error", err))
		out.ArtifactError = err.Error()
	}
	return out, nil
}
