package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/artifact"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/spf13/cobra"
)

const previewChars = 500

var videoCmd = &cobra.Command{
	Use:   "video <video-id|url>",
	Short: "Fetch one video's transcript",
	Long: `Fetch the transcript of a single YouTube video, print it with the list of
available transcripts, and write transcript_<id>.json to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) error {
	if err := initEngine(cmd); err != nil {
		return err
	}
	id := toolutil.NormVideoID(args[0])
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing transcript retrieval for video: %s\n", id)
	insp := transcript.NewFetcher(youtube.NewClient()).Inspect(cmd.Context(), id, engine.Langs()...)
	printInspection(out, insp)

	path, err := artifact.NewWriter(engine.Cfg.ArtifactDir).Write(artifact.VideoName(id), insp)
	if err != nil {
		slog.Warn("video: result file not written", slog.Any("error", err))
		fmt.Fprintf(out, "\nResults not saved: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "\nResults saved to %s\n", path)
	return nil
}

func printInspection(out io.Writer, insp transcript.Inspection) {
	res := insp.Result
	if len(insp.AvailableTranscripts) > 0 {
		fmt.Fprintf(out, "Available transcripts: %d\n", len(insp.AvailableTranscripts))
		for _, t := range insp.AvailableTranscripts {
			fmt.Fprintf(out, "  - %s (%s), generated: %t, translatable: %t\n",
				t.Language, t.LanguageCode, t.IsGenerated, t.IsTranslatable)
		}
	}
	if !res.Success {
		fmt.Fprintf(out, "✗ %s\n", res.Describe())
		return
	}
	fmt.Fprintf(out, "✓ Transcript retrieved via %s fetch\n", res.Strategy)
	fmt.Fprintf(out, "  Language: %s (%s), generated: %t\n", res.Language, res.LanguageCode, res.IsGenerated)
	fmt.Fprintf(out, "  Entries: %d, length: %d characters\n", res.EntryCount, res.TranscriptLength)
	fmt.Fprintf(out, "\nPreview:\n%s\n", engine.TruncateRunes(res.FullText, previewChars, "..."))
}
