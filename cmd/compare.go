package cmd

import (
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/artifact"
	"github.com/anatolykoptev/go_transcript/internal/batch"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
	"github.com/anatolykoptev/go_transcript/internal/legacy"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <video-id|url>...",
	Short: "Compare the fetcher with the legacy transcript endpoint",
	Long: `Fetch each video's transcript with the fetcher and with the legacy cloud function
(LEGACY_TRANSCRIPT_URL), print which path produced a usable transcript, and write
the comparison to transcript_compare_<first-id>.json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if err := initEngine(cmd); err != nil {
		return err
	}
	ids := make([]string, len(args))
	for i, a := range args {
		ids[i] = toolutil.NormVideoID(a)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fetcher := transcript.NewFetcher(youtube.NewClient())
	pacer := batch.FixedPacer(engine.Cfg.PacingInterval)
	results := make([]transcript.Result, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			pacer.Pause()
		}
		results = append(results, fetcher.Fetch(ctx, id, engine.Langs()...))
	}

	texts, legacyErr := legacy.NewClient(engine.Cfg.LegacyURL).Fetch(ctx, ids)
	if legacyErr != nil {
		fmt.Fprintf(out, "Legacy endpoint failed: %v\n", legacyErr)
	}
	cmp := legacy.Compare(results, texts, legacyErr)

	for _, row := range cmp.Rows {
		fmt.Fprintf(out, "%s  primary: %s  legacy: %s\n",
			row.VideoID, verdict(row.PrimaryOK, row.PrimaryUsable, row.PrimaryLength),
			verdict(row.LegacyText != legacy.None, row.LegacyUsable, row.LegacyLength))
	}
	fmt.Fprintf(out, "\nUsable: primary %d/%d, legacy %d/%d\n",
		cmp.PrimaryUsable, len(cmp.Rows), cmp.LegacyUsable, len(cmp.Rows))

	path, err := artifact.NewWriter(engine.Cfg.ArtifactDir).Write(artifact.CompareName(ids), cmp)
	if err != nil {
		slog.Warn("compare: results file not written", slog.Any("error", err))
		fmt.Fprintf(out, "Results not saved: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Results saved to %s\n", path)
	return nil
}

func verdict(found, usable bool, length int) string {
	switch {
	case !found:
		return "none"
	case usable:
		return fmt.Sprintf("usable (%d chars)", length)
	default:
		return fmt.Sprintf("short (%d chars)", length)
	}
}
