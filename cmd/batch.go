package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/anatolykoptev/go_transcript/internal/artifact"
	"github.com/anatolykoptev/go_transcript/internal/batch"
	"github.com/anatolykoptev/go_transcript/internal/discovery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <product-name>",
	Short: "Score transcript availability over review videos for a product",
	Long: `Discover review videos for a product (YouTube Data API when YOUTUBE_API_KEY is set,
a fixed sample set otherwise), fetch each transcript one at a time, and report
success and usable counts with a recommendation. The summary is written to
whisky_transcript_results_<product>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().Int("video-limit", batch.DefaultVideoLimit, "number of videos to evaluate")
}

// newEvaluator wires the batch evaluator from engine.Cfg.
func newEvaluator(obs batch.Observer) *batch.Evaluator {
	return &batch.Evaluator{
		Discovery: discovery.New(engine.Cfg),
		Fetcher:   transcript.NewFetcher(youtube.NewClient()),
		Writer:    artifact.NewWriter(engine.Cfg.ArtifactDir),
		Pacer:     batch.FixedPacer(engine.Cfg.PacingInterval),
		Observer:  obs,
		Langs:     engine.Langs(),
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := initEngine(cmd); err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("video-limit")
	out := cmd.OutOrStdout()
	product := args[0]

	fmt.Fprintf(out, "Testing transcript retrieval for: %s\n", product)
	sum, err := newEvaluator(consoleProgress{out: out}).Run(cmd.Context(), product, limit)
	printSummary(out, sum)
	if err != nil {
		slog.Warn("batch: results file not written", slog.Any("error", err))
		fmt.Fprintf(out, "\nResults not saved: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "\nResults saved to %s\n", filepath.Join(engine.Cfg.ArtifactDir, artifact.BatchName(product)))
	return nil
}
