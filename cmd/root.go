package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "go_transcript",
	Short: "YouTube transcript reliability probe",
	Long: `go_transcript - fetch YouTube transcripts and measure how reliably they can be obtained

Modes:
  • video    fetch one video's transcript and list the alternatives
  • batch    discover review videos for a product and score transcript availability
  • compare  run the fetcher and the legacy endpoint side by side
  • serve    expose the probe as MCP tools

Configuration comes from the environment (YOUTUBE_API_KEY, TRANSCRIPT_LANGS,
PACING_INTERVAL, REQUESTS_PER_SECOND, ARTIFACT_DIR, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
	rootCmd.PersistentFlags().String("out-dir", "", "directory for result files (default $ARTIFACT_DIR or .)")
	rootCmd.PersistentFlags().StringSlice("lang", nil, "preferred transcript language, repeatable (default $TRANSCRIPT_LANGS or en)")
}

func setupLogging(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(levelName))); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
