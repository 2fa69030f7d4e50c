package cmd

import (
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
	"github.com/anatolykoptev/go_transcript/internal/toolserver"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Expose the probe as MCP tools over HTTP:
  • youtube_transcript  single-video fetch with available transcripts
  • transcript_batch    batch evaluation with recommendation`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "listen port (default $MCP_PORT or 8894)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initEngine(cmd); err != nil {
		return err
	}
	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = env.Str("MCP_PORT", "8894")
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: Version,
	}, nil)

	toolserver.RegisterTools(server, toolserver.Deps{
		Transcripts: transcript.NewFetcher(youtube.NewClient()),
		Batch:       newEvaluator(nil),
		Langs:       engine.Langs(),
	})
	slog.Info("starting go_transcript", slog.String("port", port), slog.Int("tools", 2))

	return mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      Version,
		Port:         port,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	})
}
