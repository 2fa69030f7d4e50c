package cmd

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/discovery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	t.Cleanup(func() {
		_ = cmd.PersistentFlags().Set("log-level", "info")
		_ = versionCmd.Flags().Set("short", "false")
	})
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		want    string
	}{
		{name: "help", args: []string{"--help"}, want: "Available Commands:"},
		{name: "invalid flag", args: []string{"--invalid-flag"}, wantErr: "unknown flag"},
		{name: "video without id", args: []string{"video"}, wantErr: "accepts 1 arg(s), received 0"},
		{name: "batch without product", args: []string{"batch"}, wantErr: "accepts 1 arg(s), received 0"},
		{name: "compare without ids", args: []string{"compare"}, wantErr: "requires at least 1 arg(s)"},
		{name: "serve with args", args: []string{"serve", "extra"}, wantErr: "unknown command"},
		{name: "bad log level", args: []string{"version", "--log-level", "loud"}, wantErr: "invalid --log-level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:      dev")

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestLogFlags(t *testing.T) {
	cmd := NewRootCmd()
	logFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logFlag)
	assert.Equal(t, "info", logFlag.DefValue)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("json-logs"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("out-dir"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("lang"))

	batchCmd, _, err := cmd.Find([]string{"batch"})
	require.NoError(t, err)
	limit := batchCmd.Flags().Lookup("video-limit")
	require.NotNil(t, limit)
	assert.Equal(t, "5", limit.DefValue)
}

func configCmd() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().String("out-dir", "", "")
	c.Flags().StringSlice("lang", nil, "")
	return c
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"YOUTUBE_API_KEY", "TRANSCRIPT_LANGS", "PACING_INTERVAL", "RETRY_MAX", "ARTIFACT_DIR"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	c := loadConfig(configCmd())
	assert.Empty(t, c.YouTubeAPIKey)
	assert.Equal(t, "whisky review", c.YouTubeQuerySuffix)
	assert.Equal(t, []string{"en"}, c.TranscriptLangs)
	assert.Equal(t, time.Second, c.PacingInterval)
	assert.Equal(t, engine.NoRetry, c.Retry)
	assert.Equal(t, ".", c.ArtifactDir)
	assert.NoError(t, c.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TRANSCRIPT_LANGS", "de,en")
	t.Setenv("RETRY_MAX", "2")
	t.Setenv("ARTIFACT_DIR", "/var/tmp/probe")

	c := loadConfig(configCmd())
	assert.Equal(t, []string{"de", "en"}, c.TranscriptLangs)
	assert.Equal(t, 2, c.Retry.MaxRetries)
	assert.Equal(t, "/var/tmp/probe", c.ArtifactDir)

	cmd := configCmd()
	require.NoError(t, cmd.Flags().Set("out-dir", "results"))
	require.NoError(t, cmd.Flags().Set("lang", "FR"))
	c = loadConfig(cmd)
	assert.Equal(t, "results", c.ArtifactDir)
	assert.Equal(t, []string{"fr"}, c.TranscriptLangs)
}

func TestConsoleProgress(t *testing.T) {
	buf := new(bytes.Buffer)
	p := consoleProgress{out: buf}

	p.Discovered("lagavulin", []discovery.Candidate{{ID: "QtUSxUwCqlg"}}, errors.New("SearchProviderError: quota"))
	p.Started(0, 1, discovery.Candidate{ID: "QtUSxUwCqlg", Title: "Lagavulin 16"})
	p.Finished(0, 1, transcript.Failed("QtUSxUwCqlg", engine.Errorf(engine.KindNoTranscripts, "captions disabled")), false)

	out := buf.String()
	assert.Contains(t, out, "Video search failed: SearchProviderError: quota")
	assert.Contains(t, out, `Found 1 videos for "lagavulin"`)
	assert.Contains(t, out, "[1/1] QtUSxUwCqlg  Lagavulin 16")
	assert.Contains(t, out, "✗ NoTranscriptsAvailable: captions disabled")
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "none", verdict(false, false, 0))
	assert.Equal(t, "usable (300 chars)", verdict(true, true, 300))
	assert.Equal(t, "short (20 chars)", verdict(true, false, 20))
}
