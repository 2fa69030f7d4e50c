package cmd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_transcript/internal/discovery"
	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/spf13/cobra"
)

// loadConfig reads the engine configuration from the environment and the global
// flags. Flags win over environment variables.
func loadConfig(cmd *cobra.Command) engine.Config {
	c := engine.Config{
		YouTubeAPIKey:      env.Str("YOUTUBE_API_KEY", ""),
		YouTubeQuerySuffix: env.Str("YOUTUBE_QUERY_SUFFIX", discovery.DefaultQuerySuffix),
		TranscriptLangs:    toolutil.NormLangs(env.List("TRANSCRIPT_LANGS", "en")),
		LegacyURL:          env.Str("LEGACY_TRANSCRIPT_URL", ""),
		FetchTimeout:       env.Duration("FETCH_TIMEOUT", 15*time.Second),
		PacingInterval:     env.Duration("PACING_INTERVAL", time.Second),
		RequestsPerSecond:  env.Float("REQUESTS_PER_SECOND", 2),
		SampleSeed:         int64(env.Int("SAMPLE_SEED", 0)),
		ArtifactDir:        env.Str("ARTIFACT_DIR", "."),
		Retry:              engine.NoRetry,
	}
	if n := env.Int("RETRY_MAX", 0); n > 0 {
		c.Retry = engine.DefaultRetryConfig
		c.Retry.MaxRetries = n
	}
	if dir, _ := cmd.Flags().GetString("out-dir"); dir != "" {
		c.ArtifactDir = dir
	}
	if langs, _ := cmd.Flags().GetStringSlice("lang"); len(langs) > 0 {
		c.TranscriptLangs = toolutil.NormLangs(langs)
	}
	return c
}

// initEngine validates the configuration, builds the HTTP clients and installs the
// result as engine.Cfg.
func initEngine(cmd *cobra.Command) error {
	c := loadConfig(cmd)
	if err := c.Validate(); err != nil {
		return err
	}
	c.HTTPClient = &http.Client{
		Timeout: c.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, using plain HTTP for watch pages", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Debug("stealth browser client initialized")
	}

	engine.Init(c)
	slog.Debug("engine initialized",
		slog.Bool("search_api", c.YouTubeAPIKey != ""),
		slog.Any("langs", c.TranscriptLangs),
		slog.Duration("pacing", c.PacingInterval),
		slog.String("out_dir", c.ArtifactDir))
	return nil
}
