package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from cmd.
type Config struct {
	YouTubeAPIKey      string
	YouTubeQuerySuffix string
	TranscriptLangs    []string `validate:"min=1,dive,required"`
	LegacyURL          string   `validate:"omitempty,url"`
	FetchTimeout       time.Duration
	PacingInterval     time.Duration `validate:"gte=0"`
	RequestsPerSecond  float64       `validate:"gte=0"`
	SampleSeed         int64
	ArtifactDir        string `validate:"required"`
	Retry              RetryConfig    `validate:"-"`
	HTTPClient         *http.Client   `validate:"-"`
	BrowserClient      *BrowserClient `validate:"-"` // nil = plain HTTP client for the watch page
	Limiter            *rate.Limiter  `validate:"-"` // nil = unpaced outbound requests
}

var validate = validator.New()

// Validate checks the struct tags on c.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.Limiter == nil && c.RequestsPerSecond > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1)
	}
	cfg = c
	Cfg = &cfg
}

// Wait blocks until the outbound limiter admits one request.
func Wait(ctx context.Context) error {
	if cfg.Limiter == nil {
		return nil
	}
	return cfg.Limiter.Wait(ctx)
}

// Langs returns the configured preferred transcript languages, defaulting to English.
func Langs() []string {
	if len(cfg.TranscriptLangs) == 0 {
		return []string{"en"}
	}
	return cfg.TranscriptLangs
}
