package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	good := Config{TranscriptLangs: []string{"en"}, ArtifactDir: ".", PacingInterval: time.Second}
	require.NoError(t, good.Validate())

	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"no languages", func(c *Config) { c.TranscriptLangs = nil }},
		{"blank language", func(c *Config) { c.TranscriptLangs = []string{""} }},
		{"no artifact dir", func(c *Config) { c.ArtifactDir = "" }},
		{"negative pacing", func(c *Config) { c.PacingInterval = -time.Second }},
		{"bad legacy url", func(c *Config) { c.LegacyURL = "not a url" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mut(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestInitDefaults(t *testing.T) {
	Init(Config{RequestsPerSecond: 5})
	assert.NotNil(t, Cfg.HTTPClient)
	assert.NotNil(t, Cfg.Limiter)
	assert.Equal(t, []string{"en"}, Langs())
}
