package legacy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	engine.Init(engine.Config{ArtifactDir: t.TempDir(), HTTPClient: srv.Client()})
	return NewClient(srv.URL)
}

func TestFetch(t *testing.T) {
	long := strings.Repeat("smoky ", 20)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b", "c"}, req.VideoIDs)
		_ = json.NewEncoder(w).Encode(map[string]string{"a": long, "b": "none"})
	})

	got, err := c.Fetch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": long, "b": None, "c": None}, got)
}

func TestFetchFailureDegradesToNone(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})
	got, err := c.Fetch(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"a": None}, got)
}

func TestFetchNoIDs(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	got, err := c.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUsable(t *testing.T) {
	assert.False(t, Usable(None))
	assert.False(t, Usable(strings.Repeat("a", 49)))
	assert.True(t, Usable(strings.Repeat("a", 50)))
}

func TestNewClientDefault(t *testing.T) {
	assert.Equal(t, DefaultURL, NewClient("").url)
}
