//go:build smoke

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=smoke ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Skip("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Austin, TX")
	require.NoError(t, err)

	assert.InDelta(t, 30.27, result.Lat, 0.1, "lat should be near Austin")
	assert.InDelta(t, -97.74, result.Lon, 0.1, "lon should be near Austin")
	assert.Contains(t, result.FormattedAddress, "Austin")
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ForwardGeocode_Gibberish(t *testing.T) {
	c := smokeClient(t)

	// Mapbox's fuzzy matching may still return a place, so only a hard
	// failure is an error here.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99QQ")
	if err != nil {
		require.ErrorIs(t, err, domain.ErrLocationNotFound)
	}
}
