package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/parade-weather-service/internal/adapter/http"
	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*httpadapter.Hub, *observability.Metrics, *websocket.Conn) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	hub := httpadapter.NewHub(discardLogger(), m)
	go hub.Run()
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return hub, m, conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestHub_NotifyDeliversToClients(t *testing.T) {
	hub, m, conn := startHub(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebsocketClients))

	err := hub.Notify(context.Background(), domain.Notification{
		Level:        domain.LevelWarning,
		Message:      "💨 Strong wind advisory: 25.0 m/s winds expected",
		Duration:     5 * time.Second,
		AssessmentID: "asm-1",
	})
	require.NoError(t, err)

	msg := readEnvelope(t, conn)
	assert.Equal(t, "notification", msg["type"])
	assert.Equal(t, "warning", msg["level"])
	assert.Equal(t, "💨 Strong wind advisory: 25.0 m/s winds expected", msg["message"])
	assert.InDelta(t, 5000, msg["duration_ms"], 0)
	assert.Equal(t, "asm-1", msg["assessment_id"])
}

func TestHub_BroadcastState(t *testing.T) {
	hub, _, conn := startHub(t)

	hub.BroadcastState(pipeline.StateIdle, pipeline.StateLoading)

	msg := readEnvelope(t, conn)
	assert.Equal(t, "state", msg["type"])
	assert.Equal(t, "loading", msg["state"])
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, m, conn := startHub(t)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WebsocketClients))
}

func TestHub_NotifyAfterClose(t *testing.T) {
	hub := httpadapter.NewHub(discardLogger(), observability.NewMetricsForTesting())
	hub.Close()

	err := hub.Notify(context.Background(), domain.Notification{Message: "late"})
	require.ErrorIs(t, err, httpadapter.ErrHubClosed)
}
