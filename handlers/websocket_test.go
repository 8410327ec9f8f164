package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveAlertsRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/ws/alerts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, http.MethodGet, "/ws/alerts?token=bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLiveAlertsStreamsPublishedAlerts(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	token, err := env.auth.GenerateToken(services.Identity{Username: "health001", Role: "PHC"})
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return env.mr.PubSubNumSub(services.AlertChannel)[services.AlertChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/predict", choleraReading).Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string              `json:"type"`
		Data services.AlertEvent `json:"data"`
	}
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "health_alert", msg.Type)
	assert.Equal(t, "HIGH", msg.Data.Level)
	assert.Equal(t, "Cholera", msg.Data.Disease)
	assert.Equal(t, "Assam", msg.Data.State)
}

func TestLiveAlertsUnsubscribesWhenClientLeaves(t *testing.T) {
	env := newTestEnv(t, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	token, err := env.auth.GenerateToken(services.Identity{Username: "asha001", Role: "ASHA"})
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return env.mr.PubSubNumSub(services.AlertChannel)[services.AlertChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return env.mr.PubSubNumSub(services.AlertChannel)[services.AlertChannel] == 0
	}, 2*time.Second, 10*time.Millisecond)
}
