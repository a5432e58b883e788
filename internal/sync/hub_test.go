package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallsync/internal/models"
)

func dialHub(t *testing.T, h *Hub, greet func() models.PushMessage) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, greet)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubGreetsAndBroadcasts(t *testing.T) {
	h := NewHub(testLogger())

	greeting := models.PushMessage{
		Type:   models.PushStateChanged,
		Tables: []models.TableView{{ID: 1, TableNumber: 1, Status: "empty"}},
	}
	conn := dialHub(t, h, func() models.PushMessage { return greeting })

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.PushMessage
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, models.PushStateChanged, got.Type)
	require.Len(t, got.Tables, 1)

	// wait for registration before broadcasting
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Broadcast(models.PushMessage{
		Type:         models.PushNotification,
		Notification: &models.Notification{ID: -1, Type: models.EventTableFull, Message: "table 3 is full"},
	})

	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, models.PushNotification, got.Type)
	require.NotNil(t, got.Notification)
	assert.Equal(t, "table 3 is full", got.Notification.Message)
}

func TestHubDropsClosedClients(t *testing.T) {
	h := NewHub(testLogger())
	conn := dialHub(t, h, nil)

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
