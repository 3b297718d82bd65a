package play

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("topic"))
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, topic string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?topic=" + topic
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "7")

	require.Eventually(t, func() bool {
		return hub.ClientCount(context.Background(), "7") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("7", Message{SessionID: "abc", Event: "moved", Data: map[string]int{"moves": 3}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		SessionID string         `json:"session_id"`
		Event     string         `json:"event"`
		Data      map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "abc", got.SessionID)
	assert.Equal(t, "moved", got.Event)
	assert.Equal(t, 3, got.Data["moves"])
}

func TestHub_OtherTopicsAreNotDelivered(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "8")

	require.Eventually(t, func() bool {
		return hub.ClientCount(context.Background(), "8") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish("7", Message{Event: "moved"})
	hub.Publish("8", Message{Event: "tick"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"tick"`)
}

func TestHub_ClientRemovedOnDisconnect(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "7")

	require.Eventually(t, func() bool {
		return hub.ClientCount(context.Background(), "7") == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool {
		return hub.ClientCount(context.Background(), "7") == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ClientCountAfterStop(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.Equal(t, 0, hub.ClientCount(context.Background(), "7"))
}
