package windows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sescandon/nevexp/internal/logging"
	"github.com/sescandon/nevexp/internal/models"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	before, _ := hub.MatchAll(context.Background(), true)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.WriteJSON(frame{Type: frameHello, URL: "http://localhost:5173/"}))
	require.Eventually(t, func() bool {
		wins, _ := hub.MatchAll(context.Background(), true)
		return len(wins) == len(before)+1
	}, time.Second, 10*time.Millisecond)
	return conn
}

func TestShowDeliversNotificationFrame(t *testing.T) {
	hub := NewHub(logging.Discard())
	conn := dialHub(t, hub)

	params := models.PresentationParameters{Title: "VENCE HOY", Tag: "product-P1"}
	require.NoError(t, hub.Show(context.Background(), params))

	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, frameNotification, got.Type)
	assert.Equal(t, "product-P1", got.Tag)
	require.NotNil(t, got.Notification)
	assert.Equal(t, "VENCE HOY", got.Notification.Title)
}

func TestShowReplaysToLateJoiners(t *testing.T) {
	hub := NewHub(logging.Discard())
	require.NoError(t, hub.Show(context.Background(), models.PresentationParameters{Tag: "product-P2"}))

	conn := dialHub(t, hub)

	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, frameNotification, got.Type)
	assert.Equal(t, "product-P2", got.Tag)
}

func TestClickFrameReachesSink(t *testing.T) {
	hub := NewHub(logging.Discard())
	events := make(chan models.Event, 1)
	hub.SetSink(func(evt models.Event) { events <- evt })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(frame{
		Type:   frameClick,
		Action: models.ActionView,
		Tag:    "product-P1",
		Data:   models.NotificationData{ProductID: "P1"},
	}))

	select {
	case evt := <-events:
		assert.Equal(t, models.EventNotificationClick, evt.Kind)
		assert.Equal(t, models.ActionView, evt.Action)
		assert.Equal(t, "product-P1", evt.Tag)
		assert.Equal(t, "P1", evt.Data.ProductID)
	case <-time.After(time.Second):
		t.Fatal("expected click event at sink")
	}
}

func TestClaimControlsAllWindows(t *testing.T) {
	hub := NewHub(logging.Discard())
	dialHub(t, hub)

	controlled, err := hub.MatchAll(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, controlled, "fresh windows are uncontrolled")

	require.NoError(t, hub.Claim(context.Background()))

	controlled, err = hub.MatchAll(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, controlled, 1)
}

func TestChromeDismissalForgetsNotification(t *testing.T) {
	hub := NewHub(logging.Discard())
	conn := dialHub(t, hub)

	require.NoError(t, hub.Show(context.Background(), models.PresentationParameters{Tag: "expiry-notification-1"}))
	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, frameNotification, got.Type)

	require.NoError(t, conn.WriteJSON(frame{Type: frameClosed, Tag: "expiry-notification-1"}))
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.active) == 0
	}, time.Second, 10*time.Millisecond, "dismissed notification must leave the surface")

	// A window connecting now gets no replay of the dismissed notification.
	late := dialHub(t, hub)
	require.NoError(t, hub.Show(context.Background(), models.PresentationParameters{Tag: "other"}))
	require.NoError(t, late.ReadJSON(&got))
	assert.Equal(t, "other", got.Tag)
}

func TestCloseRemovesFromSurface(t *testing.T) {
	hub := NewHub(logging.Discard())
	require.NoError(t, hub.Show(context.Background(), models.PresentationParameters{Tag: "product-P3"}))

	require.NoError(t, hub.Close(context.Background(), "product-P3"))

	// A window connecting now sees nothing to replay.
	conn := dialHub(t, hub)
	require.NoError(t, hub.Show(context.Background(), models.PresentationParameters{Tag: "other"}))
	var got frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "other", got.Tag)
}
