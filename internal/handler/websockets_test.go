package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poachwatch/internal/dto"
	wshub "poachwatch/internal/service/websocket"
)

func shortKeepAlive(t *testing.T) {
	t.Helper()
	oldPong, oldPing := pongWait, pingPeriod
	pongWait, pingPeriod = 300*time.Millisecond, 100*time.Millisecond
	t.Cleanup(func() { pongWait, pingPeriod = oldPong, oldPing })
}

func TestViewWebsocketHandler_IdleViewerKeepsStream(t *testing.T) {
	shortKeepAlive(t)
	log, _ := newTestLogger(t)

	hub := wshub.NewHubService(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(ViewWebsocketHandler(hub, log))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	// Reading lets the client answer pings, as a browser does.
	messages := make(chan []byte, 4)
	go func() {
		defer close(messages)
		for {
			_, message, err := client.ReadMessage()
			if err != nil {
				return
			}
			messages <- message
		}
	}()

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Idle for several pong windows.
	time.Sleep(4 * pongWait)
	assert.Equal(t, 1, hub.GetClientCount(), "idle viewer must stay registered")

	hub.Publish(dto.ScanEvent{RunID: "run-7", Type: dto.EventOutcome})

	select {
	case message, ok := <-messages:
		require.True(t, ok, "stream closed while idle")
		var event dto.ScanEvent
		require.NoError(t, json.Unmarshal(message, &event))
		assert.Equal(t, "run-7", event.RunID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event after idling")
	}
}
