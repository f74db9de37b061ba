package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"poachwatch/internal/logger"
)

var (
	// A viewer that has not answered a ping within pongWait is dropped.
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewerRegistry keeps track of connected viewers, e.g. the HubService.
type ViewerRegistry interface {
	Register(client *websocket.Conn)
	Unregister(client *websocket.Conn)
}

// ViewWebsocketHandler handles viewer connections over WebSocket and
// registers them in the hub to receive scan events.
func ViewWebsocketHandler(viewers ViewerRegistry, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		wait, period := pongWait, pingPeriod
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(wait))
		connection.SetPongHandler(func(string) error {
			connection.SetReadDeadline(time.Now().Add(wait))
			return nil
		})

		viewers.Register(connection)
		defer viewers.Unregister(connection)

		stop := make(chan struct{})
		defer close(stop)
		go pingViewer(connection, period, stop, logger)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer disconnected normally")
				} else {
					logger.Warning("Viewer disconnected with error: %v", err)
				}
				return
			}
		}
	}
}

// pingViewer keeps an idle viewer alive. WriteControl may run concurrently
// with the hub's writes.
func pingViewer(connection *websocket.Conn, period time.Duration, stop <-chan struct{}, logger *logger.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Debug("Ping to viewer failed: %v", err)
				return
			}
		}
	}
}
