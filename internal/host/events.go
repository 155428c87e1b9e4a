package host

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/armatek/armature/internal/eventbus"
)

// EventsHandler streams module lifecycle and config reload events over a
// WebSocket connection, one JSON object per message. The stream ends when
// the client disconnects or the bus shuts down.
func EventsHandler(logger *slog.Logger, bus *eventbus.Bus) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()

		lifecycle := bus.Subscribe(eventbus.TopicModuleLifecycle)
		defer lifecycle.Cancel()
		reloads := bus.Subscribe(eventbus.TopicConfigReloaded)
		defer reloads.Cancel()

		// Drain client frames so pings/closes are processed; any read error
		// means the peer is gone.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-lifecycle.C:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case event, ok := <-reloads.C:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
