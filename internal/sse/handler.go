package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/guildledger/internal/logger"
)

// Handler returns an HTTP handler for SSE connections
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		var eventTypes []string
		if filterParam := r.URL.Query().Get(QueryParamTypes); filterParam != "" {
			eventTypes = strings.Split(filterParam, ",")
		}
		itemType := r.URL.Query().Get(QueryParamItemType)

		client := hub.Register(eventTypes, itemType)
		log.Info(LogMsgClientConnected, "client_id", client.ID, "filters", eventTypes, "item_type", itemType)

		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		connectEvent := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload: map[string]any{
				"client_id": client.ID,
				"filters":   eventTypes,
				"item_type": itemType,
			},
		}
		if msg, err := FormatSSEMessage(connectEvent); err == nil {
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					// hub shut down
					return
				}
				msg, err := FormatSSEMessage(event)
				if err != nil {
					log.Error(LogMsgWriteError, "error", err)
					continue
				}
				if _, err := w.Write(msg); err != nil {
					log.Warn(LogMsgWriteError, "error", err)
					return
				}
				flusher.Flush()

			case <-ticker.C:
				if _, err := w.Write(keepaliveMessage); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
