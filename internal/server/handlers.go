package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type diagnosticsSnake struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Alive         bool   `json:"alive"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
}

// DiagnosticsSnapshot exposes heartbeat data for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsSnake {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]diagnosticsSnake, 0, len(h.snakes))
	for id, s := range h.snakes {
		out = append(out, diagnosticsSnake{
			ID:            id,
			Name:          s.Username,
			Score:         s.Score,
			Alive:         s.Alive,
			LastHeartbeat: s.lastHeartbeat.UnixMilli(),
		})
	}
	return out
}

// Handler builds the HTTP surface: health, diagnostics, and the game
// websocket.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string             `json:"status"`
			ServerTime int64              `json:"serverTime"`
			Snakes     []diagnosticsSnake `json:"snakes"`
			TickRate   int                `json:"tickRate"`
			Heartbeat  int64              `json:"heartbeatMillis"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Snakes:     h.DiagnosticsSnapshot(),
			TickRate:   h.cfg.TickRate,
			Heartbeat:  h.cfg.HeartbeatInterval().Milliseconds(),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if h.cfg.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == h.cfg.AllowedOrigin
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		id, err := h.Connect(conn)
		if err != nil {
			conn.Close()
			return
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				h.Disconnect(id)
				return
			}
			h.HandleMessage(id, payload)
		}
	})

	return mux
}
