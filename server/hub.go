package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Hub fans match updates out to the websocket clients watching them.
type Hub struct {
	mu      sync.Mutex
	matches map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{matches: make(map[string]map[*websocket.Conn]struct{})}
}

type message struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// HandleWS upgrades the request and streams the updates of the match named
// by the match_id query parameter. snapshot, when set, provides the first
// message sent to the client.
func (h *Hub) HandleWS(snapshot func(matchID string) (any, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID := c.Query("match_id")
		if matchID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing match_id"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("failed to upgrade connection")
			return
		}
		log.Debug().Msgf("websocket connection established for match %s", matchID)

		h.mu.Lock()
		if snapshot != nil {
			if data, ok := snapshot(matchID); ok {
				if err := conn.WriteJSON(message{Action: "status", Data: data}); err != nil {
					h.mu.Unlock()
					conn.Close()
					return
				}
			}
		}
		if _, ok := h.matches[matchID]; !ok {
			h.matches[matchID] = make(map[*websocket.Conn]struct{})
		}
		h.matches[matchID][conn] = struct{}{}
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.matches[matchID], conn)
			if len(h.matches[matchID]) == 0 {
				delete(h.matches, matchID)
			}
			h.mu.Unlock()
			_ = conn.Close()
		}()

		// Clients only listen; reading detects when they go away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// Broadcast sends action and data to every client of matchID.
func (h *Hub) Broadcast(matchID, action string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.matches[matchID] {
		if err := conn.WriteJSON(message{Action: action, Data: data}); err != nil {
			log.Warn().Err(err).Msgf("failed to send %s to a client of match %s", action, matchID)
			conn.Close()
			delete(h.matches[matchID], conn)
		}
	}
}

// Clients returns how many clients watch matchID.
func (h *Hub) Clients(matchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.matches[matchID])
}
