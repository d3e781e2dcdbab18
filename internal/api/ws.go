/**
 * @description
 * This file implements the dashboard's realtime channel. Every connection
 * receives the greeting payload on connect; after that, the hub forwards
 * balance events (consumed from RabbitMQ) to the connections belonging to
 * the affected user id, so the profile page updates without polling.
 *
 * @dependencies
 * - encoding/json, log, net/http, sync: Standard Go libraries.
 * - github.com/gorilla/websocket: For the WebSocket upgrade and writes.
 * - internal/domain: For the balance event payload.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/nilebank/ledger-service/internal/domain"
)

// greetingPayload is the first frame sent on every connection.
type greetingPayload struct {
	Message string `json:"message"`
	Balance int64  `json:"balance"`
}

// balanceFrame is pushed whenever a balance event for the connected user arrives.
type balanceFrame struct {
	Type    string `json:"type"`
	Balance int64  `json:"balance"`
	Delta   int64  `json:"delta"`
	Reason  string `json:"reason"`
}

// Hub tracks dashboard WebSocket connections by user id and fans balance
// events out to them. Safe for concurrent use.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]bool)}
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]bool)
	}
	h.conns[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// BroadcastBalance pushes one balance event to every connection of the
// affected user. Write failures drop the connection; the client reconnects.
func (h *Hub) BroadcastBalance(event domain.BalanceEvent) {
	frame := balanceFrame{
		Type:    "balance",
		Balance: event.Balance,
		Delta:   event.Delta,
		Reason:  event.Reason,
	}

	h.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(h.conns[event.UserID]))
	for conn := range h.conns[event.UserID] {
		targets = append(targets, conn)
	}
	h.mu.Unlock()

	for _, conn := range targets {
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("level=warn component=ws msg=\"balance push failed; dropping connection\" user_id=%s err=%v", event.UserID, err)
			conn.Close()
			h.unregister(event.UserID, conn)
		}
	}
}

// HandleBalanceEventMessage is the RabbitMQ binding handler: it decodes a
// balance event body and broadcasts it. Undecodable bodies are acked and
// dropped; re-queuing them would loop forever.
func (h *Hub) HandleBalanceEventMessage(body []byte) bool {
	var event domain.BalanceEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("level=warn component=ws msg=\"balance event decode failed; dropping\" err=%v", err)
		return true
	}
	h.BroadcastBalance(event)
	return true
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSHandler upgrades an authenticated request and serves the connection
// until the client goes away.
func (h *Hub) WSHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("level=warn component=ws msg=\"upgrade failed\" user_id=%s err=%v", identity.ID, err)
		return
	}

	greeting := greetingPayload{Message: "مرحبًا بك في ملفك الشخصي", Balance: 0}
	if err := conn.WriteJSON(greeting); err != nil {
		log.Printf("level=warn component=ws msg=\"greeting send failed\" user_id=%s err=%v", identity.ID, err)
		conn.Close()
		return
	}

	h.register(identity.ID, conn)
	log.Printf("level=info component=ws msg=\"client connected\" user_id=%s", identity.ID)

	go func() {
		defer func() {
			h.unregister(identity.ID, conn)
			conn.Close()
			log.Printf("level=info component=ws msg=\"client disconnected\" user_id=%s", identity.ID)
		}()
		for {
			// The dashboard never sends application frames; this loop only
			// notices closes and keeps control frames flowing.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
