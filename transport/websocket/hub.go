package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-lobby/internal/event"
)

// Hub keeps the open connections and delivers outbound events to them.
type Hub struct {
	logger *slog.Logger

	connectionsMutex sync.RWMutex
	connections      map[string]*connection
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger.With("component", "websocket_hub"),
		connections: make(map[string]*connection),
	}
}

// Notify - queues every message for its recipient, or for every connection when it has none.
// Never blocks: a connection with a full queue loses the message.
func (that *Hub) Notify(messages ...event.Message) {
	log := that.logger.With("method", "Notify")

	for _, message := range messages {
		data, err := json.Marshal(message)
		if err != nil {
			log.Error("failed to marshal message", "action", message.Action, "error", err)
			continue
		}

		that.connectionsMutex.RLock()
		if message.IsBroadcast() {
			for _, conn := range that.connections {
				that.enqueue(conn, message.Action, data)
			}
		} else if conn, ok := that.connections[message.To]; ok {
			that.enqueue(conn, message.Action, data)
		} else {
			log.Debug("connection not found", "connectionID", message.To, "action", message.Action)
		}
		that.connectionsMutex.RUnlock()
	}
}

// Count - returns the number of open connections.
func (that *Hub) Count() int {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	return len(that.connections)
}

func (that *Hub) enqueue(conn *connection, action string, data []byte) {
	select {
	case conn.send <- data:
	default:
		that.logger.Warn("send queue is full, message dropped",
			"method", "enqueue", "connectionID", conn.id, "action", action)
	}
}

func (that *Hub) register(conn *connection) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[conn.id] = conn
}

// unregister - forgets the connection and stops its writer.
func (that *Hub) unregister(id string) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	conn, ok := that.connections[id]
	if !ok {
		return
	}

	delete(that.connections, id)
	close(conn.send)
}

// closeAll - closes every socket; their readers then unregister them.
func (that *Hub) closeAll() {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	for _, conn := range that.connections {
		if conn.socket != nil {
			_ = conn.socket.Close()
		}
	}
}
