package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

type connection struct {
	id     string
	socket *websocket.Conn
	send   chan []byte
}

func newConnection(id string, socket *websocket.Conn, sendBuffer int) *connection {
	return &connection{
		id:     id,
		socket: socket,
		send:   make(chan []byte, sendBuffer),
	}
}

// readPump - reads commands until the socket fails or is closed.
func (that *Server) readPump(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "readPump", "connectionID", conn.id)

	conn.socket.SetReadLimit(that.options.ReadLimit)
	_ = conn.socket.SetReadDeadline(time.Now().Add(that.options.PongWait))
	conn.socket.SetPongHandler(func(string) error {
		return conn.socket.SetReadDeadline(time.Now().Add(that.options.PongWait))
	})

	for {
		_, data, err := conn.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		that.handleMessage(ctx, conn.id, &message)
	}
}

// writePump - is the only writer of the socket. It stops when the hub closes the send queue.
func (that *Server) writePump(conn *connection) {
	log := that.logger.With("method", "writePump", "connectionID", conn.id)

	ticker := time.NewTicker(that.options.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = conn.socket.Close()
	}()

	for {
		select {
		case data, ok := <-conn.send:
			_ = conn.socket.SetWriteDeadline(time.Now().Add(that.options.WriteWait))
			if !ok {
				_ = conn.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debug("failed to write message", "error", err)
				}
				return
			}
		case <-ticker.C:
			_ = conn.socket.SetWriteDeadline(time.Now().Add(that.options.WriteWait))
			if err := conn.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
