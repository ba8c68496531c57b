package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize   = 16
	idlePingInterval = 30 * time.Second
	writeWait        = 10 * time.Second
)

// client - one upgraded connection. All writes go through send so the socket has a single writer.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// enqueue - hands a message to the writer. Returns false when the client is too slow to keep up.
func (that *client) enqueue(msg []byte) bool {
	select {
	case that.send <- msg:
		return true
	default:
		return false
	}
}

// writeLoop - drains send and pings the peer when the connection has been idle.
func (that *client) writeLoop() error {
	ticker := time.NewTicker(idlePingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-that.send:
			if !ok {
				_ = that.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return nil
			}

			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}

			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < idlePingInterval {
				continue
			}

			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}

			lastWrite = time.Now()
		}
	}
}
