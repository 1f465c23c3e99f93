package websocket

import (
	"context"
	"encoding/json"
	"time"

	"abend-assist-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// Utterances per second a socket may send, with a small burst.
	turnRate  = 2
	turnBurst = 5
)

// TurnFunc resolves one utterance for the session.
type TurnFunc func(ctx context.Context, sessionID, utterance string) (*dto.ChatResponse, error)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte

	turn    TurnFunc
	limiter *rate.Limiter
}

func (c *Client) trySend(data []byte) {
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn("Hub", "Client send buffer full, dropping frame", map[string]interface{}{"session_id": c.SessionID})
	}
}

func (c *Client) reply(frameType string, data interface{}) {
	raw, err := json.Marshal(Frame{Type: frameType, Data: data})
	if err != nil {
		return
	}
	c.trySend(raw)
}

// readPump turns every text frame into a chat turn.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Hub.remove(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected close", map[string]interface{}{"session_id": c.SessionID, "error": err})
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))

		if !c.limiter.Allow() {
			c.reply("error", map[string]string{"message": "Too many messages, please slow down"})
			continue
		}

		res, err := c.turn(ctx, c.SessionID, string(data))
		if err != nil {
			c.reply("error", map[string]string{"message": "Unable to process the message"})
			continue
		}
		c.reply("reply", res)
	}
}

// writePump pumps frames from Send to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Hub.done:
			// Closing the connection ends readPump as well.
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
