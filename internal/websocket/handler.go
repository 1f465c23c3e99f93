package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"
)

// ServeChat runs one chat socket until the peer goes away.
func ServeChat(ctx context.Context, hub *Hub, conn *websocket.Conn, sessionID string, turn TurnFunc) {
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 32),
		turn:      turn,
		limiter:   rate.NewLimiter(turnRate, turnBurst),
	}
	if !hub.add(client) {
		conn.Close()
		return
	}

	client.reply("session", map[string]string{"session_id": sessionID})

	go client.writePump()
	client.readPump(ctx)
}
