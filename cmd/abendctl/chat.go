package main

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"abend-assist-be/internal/dto"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	useSocket bool
)

// chatCmd is an interactive console for the assistant.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a running server from the terminal",
	Long: `Opens an interactive conversation. Replies are rendered as markdown.
Type /reset to start over and /quit to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&serverURL, "url", "http://localhost:3000", "server base URL")
	chatCmd.Flags().BoolVar(&useSocket, "ws", false, "talk over the websocket instead of REST")
}

type turnFunc func(message string) (string, error)

func runChat(cmd *cobra.Command, args []string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return err
	}

	sessionId := uuid.NewString()
	send := restTurn(sessionId)
	if useSocket {
		conn, err := dialChat(sessionId)
		if err != nil {
			return err
		}
		defer conn.Close()
		send = socketTurn(conn)
	}

	color.Cyan("Abend assistant (session %s). Type /reset or /quit.", sessionId)
	in := bufio.NewScanner(os.Stdin)
	for {
		color.New(color.FgYellow, color.Bold).Print("you> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "/quit":
			return nil
		case "/reset":
			_, err := sendRequest[any](http.MethodPost, apiURL(serverURL, "/api/chat/reset"), "", dto.ResetChatRequest{SessionId: sessionId})
			if err != nil {
				color.Red("reset failed: %v", err)
			} else {
				color.Green("conversation reset")
			}
			continue
		}

		reply, err := send(line)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}
		out, err := renderer.Render(reply)
		if err != nil {
			out = reply
		}
		fmt.Print(out)
	}
}

func restTurn(sessionId string) turnFunc {
	return func(message string) (string, error) {
		res, err := sendRequest[dto.ChatResponse](http.MethodPost, apiURL(serverURL, "/api/chat"), "", dto.ChatRequest{
			SessionId: sessionId,
			Message:   message,
		})
		if err != nil {
			return "", err
		}
		return res.Data.Reply, nil
	}
}

type socketFrame struct {
	Type string           `json:"type"`
	Data dto.ChatResponse `json:"data"`
}

func dialChat(sessionId string) (*websocket.Conn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/ws/chat"
	u.RawQuery = url.Values{"session_id": {sessionId}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	// The server greets with the session frame first.
	var hello socketFrame
	if err := conn.ReadJSON(&hello); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// socketTurn writes one utterance and waits for its reply, printing any
// notices that arrive in between.
func socketTurn(conn *websocket.Conn) turnFunc {
	return func(message string) (string, error) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			return "", err
		}
		for {
			var raw struct {
				Type string                 `json:"type"`
				Data map[string]interface{} `json:"data"`
			}
			if err := conn.ReadJSON(&raw); err != nil {
				return "", err
			}
			switch raw.Type {
			case "reply":
				reply, _ := raw.Data["reply"].(string)
				return reply, nil
			case "error":
				msg, _ := raw.Data["message"].(string)
				return "", fmt.Errorf("%s", msg)
			default:
				msg, _ := raw.Data["message"].(string)
				color.Magenta("[notice] %s", msg)
			}
		}
	}
}
