package service

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tieubaoca/docs-chat-be/types"
)

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WebSocketService serves the chat contract over a websocket connection.
type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader
}

func NewWebSocketService(chat *ChatService) *WebSocketService {
	return &WebSocketService{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var req WebsocketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		switch req.Type {
		case TypeWebsocketPing:
			if err := conn.WriteJSON(WebsocketResponse{Type: TypeWebsocketPong}); err != nil {
				return
			}
		case TypeWebsocketChat:
			var chatReq types.ChatRequest
			if err := json.Unmarshal(req.Payload, &chatReq); err != nil {
				s.writeError(conn, "invalid chat payload")
				continue
			}
			resp, err := s.chat.HandleMessage(r.Context(), &chatReq)
			if err != nil {
				if errors.Is(err, types.ErrInvalidRequest) {
					s.writeError(conn, err.Error())
				} else {
					log.Printf("WebSocket chat error: %v", err)
					s.writeError(conn, "failed to process message")
				}
				continue
			}
			if err := conn.WriteJSON(WebsocketResponse{Type: TypeWebsocketChat, Payload: resp}); err != nil {
				return
			}
		default:
			s.writeError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(WebsocketResponse{
		Type:    TypeWebsocketError,
		Payload: types.ErrorResponse{Error: message},
	}); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}
