package types

import (
	"time"
)

// InboundFrame covers every frame a client may send on the socket. Type is
// one of "auth", "join", "chat", "leave".
type InboundFrame struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	RoomID  string `json:"room_id,omitempty"`
	Content string `json:"content,omitempty"`
}

// MessageFrame is an outbound broadcast of one persisted message. Type is
// "chat" for user and assistant messages, "system" for join/leave/end notices.
type MessageFrame struct {
	Type        string    `json:"type"`
	RoomID      string    `json:"room_id"`
	UserID      int       `json:"user_id"`
	Username    string    `json:"username"`
	Content     string    `json:"content"`
	IsAssistant bool      `json:"is_assistant"`
	SentAt      time.Time `json:"sent_at"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
