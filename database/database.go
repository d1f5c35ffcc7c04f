package database

import (
	"context"
)

// Conversation represents a chat conversation
type Conversation struct {
	ID        string `bson:"_id" json:"id"`
	Title     string `bson:"title" json:"title"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
	UpdatedAt int64  `bson:"updated_at" json:"updated_at"`
}

// ChatMessage represents a single persisted message
type ChatMessage struct {
	ID             string `bson:"_id" json:"id"`
	ConversationID string `bson:"conversation_id" json:"conversation_id"`
	Role           string `bson:"role" json:"role"`
	Content        string `bson:"content" json:"content"`
	CreatedAt      int64  `bson:"created_at" json:"created_at"`
}

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ConversationStore defines the persistence capability of the chat service.
// All methods may hit the network; callers pass a bounded context.
type ConversationStore interface {
	CreateConversation(ctx context.Context, title string) (string, error)
	SaveMessage(ctx context.Context, conversationID, role, content string) error
	TouchConversation(ctx context.Context, conversationID string) error

	ListConversations(ctx context.Context) ([]Conversation, error)
	GetMessages(ctx context.Context, conversationID string) ([]ChatMessage, error)
}
