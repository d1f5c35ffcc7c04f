package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoConversationStore struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoConversationStore creates a ConversationStore backed by the
// "conversations" and "messages" collections of the given database.
func NewMongoConversationStore(db *mongo.Database) ConversationStore {
	return &mongoConversationStore{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

func (s *mongoConversationStore) CreateConversation(ctx context.Context, title string) (string, error) {
	now := time.Now().Unix()
	conversation := Conversation{
		ID:        bson.NewObjectID().Hex(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.conversations.InsertOne(ctx, conversation); err != nil {
		return "", err
	}
	return conversation.ID, nil
}

func (s *mongoConversationStore) SaveMessage(ctx context.Context, conversationID, role, content string) error {
	message := ChatMessage{
		ID:             bson.NewObjectID().Hex(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().Unix(),
	}
	if _, err := s.messages.InsertOne(ctx, message); err != nil {
		return err
	}
	return nil
}

func (s *mongoConversationStore) TouchConversation(ctx context.Context, conversationID string) error {
	_, err := s.conversations.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"updated_at": time.Now().Unix()}},
	)
	return err
}

func (s *mongoConversationStore) ListConversations(ctx context.Context) ([]Conversation, error) {
	cursor, err := s.conversations.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []Conversation
	for cursor.Next(ctx) {
		var conversation Conversation
		if err := cursor.Decode(&conversation); err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}
	return conversations, cursor.Err()
}

func (s *mongoConversationStore) GetMessages(ctx context.Context, conversationID string) ([]ChatMessage, error) {
	cursor, err := s.messages.Find(ctx,
		bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []ChatMessage
	for cursor.Next(ctx) {
		var message ChatMessage
		if err := cursor.Decode(&message); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, cursor.Err()
}
