package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/docs-chat-be/database"
	"github.com/tieubaoca/docs-chat-be/types"
)

type mockAIService struct {
	generate func(ctx context.Context, userMessage, docContext string) (string, error)
	calls    int
}

func (m *mockAIService) GenerateResponse(ctx context.Context, userMessage, docContext string) (string, error) {
	m.calls++
	return m.generate(ctx, userMessage, docContext)
}

type mockStore struct {
	createConversation func(ctx context.Context, title string) (string, error)
	saveMessage        func(ctx context.Context, conversationID, role, content string) error
	touchConversation  func(ctx context.Context, conversationID string) error
}

func (m *mockStore) CreateConversation(ctx context.Context, title string) (string, error) {
	if m.createConversation == nil {
		return "conv-1", nil
	}
	return m.createConversation(ctx, title)
}

func (m *mockStore) SaveMessage(ctx context.Context, conversationID, role, content string) error {
	if m.saveMessage == nil {
		return nil
	}
	return m.saveMessage(ctx, conversationID, role, content)
}

func (m *mockStore) TouchConversation(ctx context.Context, conversationID string) error {
	if m.touchConversation == nil {
		return nil
	}
	return m.touchConversation(ctx, conversationID)
}

func (m *mockStore) ListConversations(ctx context.Context) ([]database.Conversation, error) {
	return nil, nil
}

func (m *mockStore) GetMessages(ctx context.Context, conversationID string) ([]database.ChatMessage, error) {
	return nil, nil
}

func defaultChatConfig() ChatServiceConfig {
	return ChatServiceConfig{
		EnableFollowUpQuestions: true,
		EnableSources:           true,
	}
}

func staticRetriever(docs []types.RelevantDoc, followUps []string) *mockRetriever {
	return &mockRetriever{
		findRelevant: func(query string, limit int) []types.RelevantDoc {
			return docs
		},
		generateFollowUps: func(topic string) []string {
			return followUps
		},
	}
}

func TestHandleMessageEmptyMessage(t *testing.T) {
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			return "should not be called", nil
		},
	}
	s := NewChatService(ai, nil, nil, defaultChatConfig())

	for _, message := range []string{"", "   ", "\n\t"} {
		resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: message})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, types.ErrInvalidRequest)
	}
	assert.Zero(t, ai.calls)
}

func TestHandleMessageBuildsContextFromRetrieval(t *testing.T) {
	var seenContext string
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			seenContext = docContext
			return "the answer", nil
		},
	}
	retriever := staticRetriever([]types.RelevantDoc{
		{Topic: "Alerts", Content: "alert docs", Score: 30},
		{Topic: "Dashboards", Content: "dashboard docs", Score: 10},
	}, []string{"follow up?"})
	s := NewChatService(ai, retriever, nil, defaultChatConfig())

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: "how do alerts work?"})
	require.NoError(t, err)

	assert.Contains(t, seenContext, "Most relevant - Topic: Alerts\nalert docs")
	assert.Contains(t, seenContext, "Also relevant - Topic: Dashboards\ndashboard docs")

	assert.Equal(t, "the answer", resp.Response)
	assert.Equal(t, TempConversationID, resp.ConversationID)
	assert.Equal(t, []string{"follow up?"}, resp.FollowUpQuestions)
	assert.Equal(t, []string{"Alerts", "Dashboards"}, resp.Sources)
}

func TestHandleMessageProvidedContextVerbatim(t *testing.T) {
	var seenContext string
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			seenContext = docContext
			return "ok", nil
		},
	}
	retriever := staticRetriever([]types.RelevantDoc{{Topic: "Alerts", Content: "alert docs", Score: 30}}, nil)
	s := NewChatService(ai, retriever, nil, defaultChatConfig())

	_, err := s.HandleMessage(context.Background(), &types.ChatRequest{
		Message: "question",
		Context: "caller supplied context",
	})
	require.NoError(t, err)
	assert.Equal(t, "caller supplied context", seenContext)
}

func TestHandleMessageNoRetrieverNoContext(t *testing.T) {
	var seenContext string
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			seenContext = docContext
			return "ok", nil
		},
	}
	s := NewChatService(ai, nil, nil, defaultChatConfig())

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: "question"})
	require.NoError(t, err)
	assert.Equal(t, "No specific context provided.", seenContext)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, resp.FollowUpQuestions)
}

func TestHandleMessageEmptyRetrievalSentinel(t *testing.T) {
	var seenContext string
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			seenContext = docContext
			return "ok", nil
		},
	}
	retriever := staticRetriever(nil, []string{"follow up?"})
	s := NewChatService(ai, retriever, nil, defaultChatConfig())

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: "question"})
	require.NoError(t, err)
	assert.Equal(t, "No specific context found for this query.", seenContext)
	assert.Empty(t, resp.Sources)
}

func TestHandleMessageAIFailureFallsBack(t *testing.T) {
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			return "", errors.New("provider unavailable")
		},
	}
	retriever := staticRetriever([]types.RelevantDoc{{Topic: "Alerts", Content: "alert docs", Score: 30}}, nil)
	s := NewChatService(ai, retriever, nil, defaultChatConfig())

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: "how do alerts work?"})
	require.NoError(t, err)

	assert.Contains(t, resp.Response, "I apologize, but I'm having trouble processing your request right now.")
	assert.Contains(t, resp.Response, "alert docs")
	assert.Equal(t, TempConversationID, resp.ConversationID)
}

func TestHandleMessagePersistsNewConversation(t *testing.T) {
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			return "the answer", nil
		},
	}

	var createdTitle string
	var savedRoles []string
	var savedContents []string
	touched := false
	store := &mockStore{
		createConversation: func(ctx context.Context, title string) (string, error) {
			createdTitle = title
			return "conv-42", nil
		},
		saveMessage: func(ctx context.Context, conversationID, role, content string) error {
			assert.Equal(t, "conv-42", conversationID)
			savedRoles = append(savedRoles, role)
			savedContents = append(savedContents, content)
			return nil
		},
		touchConversation: func(ctx context.Context, conversationID string) error {
			assert.Equal(t, "conv-42", conversationID)
			touched = true
			return nil
		},
	}
	s := NewChatService(ai, nil, store, defaultChatConfig())

	longMessage := strings.Repeat("x", 80)
	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: longMessage})
	require.NoError(t, err)

	assert.Equal(t, "conv-42", resp.ConversationID)
	assert.Equal(t, strings.Repeat("x", 50), createdTitle)
	assert.Equal(t, []string{database.MessageRoleUser, database.MessageRoleAssistant}, savedRoles)
	assert.Equal(t, []string{longMessage, "the answer"}, savedContents)
	assert.True(t, touched)
}

func TestHandleMessageExistingConversation(t *testing.T) {
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			return "the answer", nil
		},
	}
	created := false
	store := &mockStore{
		createConversation: func(ctx context.Context, title string) (string, error) {
			created = true
			return "conv-new", nil
		},
	}
	s := NewChatService(ai, nil, store, defaultChatConfig())

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{
		Message:        "question",
		ConversationID: "conv-7",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "conv-7", resp.ConversationID)
}

func TestHandleMessagePersistenceFailure(t *testing.T) {
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			return "the answer", nil
		},
	}
	store := &mockStore{
		saveMessage: func(ctx context.Context, conversationID, role, content string) error {
			return errors.New("mongo down")
		},
	}
	s := NewChatService(ai, nil, store, defaultChatConfig())

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: "question"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save user message")
}

func TestHandleMessageFeatureFlagsOff(t *testing.T) {
	ai := &mockAIService{
		generate: func(ctx context.Context, userMessage, docContext string) (string, error) {
			return "the answer", nil
		},
	}
	followUpCalls := 0
	retriever := &mockRetriever{
		findRelevant: func(query string, limit int) []types.RelevantDoc {
			return []types.RelevantDoc{{Topic: "Alerts", Content: "alert docs", Score: 30}}
		},
		generateFollowUps: func(topic string) []string {
			followUpCalls++
			return []string{"follow up?"}
		},
	}
	s := NewChatService(ai, retriever, nil, ChatServiceConfig{})

	resp, err := s.HandleMessage(context.Background(), &types.ChatRequest{Message: "how do alerts work?"})
	require.NoError(t, err)
	assert.Empty(t, resp.FollowUpQuestions)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, followUpCalls)
}

func TestBuildContextOrdersByScore(t *testing.T) {
	// Input deliberately out of score order.
	docs := []types.RelevantDoc{
		{Topic: "B", Content: "b", Score: 5},
		{Topic: "A", Content: "a", Score: 50},
		{Topic: "C", Content: "c", Score: 20},
	}

	got := buildContext(docs, "")
	parts := strings.Split(got, "\n\n")
	require.Len(t, parts, 3)
	assert.Equal(t, "Most relevant - Topic: A\na", parts[0])
	assert.Equal(t, "Also relevant - Topic: C\nc", parts[1])
	assert.Equal(t, "Also relevant - Topic: B\nb", parts[2])
}
