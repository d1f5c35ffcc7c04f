package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/tieubaoca/docs-chat-be/database"
	"github.com/tieubaoca/docs-chat-be/types"
)

const (
	retrievalLimit = 3

	// Returned conversation ID when persistence is disabled or absent.
	TempConversationID = "temp"

	noContextSentinel = "No specific context found for this query."

	conversationTitleLimit = 50
)

type ChatServiceConfig struct {
	EnableFollowUpQuestions bool
	EnableSources           bool
	Debug                   bool
}

// ChatService is the request-level contract: validate the message, retrieve
// context, generate a response with a local fallback, and optionally persist
// the exchange. Retriever and store are optional collaborators; their absence
// disables the corresponding step rather than failing the request.
type ChatService struct {
	ai        AIService
	retriever Retriever
	store     database.ConversationStore
	config    ChatServiceConfig
}

func NewChatService(ai AIService, retriever Retriever, store database.ConversationStore, config ChatServiceConfig) *ChatService {
	return &ChatService{
		ai:        ai,
		retriever: retriever,
		store:     store,
		config:    config,
	}
}

// HandleMessage processes one chat request. Generation failures are recovered
// with a fallback answer built from the retrieved context, so the user always
// gets readable text; only malformed input and persistence failures surface as
// errors. On a persistence failure the computed response is discarded and the
// request fails, keeping the stored history consistent with what callers saw.
func (s *ChatService) HandleMessage(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, types.ErrInvalidRequest
	}

	docContext := req.Context
	var relevantDocs []types.RelevantDoc
	primaryTopic := "General"

	if s.retriever != nil {
		relevantDocs = s.retriever.FindRelevant(req.Message, retrievalLimit)
		if s.config.Debug {
			log.Printf("[ChatService] Query: %q", req.Message)
			for _, doc := range relevantDocs {
				log.Printf("[ChatService]   topic=%q score=%.1f", doc.Topic, doc.Score)
			}
		}
		docContext = buildContext(relevantDocs, req.Context)
		if len(relevantDocs) > 0 {
			primaryTopic = relevantDocs[0].Topic
		}
	} else if docContext == "" {
		docContext = "No specific context provided."
	}

	response, err := s.ai.GenerateResponse(ctx, req.Message, docContext)
	if err != nil {
		// The model backend is unreachable or misbehaving; answer from the
		// retrieved context instead of surfacing the error.
		log.Printf("[ChatService] AI provider error: %v", err)
		response = fallbackResponse(docContext)
	}

	var followUps []string
	if s.config.EnableFollowUpQuestions && s.retriever != nil {
		followUps = s.retriever.GenerateFollowUps(primaryTopic)
	}

	conversationID := req.ConversationID
	if s.store != nil {
		conversationID, err = s.persistExchange(ctx, req.Message, response, conversationID)
		if err != nil {
			return nil, err
		}
	}
	if conversationID == "" {
		conversationID = TempConversationID
	}

	chatResponse := &types.ChatResponse{
		Response:       response,
		ConversationID: conversationID,
	}
	if s.config.EnableFollowUpQuestions {
		chatResponse.FollowUpQuestions = followUps
	}
	if s.config.EnableSources && len(relevantDocs) > 0 {
		sources := make([]string, 0, len(relevantDocs))
		for _, doc := range relevantDocs {
			sources = append(sources, doc.Topic)
		}
		chatResponse.Sources = sources
	}
	return chatResponse, nil
}

// buildContext formats the top retrieved documents into the prompt context.
// A caller-supplied context is used verbatim.
func buildContext(relevantDocs []types.RelevantDoc, providedContext string) string {
	if providedContext != "" {
		return providedContext
	}
	if len(relevantDocs) == 0 {
		return noContextSentinel
	}

	sorted := make([]types.RelevantDoc, len(relevantDocs))
	copy(sorted, relevantDocs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > retrievalLimit {
		sorted = sorted[:retrievalLimit]
	}

	parts := make([]string, 0, len(sorted))
	for i, doc := range sorted {
		priority := "Also relevant"
		if i == 0 {
			priority = "Most relevant"
		}
		parts = append(parts, fmt.Sprintf("%s - Topic: %s\n%s", priority, doc.Topic, doc.Content))
	}
	return strings.Join(parts, "\n\n")
}

func fallbackResponse(docContext string) string {
	return fmt.Sprintf("I apologize, but I'm having trouble processing your request right now.\n\n"+
		"Based on the available documentation:\n\n%s\n\n"+
		"Please try rephrasing your question, or contact support if the issue persists.", docContext)
}

// persistExchange creates the conversation on first contact and appends both
// sides of the exchange. Persistence errors propagate; they are the only
// internal failures surfaced to the caller.
func (s *ChatService) persistExchange(ctx context.Context, userMessage, assistantResponse, conversationID string) (string, error) {
	if conversationID == "" {
		title := userMessage
		if runes := []rune(title); len(runes) > conversationTitleLimit {
			title = string(runes[:conversationTitleLimit])
		}
		id, err := s.store.CreateConversation(ctx, title)
		if err != nil {
			return "", fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = id
	}

	if err := s.store.SaveMessage(ctx, conversationID, database.MessageRoleUser, userMessage); err != nil {
		return "", fmt.Errorf("failed to save user message: %w", err)
	}
	if err := s.store.SaveMessage(ctx, conversationID, database.MessageRoleAssistant, assistantResponse); err != nil {
		return "", fmt.Errorf("failed to save assistant message: %w", err)
	}
	if err := s.store.TouchConversation(ctx, conversationID); err != nil {
		return "", fmt.Errorf("failed to update conversation: %w", err)
	}
	return conversationID, nil
}
