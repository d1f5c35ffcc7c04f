package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultSystemPrompt describes the assistant's scope to the model.
const DefaultSystemPrompt = "You are a helpful AI assistant specializing in Grafana documentation and support. " +
	"You also have access to video transcripts from YouTube. " +
	"Provide clear, concise, and helpful responses based on the documentation and video content provided."

const defaultGenerateTimeout = 30 * time.Second

type OpenAIService struct {
	client       *openai.Client
	model        string
	systemPrompt string
	timeout      time.Duration
}

func NewOpenAIService(baseURL string, apiKey, model, systemPrompt string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // Set this to your local LLM server URL
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &OpenAIService{
		client:       openai.NewClientWithConfig(config),
		model:        model,
		systemPrompt: systemPrompt,
		timeout:      defaultGenerateTimeout,
	}
}

func (s *OpenAIService) GenerateResponse(ctx context.Context, userMessage string, docContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: s.systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildUserPrompt(userMessage, docContext),
				},
			},
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildUserPrompt combines the question with the retrieved documentation so a
// single completion call carries everything the model needs.
func buildUserPrompt(userMessage, docContext string) string {
	return fmt.Sprintf("User question: %s\n\nRelevant documentation:\n%s\n\n"+
		"Provide a clear, concise, and helpful response based ONLY on the documentation provided above. "+
		"Do not repeat the same information if it was already mentioned. "+
		"Focus on answering the specific question %q. "+
		"If the question is outside the scope of Grafana, politely redirect to Grafana-related topics. "+
		"Include code examples when relevant.",
		userMessage, docContext, userMessage)
}
