package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiService struct {
	apiKeys      []string
	currentKey   int
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
	systemPrompt string
	timeout      time.Duration
	mu           sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName, systemPrompt string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	service := &GeminiService{
		apiKeys:      apiKeys,
		currentKey:   0,
		modelName:    modelName,
		systemPrompt: systemPrompt,
		timeout:      defaultGenerateTimeout,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	s.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(s.systemPrompt)},
	}
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		return err
	}
	return s.initClient()
}

func (s *GeminiService) GenerateResponse(ctx context.Context, userMessage string, docContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := genai.Text(buildUserPrompt(userMessage, docContext))
	resp, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		// Try rotating API key if there's an error
		if err := s.rotateAPIKey(); err != nil {
			return "", err
		}
		resp, err = s.model.GenerateContent(ctx, prompt)
		if err != nil {
			return "", err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}
