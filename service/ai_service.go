package service

import (
	"context"
)

// AIService is the text generation capability. Implementations own their
// retry and timeout behavior; the chat service recovers from any failure with
// a local fallback, so errors here never reach the user.
type AIService interface {
	GenerateResponse(ctx context.Context, userMessage string, docContext string) (string, error)
}
