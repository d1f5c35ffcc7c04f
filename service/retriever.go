package service

import "github.com/tieubaoca/docs-chat-be/types"

// Retriever scores one document collection against a query.
type Retriever interface {
	// FindRelevant returns at most limit documents ordered by descending score.
	FindRelevant(query string, limit int) []types.RelevantDoc
	// GenerateFollowUps suggests next questions for a topic.
	GenerateFollowUps(topic string) []string
}
