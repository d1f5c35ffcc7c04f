package types

// ChatRequest is the inbound chat message shape. Context is optional; when the
// caller supplies it, retrieval is skipped for context building.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	Context        string `json:"context,omitempty"`
}

type ChatResponse struct {
	Response          string   `json:"response"`
	ConversationID    string   `json:"conversation_id"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
	Sources           []string `json:"sources,omitempty"`
}

// RelevantDoc is the retrieval result contract between retrievers and the chat
// service. Score is per-query, zero when the retriever does not score.
type RelevantDoc struct {
	Topic   string  `json:"topic"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Document is a retrievable unit of the static knowledge base. Keywords are
// curated synonyms used by the keyword scorer.
type Document struct {
	Topic    string   `json:"topic"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}
