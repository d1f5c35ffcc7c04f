package service

import (
	"strings"

	"github.com/tieubaoca/docs-chat-be/types"
)

// TranscriptService splits timed caption events into overlapping text chunks
type TranscriptService struct {
	maxChunkSize int // Maximum size of each text chunk, in characters
	overlapSize  int // Size of overlap between chunks
}

var DefaultTranscriptServiceConfig = types.TranscriptServiceConfig{
	MaxChunkSize: 500,
	OverlapSize:  50,
}

// NewTranscriptService creates a new transcript service with configurable chunk sizes
func NewTranscriptService(config types.TranscriptServiceConfig) *TranscriptService {
	return &TranscriptService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
	}
}

// Chunk joins all caption texts into one string and greedily accumulates words
// into chunks of at most maxChunkSize characters, seeding each new chunk with a
// trailing overlap from the previous one.
//
// The time bounds are approximate: a word's character offset in the joined text
// is mapped proportionally onto the caption event index space. No per-word
// timing exists in the source data, so downstream consumers must not assume
// exact alignment.
func (s *TranscriptService) Chunk(events []types.CaptionEvent) []types.TranscriptChunk {
	if len(events) == 0 {
		return nil
	}

	texts := make([]string, 0, len(events))
	for _, ev := range events {
		texts = append(texts, ev.Text)
	}
	fullText := strings.Join(texts, " ")
	words := strings.Fields(fullText)
	totalLength := len(fullText)

	var chunks []types.TranscriptChunk
	var currentChunk []string
	currentLength := 0
	chunkStartTime := events[0].Start
	chunkEndTime := events[0].Start

	for _, word := range words {
		wordLength := len(word) + 1 // +1 for the joining space

		// Approximate the word's time from its position in the joined text.
		wordIndex := strings.Index(fullText[min(currentLength, totalLength):], word)
		if wordIndex >= 0 {
			wordIndex += min(currentLength, totalLength)
		} else {
			wordIndex = currentLength
		}
		relativePos := float64(wordIndex) / float64(totalLength)
		eventIndex := int(relativePos * float64(len(events)))
		if eventIndex >= len(events) {
			eventIndex = len(events) - 1
		}
		currentEvent := events[eventIndex]
		chunkEndTime = currentEvent.Start + currentEvent.Duration

		if currentLength+wordLength > s.maxChunkSize && len(currentChunk) > 0 {
			chunks = append(chunks, types.TranscriptChunk{
				Text:      strings.Join(currentChunk, " "),
				StartTime: chunkStartTime,
				EndTime:   chunkEndTime,
			})

			// Seed the next chunk with the trailing overlap, word based.
			overlapWords := int(float64(s.overlapSize) / float64(s.maxChunkSize) * float64(len(currentChunk)))
			currentChunk = currentChunk[len(currentChunk)-overlapWords:]
			currentLength = len(strings.Join(currentChunk, " "))
			chunkStartTime = currentEvent.Start
		}

		currentChunk = append(currentChunk, word)
		currentLength += wordLength
	}

	if len(currentChunk) > 0 {
		chunks = append(chunks, types.TranscriptChunk{
			Text:      strings.Join(currentChunk, " "),
			StartTime: chunkStartTime,
			EndTime:   chunkEndTime,
		})
	}

	return chunks
}
