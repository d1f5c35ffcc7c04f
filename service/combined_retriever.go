package service

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/tieubaoca/docs-chat-be/types"
)

const maxFollowUpQuestions = 5

// CombinedRetriever fans a query out to every configured source retriever,
// merges the results, deduplicates, and re-ranks. It holds no corpus state of
// its own. Construct one at startup and pass it explicitly; there is no shared
// package-level instance.
type CombinedRetriever struct {
	sources []Retriever

	mu  sync.Mutex
	rng *rand.Rand
}

func NewCombinedRetriever(rng *rand.Rand, sources ...Retriever) *CombinedRetriever {
	return &CombinedRetriever{
		sources: sources,
		rng:     rng,
	}
}

// FindRelevant queries every source concurrently, over-fetching so the merged
// ranking has more candidates than the final limit. Two documents are
// duplicates when both topic and content match; the higher-scored one wins.
func (r *CombinedRetriever) FindRelevant(query string, limit int) []types.RelevantDoc {
	sourceLimit := limit
	if sourceLimit < 5 {
		sourceLimit = 5
	}

	perSource := make([][]types.RelevantDoc, len(r.sources))
	var wg sync.WaitGroup
	for i, source := range r.sources {
		wg.Add(1)
		go func(i int, source Retriever) {
			defer wg.Done()
			perSource[i] = source.FindRelevant(query, sourceLimit)
		}(i, source)
	}
	wg.Wait()

	var merged []types.RelevantDoc
	for _, docs := range perSource {
		for _, doc := range docs {
			idx := -1
			for j, existing := range merged {
				if existing.Topic == doc.Topic && existing.Content == doc.Content {
					idx = j
					break
				}
			}
			if idx < 0 {
				merged = append(merged, doc)
			} else if doc.Score > merged[idx].Score {
				merged[idx] = doc
			}
		}
	}

	// Random order among equal scores so repeated identical queries do not
	// feel mechanical.
	r.mu.Lock()
	r.rng.Shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})
	r.mu.Unlock()
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// GenerateFollowUps concatenates every source's suggestions, deduplicates by
// exact string match preserving first-seen order, and caps the result at five.
func (r *CombinedRetriever) GenerateFollowUps(topic string) []string {
	seen := make(map[string]bool)
	var questions []string
	for _, source := range r.sources {
		for _, q := range source.GenerateFollowUps(topic) {
			if seen[q] {
				continue
			}
			seen[q] = true
			questions = append(questions, q)
			if len(questions) == maxFollowUpQuestions {
				return questions
			}
		}
	}
	return questions
}
