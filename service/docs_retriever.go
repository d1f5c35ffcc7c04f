package service

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tieubaoca/docs-chat-be/types"
)

// Grafana documentation knowledge base. Static, defined at process start.
var grafanaDocsKnowledge = []types.Document{
	{
		Topic: "Getting Started",
		Content: `Grafana is an open-source platform for monitoring and observability. ` +
			`To get started, download and install Grafana from the official website. ` +
			`The default port is 3000, and the default login is admin/admin.`,
		Keywords: []string{"install", "setup", "getting started", "download", "login"},
	},
	{
		Topic: "Data Sources",
		Content: `Grafana supports multiple data sources including Prometheus, InfluxDB, MySQL, PostgreSQL, and Elasticsearch. ` +
			`To add a data source, go to Configuration > Data Sources > Add data source. ` +
			`Configure the connection details and test the connection before saving.`,
		Keywords: []string{"data source", "prometheus", "influxdb", "mysql", "postgresql", "elasticsearch", "connection"},
	},
	{
		Topic: "Dashboards",
		Content: `Dashboards in Grafana are composed of panels that visualize your data. ` +
			`You can create a new dashboard from the + menu or import existing dashboards from grafana.com. ` +
			`Panels can display graphs, tables, stats, and more. Use variables to make dashboards dynamic.`,
		Keywords: []string{"dashboard", "panel", "visualization", "graph", "table", "import", "variable"},
	},
	{
		Topic: "Alerts",
		Content: `Grafana alerting allows you to define alert rules based on your data. ` +
			`Create alert rules from any graph panel. Configure notification channels like email, Slack, or PagerDuty. ` +
			`Alert rules can have multiple conditions and thresholds.`,
		Keywords: []string{"alert", "notification", "slack", "email", "pagerduty", "threshold", "rule"},
	},
	{
		Topic: "Queries",
		Content: `Each panel in Grafana has a query editor specific to its data source. ` +
			`For Prometheus, use PromQL. For SQL databases, write SQL queries. ` +
			`Use query transformations to modify data before visualization. ` +
			`The query editor supports autocomplete and syntax highlighting.`,
		Keywords: []string{"query", "promql", "sql", "transformation", "editor"},
	},
	{
		Topic: "Plugins",
		Content: `Grafana has a rich ecosystem of plugins including data source plugins, panel plugins, and app plugins. ` +
			`Install plugins via the Grafana CLI or the UI. Popular plugins include the worldmap panel and the clock panel. ` +
			`You can also develop custom plugins using the Grafana SDK.`,
		Keywords: []string{"plugin", "extension", "custom", "worldmap", "sdk"},
	},
	{
		Topic: "Authentication",
		Content: `Grafana supports multiple authentication methods including basic auth, OAuth, LDAP, and SAML. ` +
			`Configure authentication in the grafana.ini file or via environment variables. ` +
			`Set up organizations and teams to manage user access and permissions.`,
		Keywords: []string{"auth", "authentication", "oauth", "ldap", "saml", "login", "user", "permission"},
	},
	{
		Topic: "API",
		Content: `Grafana provides a comprehensive HTTP API for automation. ` +
			`Use the API to create dashboards, data sources, users, and more programmatically. ` +
			`Authentication can be done via API keys or basic auth. ` +
			`API documentation is available at /docs/api on your Grafana instance.`,
		Keywords: []string{"api", "http", "automation", "rest", "endpoint", "key"},
	},
}

var docsFollowUps = map[string][]string{
	"Getting Started": {
		"How do I change the default port?",
		"What are the system requirements?",
		"How do I upgrade Grafana?",
	},
	"Data Sources": {
		"How do I configure Prometheus?",
		"Can I use multiple data sources?",
		"How do I troubleshoot connection issues?",
	},
	"Dashboards": {
		"How do I share a dashboard?",
		"Can I export dashboards?",
		"How do I use dashboard variables?",
	},
	"Alerts": {
		"How do I set up Slack notifications?",
		"Can I have multiple alert conditions?",
		"How do I silence alerts?",
	},
	"Queries": {
		"What is PromQL?",
		"How do I join multiple queries?",
		"Can I use regular expressions in queries?",
	},
	"Plugins": {
		"How do I install a plugin?",
		"Where can I find community plugins?",
		"How do I develop a custom plugin?",
	},
	"Authentication": {
		"How do I set up OAuth?",
		"Can I use Active Directory?",
		"How do I manage user permissions?",
	},
	"API": {
		"How do I create an API key?",
		"Can I automate dashboard creation?",
		"What are the API rate limits?",
	},
}

var defaultDocsFollowUps = []string{
	"Tell me more about Grafana",
	"How do I get started?",
	"What are the main features?",
}

// Query prefixes too generic to score well on their own.
var genericQueryPrefixes = []string{"help", "what", "how", "tell", "show", "explain"}

var nonWordChars = regexp.MustCompile(`[^\w]`)

// DocsRetriever scores the static documentation corpus with keyword and topic
// matching. The corpus is small and curated, so keyword lists dominate over raw
// occurrence counting.
type DocsRetriever struct {
	docs []types.Document

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDocsRetriever creates a retriever over the built-in documentation corpus.
// The rand source drives tie-breaking and generic-query perturbation; seed it
// in tests for reproducible ordering.
func NewDocsRetriever(rng *rand.Rand) *DocsRetriever {
	return &DocsRetriever{
		docs: grafanaDocsKnowledge,
		rng:  rng,
	}
}

// NewDocsRetrieverWithCorpus creates a retriever over a custom corpus.
func NewDocsRetrieverWithCorpus(docs []types.Document, rng *rand.Rand) *DocsRetriever {
	return &DocsRetriever{
		docs: docs,
		rng:  rng,
	}
}

type scoredDoc struct {
	doc   types.Document
	score float64
}

// FindRelevant scores every document against the query and returns the top
// limit matches by descending score. Retrieval never returns empty while the
// corpus is non-empty: queries with no usable tokens or no positive scores fall
// back to the first limit documents in storage order.
func (r *DocsRetriever) FindRelevant(query string, limit int) []types.RelevantDoc {
	r.mu.Lock()
	defer r.mu.Unlock()

	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryWords := tokenizeQuery(queryLower)

	if len(queryWords) == 0 {
		// Query is too short to score, return the first documents as-is.
		return r.firstDocs(limit)
	}

	scored := make([]scoredDoc, 0, len(r.docs))
	for _, doc := range r.docs {
		score := r.scoreDocument(doc, queryLower, queryWords)
		if score > 0 {
			scored = append(scored, scoredDoc{doc: doc, score: score})
		}
	}

	// No matches at all: still return something rather than an empty result.
	if len(scored) == 0 {
		return r.firstDocs(limit)
	}

	// Shuffle before the stable sort so equal scores land in random order and
	// repeated identical queries do not always surface the same documents.
	r.rng.Shuffle(len(scored), func(i, j int) {
		scored[i], scored[j] = scored[j], scored[i]
	})
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	results := make([]types.RelevantDoc, 0, len(scored))
	for _, s := range scored {
		results = append(results, types.RelevantDoc{
			Topic:   s.doc.Topic,
			Content: s.doc.Content,
			Score:   s.score,
		})
	}
	return results
}

func (r *DocsRetriever) scoreDocument(doc types.Document, queryLower string, queryWords []string) float64 {
	var score float64
	contentLower := strings.ToLower(doc.Content)
	topicLower := strings.ToLower(doc.Topic)

	// Exact or verbatim topic match carries the highest weight.
	if queryLower == topicLower || strings.Contains(topicLower, queryLower) {
		score += 20
	}

	for _, word := range queryWords {
		if strings.Contains(topicLower, word) {
			score += 10
		}
	}

	for _, keyword := range doc.Keywords {
		keywordLower := strings.ToLower(keyword)

		for _, word := range queryWords {
			if word == keywordLower {
				score += 8
				break
			}
		}
		for _, word := range queryWords {
			if strings.Contains(keywordLower, word) || strings.Contains(word, keywordLower) {
				score += 5
				break
			}
		}
		if strings.Contains(queryLower, keywordLower) {
			score += 3
		}
	}

	if strings.Contains(contentLower, queryLower) {
		score += 6
	}

	// Per-word content matches: whole-word hits beat substring hits.
	wordMatches := 0
	for _, word := range queryWords {
		if len(word) <= 3 {
			continue
		}
		if wholeWordMatch(contentLower, word) {
			wordMatches++
			score += 2
		} else if strings.Contains(contentLower, word) {
			score += 1
		}
	}
	if wordMatches == len(queryWords) && len(queryWords) > 1 {
		score += 5
	}

	// Generic low-scoring queries get a small perturbation so the same handful
	// of documents does not surface every time.
	if score < 10 {
		for _, prefix := range genericQueryPrefixes {
			if strings.HasPrefix(queryLower, prefix) {
				score += r.rng.Float64() * 3
				break
			}
		}
	}

	return score
}

// GenerateFollowUps returns the curated follow-up questions for a topic, or a
// generic list for unknown topics.
func (r *DocsRetriever) GenerateFollowUps(topic string) []string {
	if questions, ok := docsFollowUps[topic]; ok {
		return questions
	}
	return defaultDocsFollowUps
}

func (r *DocsRetriever) firstDocs(limit int) []types.RelevantDoc {
	if limit > len(r.docs) {
		limit = len(r.docs)
	}
	results := make([]types.RelevantDoc, 0, limit)
	for _, doc := range r.docs[:limit] {
		results = append(results, types.RelevantDoc{
			Topic:   doc.Topic,
			Content: doc.Content,
		})
	}
	return results
}

// tokenizeQuery splits a lowercased query into words, drops words of length
// two or less, and strips punctuation from the survivors.
func tokenizeQuery(queryLower string) []string {
	var words []string
	for _, word := range strings.Fields(queryLower) {
		if len(word) <= 2 {
			continue
		}
		words = append(words, nonWordChars.ReplaceAllString(word, ""))
	}
	return words
}

func wholeWordMatch(text, word string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
