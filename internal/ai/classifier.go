// Package ai wraps the external text-classification service. Every
// operation is best-effort: failures degrade to a safe default and are
// never surfaced to callers.
package ai

import "context"

// Sentiment values.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Phrase extraction intents.
const (
	IntentConcern = "concern"
	IntentPraise  = "praise"
)

// ExtractedItem is an inventory item pulled out of free text.
type ExtractedItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// TagSentiment is one tag with its in-context sentiment.
type TagSentiment struct {
	Tag       string `json:"tag"`
	Sentiment string `json:"sentiment"`
}

// ReportAnalysis is the AI assessment of a corruption report.
type ReportAnalysis struct {
	Severity      int      `json:"severity"` // 1-10
	Summary       string   `json:"summary"`
	IsValidReport bool     `json:"isValidReport"`
	Tags          []string `json:"tags"`
}

// Classifier is the text-classification capability. Implementations must
// not fail: the live adapter degrades internally, the null adapter returns
// fixed fallbacks.
type Classifier interface {
	// Enabled reports whether a live external service is configured.
	Enabled() bool
	// ClassifySentiment returns positive, neutral or negative; neutral on error.
	ClassifySentiment(ctx context.Context, text string) string
	// ExtractItems pulls {name, quantity} pairs out of free text; empty on error.
	ExtractItems(ctx context.Context, text string) []ExtractedItem
	// ExtractTags returns up to 3 tags with sentiment; empty on error.
	ExtractTags(ctx context.Context, text string) []TagSentiment
	// ExtractPhrase returns the main concern or praise as a short phrase,
	// or "" when there is none.
	ExtractPhrase(ctx context.Context, text, intent string) string
	// AnalyzeReport scores a corruption report; a default assessment on error.
	AnalyzeReport(ctx context.Context, description string, hasAttachment bool) ReportAnalysis
}

// New selects the live adapter when an API key is configured, otherwise
// the null adapter so the system stays functional without the AI service.
func New(apiKey string) Classifier {
	if apiKey == "" {
		return &Null{}
	}
	return &Gemini{APIKey: apiKey}
}
